// Package checkin holds the per-request workflows behind the bot commands:
// the check-in service and the stats reporter. Both are stateless over the
// ledger store; the one-per-day correctness burden lives in the store's
// RecordCheckin atomicity, not here.
package checkin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/types"
)

type Service struct {
	ledger types.LedgerStore
	log    *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewService(ledger types.LedgerStore, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		ledger: ledger,
		log:    log,
		loc:    loc,
		now:    time.Now,
	}
}

// Today returns the current civil date in the configured check-in timezone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(types.DateLayout)
}

// PerformCheckin registers the user if new and attempts to record today's
// check-in. Already-checked-in is a normal outcome, not an error; storage
// failures propagate so the caller never renders a false success.
func (s *Service) PerformCheckin(ctx context.Context, id types.Identity) (types.CheckinOutcome, error) {
	user := types.User{
		UserID:    id.UserID,
		Username:  id.Username,
		FirstName: id.FirstName,
		LastName:  id.LastName,
	}
	if err := s.ledger.EnsureUser(ctx, user); err != nil {
		return "", fmt.Errorf("ensure user %d: %w", id.UserID, err)
	}

	day := s.Today()
	credited, err := s.ledger.RecordCheckin(ctx, id.UserID, day, types.DefaultPoints)
	if err != nil {
		return "", fmt.Errorf("record checkin for user %d on %s: %w", id.UserID, day, err)
	}
	if !credited {
		return types.OutcomeAlreadyCheckedIn, nil
	}
	s.log.Info("checkin recorded",
		zap.Int64("user_id", id.UserID),
		zap.String("day", day),
	)
	return types.OutcomeCheckedIn, nil
}
