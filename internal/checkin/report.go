package checkin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/types"
)

// ErrUnauthorized is the expected outcome when a non-admin asks for the
// report. It is rendered as a permission message, never as a failure.
var ErrUnauthorized = errors.New("requester is not an admin")

type Reporter struct {
	ledger types.LedgerStore
	admins map[int64]struct{}
	log    *zap.Logger
}

func NewReporter(ledger types.LedgerStore, adminIDs []int64, log *zap.Logger) *Reporter {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Reporter{
		ledger: ledger,
		admins: admins,
		log:    log,
	}
}

func (r *Reporter) IsAdmin(userID int64) bool {
	_, ok := r.admins[userID]
	return ok
}

// BuildReport returns the aggregated report for an admin requester. The
// authorization check runs before any store read.
func (r *Reporter) BuildReport(ctx context.Context, requesterID int64) (*types.Report, error) {
	if !r.IsAdmin(requesterID) {
		r.log.Info("stats denied", zap.Int64("user_id", requesterID))
		return nil, ErrUnauthorized
	}
	return r.Snapshot(ctx)
}

// Snapshot assembles the report without an authorization check. The admin
// HTTP API uses it behind its own bearer-token gate.
func (r *Reporter) Snapshot(ctx context.Context) (*types.Report, error) {
	perUser, err := r.ledger.ListUsersWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users with counts: %w", err)
	}
	total, err := r.ledger.TotalCheckins(ctx)
	if err != nil {
		return nil, fmt.Errorf("total checkins: %w", err)
	}
	if perUser == nil {
		// an empty ledger is a valid, reportable state
		perUser = []types.UserCheckinCount{}
	}
	return &types.Report{PerUser: perUser, Total: total}, nil
}
