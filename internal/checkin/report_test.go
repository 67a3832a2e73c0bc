package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/types"
)

const adminID = int64(1000)

func TestBuildReportAfterCheckins(t *testing.T) {
	svc, ledger := newBoltService(t, time.UTC)
	reporter := NewReporter(ledger, []int64{adminID}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.PerformCheckin(ctx, identity(1, "Alice"))
	require.NoError(t, err)
	_, err = svc.PerformCheckin(ctx, identity(2, "Bob"))
	require.NoError(t, err)

	report, err := reporter.BuildReport(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Total)
	require.Len(t, report.PerUser, 2)
	assert.Equal(t, int64(1), report.PerUser[0].CheckinCount)
	assert.Equal(t, int64(1), report.PerUser[1].CheckinCount)
}

func TestBuildReportEmptyLedger(t *testing.T) {
	_, ledger := newBoltService(t, time.UTC)
	reporter := NewReporter(ledger, []int64{adminID}, zap.NewNop())

	report, err := reporter.BuildReport(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Total)
	assert.Empty(t, report.PerUser)
	assert.NotNil(t, report.PerUser)
}

func TestBuildReportUnauthorized(t *testing.T) {
	spy := &spyLedger{}
	reporter := NewReporter(spy, []int64{adminID}, zap.NewNop())

	report, err := reporter.BuildReport(context.Background(), 555)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, report)
	assert.Zero(t, spy.listCalls, "auth must be checked before any store read")
	assert.Zero(t, spy.totalCalls)
}

func TestBuildReportUnauthorizedWithEmptyAdminSet(t *testing.T) {
	spy := &spyLedger{}
	reporter := NewReporter(spy, nil, zap.NewNop())

	_, err := reporter.BuildReport(context.Background(), adminID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// spyLedger records which read operations were reached.
type spyLedger struct {
	listCalls  int
	totalCalls int
}

func (s *spyLedger) EnsureUser(ctx context.Context, user types.User) error { return nil }
func (s *spyLedger) HasCheckedInToday(ctx context.Context, userID int64, day string) (bool, error) {
	return false, nil
}
func (s *spyLedger) RecordCheckin(ctx context.Context, userID int64, day string, points int) (bool, error) {
	return true, nil
}
func (s *spyLedger) ListUsersWithCounts(ctx context.Context) ([]types.UserCheckinCount, error) {
	s.listCalls++
	return nil, nil
}
func (s *spyLedger) TotalCheckins(ctx context.Context) (int64, error) {
	s.totalCalls++
	return 0, nil
}
func (s *spyLedger) Close() error { return nil }
