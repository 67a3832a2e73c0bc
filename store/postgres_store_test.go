package store_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatmanBruc/bat-bot-checkin/store"
	"github.com/BatmanBruc/bat-bot-checkin/types"
)

// These tests need a real database; set TEST_POSTGRES_DSN to run them.
func newPostgresLedger(t *testing.T) *store.PostgresLedger {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	s, err := store.NewPostgresLedger(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresRecordCheckinConcurrentSameDay(t *testing.T) {
	s := newPostgresLedger(t)
	ctx := context.Background()

	const userID = int64(900042)
	require.NoError(t, s.EnsureUser(ctx, types.User{UserID: userID, FirstName: "Race"}))

	const workers = 20
	var wg sync.WaitGroup
	creditedCh := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			credited, err := s.RecordCheckin(ctx, userID, "2000-01-01", types.DefaultPoints)
			assert.NoError(t, err)
			creditedCh <- credited
		}()
	}
	wg.Wait()
	close(creditedCh)

	creditedCount := 0
	for credited := range creditedCh {
		if credited {
			creditedCount++
		}
	}
	assert.Equal(t, 1, creditedCount, "unique constraint must admit exactly one insert")

	ok, err := s.HasCheckedInToday(ctx, userID, "2000-01-01")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresEnsureUserKeepsFirstMetadata(t *testing.T) {
	s := newPostgresLedger(t)
	ctx := context.Background()

	const userID = int64(900043)
	require.NoError(t, s.EnsureUser(ctx, types.User{UserID: userID, Username: "first", FirstName: "First"}))
	require.NoError(t, s.EnsureUser(ctx, types.User{UserID: userID, Username: "second", FirstName: "Second"}))

	counts, err := s.ListUsersWithCounts(ctx)
	require.NoError(t, err)
	for _, c := range counts {
		if c.UserID == userID {
			assert.Equal(t, "first", c.Username)
			return
		}
	}
	t.Fatalf("user %d not found in counts", userID)
}
