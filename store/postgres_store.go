package store

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BatmanBruc/bat-bot-checkin/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const queryTimeout = 5 * time.Second

// PostgresLedger implements types.LedgerStore on a pgx pool. The
// one-check-in-per-day invariant lives in the schema: checkins carries
// UNIQUE (user_id, checkin_date), and RecordCheckin treats the conflict
// outcome of a single INSERT as the authoritative "already credited" signal.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(ctx context.Context, dsn string) (*PostgresLedger, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresLedger{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresLedger) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if db == "" {
		db = "checkin_bot"
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	if user == "" {
		user = "checkin_bot"
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}

func (s *PostgresLedger) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// EnsureUser inserts the user if absent. Existing metadata is kept as-is, so
// repeated calls with differing display fields are no-ops.
func (s *PostgresLedger) EnsureUser(ctx context.Context, user types.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO users (user_id, username, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO NOTHING;
`, user.UserID, strings.TrimSpace(user.Username), strings.TrimSpace(user.FirstName), strings.TrimSpace(user.LastName))
	return err
}

func (s *PostgresLedger) HasCheckedInToday(ctx context.Context, userID int64, day string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var ok bool
	err := s.pool.QueryRow(ctx, `
SELECT EXISTS(
  SELECT 1
  FROM checkins
  WHERE user_id = $1
    AND checkin_date = $2
)
`, userID, day).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *PostgresLedger) RecordCheckin(ctx context.Context, userID int64, day string, points int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
INSERT INTO checkins (user_id, checkin_date, points)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, checkin_date) DO NOTHING
`, userID, day, points)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresLedger) ListUsersWithCounts(ctx context.Context) ([]types.UserCheckinCount, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
SELECT u.user_id, u.username, u.first_name, u.last_name, COUNT(c.id) AS checkin_count
FROM users u
LEFT JOIN checkins c ON c.user_id = u.user_id
GROUP BY u.user_id, u.username, u.first_name, u.last_name
ORDER BY checkin_count DESC, u.user_id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []types.UserCheckinCount
	for rows.Next() {
		var c types.UserCheckinCount
		if err := rows.Scan(&c.UserID, &c.Username, &c.FirstName, &c.LastName, &c.CheckinCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *PostgresLedger) TotalCheckins(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM checkins`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
