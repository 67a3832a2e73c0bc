package types

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the storage format for a check-in day. A day is a civil date
// computed in the configured check-in timezone; it never carries a time
// component.
const DateLayout = "2006-01-02"

// DefaultPoints is the credit for a single check-in.
const DefaultPoints = 1

type User struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	JoinDate  time.Time `json:"join_date"`
}

type CheckinEvent struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	CheckinDate string `json:"checkin_date"`
	Points      int    `json:"points"`
}

// Identity is what the transport knows about the sender of a command.
type Identity struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
}

type CheckinOutcome string

const (
	OutcomeCheckedIn        CheckinOutcome = "checked_in"
	OutcomeAlreadyCheckedIn CheckinOutcome = "already_checked_in"
)

type UserCheckinCount struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	CheckinCount int64  `json:"checkin_count"`
}

// DisplayName composes first and last name, falling back to the user id when
// both are empty.
func (u UserCheckinCount) DisplayName() string {
	name := strings.TrimSpace(u.FirstName)
	if u.LastName != "" {
		name = strings.TrimSpace(name + " " + u.LastName)
	}
	if name == "" {
		name = strconv.FormatInt(u.UserID, 10)
	}
	return name
}

type Report struct {
	PerUser []UserCheckinCount `json:"per_user"`
	Total   int64              `json:"total"`
}

// LedgerStore is the durable record of users and their check-in events.
//
// RecordCheckin must be atomic with respect to the existence check: out of N
// concurrent calls for the same (userID, day) exactly one returns
// credited=true. Implementations enforce this at the storage layer, either
// with a uniqueness constraint or a single-writer transaction.
type LedgerStore interface {
	EnsureUser(ctx context.Context, user User) error
	HasCheckedInToday(ctx context.Context, userID int64, day string) (bool, error)
	RecordCheckin(ctx context.Context, userID int64, day string, points int) (credited bool, err error)
	ListUsersWithCounts(ctx context.Context) ([]UserCheckinCount, error)
	TotalCheckins(ctx context.Context) (int64, error)
	Close() error
}

// DedupStore remembers which transport updates were already handled, so a
// redelivered update can be dropped before it reaches the handlers.
type DedupStore interface {
	FirstSeen(ctx context.Context, updateID int64) (bool, error)
}
