package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/BatmanBruc/bat-bot-checkin/types"
)

var (
	bucketUsers    = []byte("users")
	bucketCheckins = []byte("checkins")
)

// BoltLedger implements types.LedgerStore on a single-file embedded database
// for deployments without Postgres. Bolt runs one write transaction at a
// time, so the key-existence check inside db.Update is already serialized
// against every concurrent RecordCheckin for the same (user, day).
type BoltLedger struct {
	db *bolt.DB
}

func NewBoltLedger(path string) (*BoltLedger, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketUsers); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketCheckins)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltLedger{db: db}, nil
}

func (s *BoltLedger) Close() error {
	return s.db.Close()
}

func userKey(userID int64) []byte {
	return []byte(fmt.Sprintf("%d", userID))
}

func checkinKey(userID int64, day string) []byte {
	return []byte(fmt.Sprintf("%d|%s", userID, day))
}

func (s *BoltLedger) EnsureUser(ctx context.Context, user types.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		key := userKey(user.UserID)
		if b.Get(key) != nil {
			return nil
		}
		user.JoinDate = time.Now().UTC()
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

func (s *BoltLedger) HasCheckedInToday(ctx context.Context, userID int64, day string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketCheckins).Get(checkinKey(userID, day)) != nil
		return nil
	})
	return found, err
}

func (s *BoltLedger) RecordCheckin(ctx context.Context, userID int64, day string, points int) (bool, error) {
	credited := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCheckins)
		key := checkinKey(userID, day)
		if b.Get(key) != nil {
			return nil
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		ev := types.CheckinEvent{
			ID:          int64(seq),
			UserID:      userID,
			CheckinDate: day,
			Points:      points,
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		credited = true
		return b.Put(key, data)
	})
	if err != nil {
		return false, err
	}
	return credited, nil
}

func (s *BoltLedger) ListUsersWithCounts(ctx context.Context) ([]types.UserCheckinCount, error) {
	var counts []types.UserCheckinCount
	err := s.db.View(func(tx *bolt.Tx) error {
		byUser := make(map[int64]int64)
		err := tx.Bucket(bucketCheckins).ForEach(func(k, v []byte) error {
			var ev types.CheckinEvent
			if err := json.Unmarshal(v, &ev); err != nil {
				return err
			}
			byUser[ev.UserID]++
			return nil
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			var u types.User
			if err := json.Unmarshal(v, &u); err != nil {
				return err
			}
			counts = append(counts, types.UserCheckinCount{
				UserID:       u.UserID,
				Username:     u.Username,
				FirstName:    u.FirstName,
				LastName:     u.LastName,
				CheckinCount: byUser[u.UserID],
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].CheckinCount != counts[j].CheckinCount {
			return counts[i].CheckinCount > counts[j].CheckinCount
		}
		return counts[i].UserID < counts[j].UserID
	})
	return counts, nil
}

func (s *BoltLedger) TotalCheckins(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCheckins).ForEach(func(k, v []byte) error {
			total++
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
