package store

import (
	"context"
	"strconv"
	"time"
)

// RedisDedupStore tracks handled Telegram update ids. Polling transports can
// redeliver an update after a timeout or restart; the first handler to claim
// the id wins, later deliveries are dropped. Entries expire on their own —
// update ids are monotonically increasing, so an id older than the TTL can
// never come back.
type RedisDedupStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisDedupStore(redisClient *RedisClient, ttlHours int) *RedisDedupStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisDedupStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisDedupStore) FirstSeen(ctx context.Context, updateID int64) (bool, error) {
	key := s.client.generateKey("update", strconv.FormatInt(updateID, 10))
	return s.client.SetNX(ctx, key, "1", s.ttl)
}
