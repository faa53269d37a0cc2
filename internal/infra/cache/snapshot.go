package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-site/internal/domain/works"

	"github.com/go-redis/redis/v8"
)

// SnapshotStore keeps the works snapshot in redis. It is used instead of the
// database table when REDIS_ADDR is set.
type SnapshotStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ works.SnapshotStore = (*SnapshotStore)(nil)

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewSnapshotStore wraps client. A zero ttl keeps the snapshot until the
// next save.
func NewSnapshotStore(client *redis.Client, prefix string, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *SnapshotStore) key() string {
	return s.prefix + works.SnapshotKey
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, all []works.Work) error {
	if all == nil {
		all = []works.Work{}
	}
	payload, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key(), payload, s.ttl).Err()
}

func (s *SnapshotStore) LoadSnapshot(ctx context.Context) ([]works.Work, bool, error) {
	raw, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var all []works.Work
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return all, true, nil
}
