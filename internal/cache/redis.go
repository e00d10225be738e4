package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// redisStore is a Store backed by a shared redis instance, for CI
// fleets validating overlapping asset pools across many runners where a
// local goleveldb file would not be shared (§9 "remote cache backend").
type redisStore struct {
	client *redis.Client
}

func newRedisStore(addr string, db int) *redisStore {
	return &redisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Put(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
