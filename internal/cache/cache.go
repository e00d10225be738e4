// Package cache implements the hash-memoization cache backing §4.5's
// "hashes are memoized ... across runs" requirement: a local
// goleveldb-backed store guarded by an fslock against concurrent CLI
// invocations, or a shared redis store for CI fleets that run many
// validations against overlapping asset pools.
package cache

import "context"

// Store persists PKL asset hash records keyed by asset UUID across
// validation runs.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

// Backend selects which Store implementation New constructs.
type Backend string

const (
	BackendNone  Backend = ""
	BackendLocal Backend = "local"
	BackendRedis Backend = "redis"
)

// Config configures cache construction (§9 "cache backend selection").
type Config struct {
	Backend Backend

	// LocalDir is the goleveldb database directory for BackendLocal.
	LocalDir string

	// RedisAddr, RedisDB configure BackendRedis.
	RedisAddr string
	RedisDB   int
}

// New constructs the configured Store, or a no-op store if Backend is
// unset (hash memoization is then effectively disabled).
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendLocal:
		return newLocalStore(cfg.LocalDir)
	case BackendRedis:
		return newRedisStore(cfg.RedisAddr, cfg.RedisDB), nil
	default:
		return noopStore{}, nil
	}
}

type noopStore struct{}

func (noopStore) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (noopStore) Put(ctx context.Context, key, value string) error         { return nil }
func (noopStore) Close() error                                             { return nil }
