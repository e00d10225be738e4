package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/juju/fslock"
	"github.com/syndtr/goleveldb/leveldb"
)

// localStore is a goleveldb-backed Store, snappy-compressing values
// before they hit disk (§9 "local cache backend"). fslock guards the
// database directory against two CLI invocations opening it at once —
// goleveldb itself refuses a second open, but fslock turns that race
// into a bounded wait instead of a hard failure.
type localStore struct {
	mu   sync.Mutex
	db   *leveldb.DB
	lock *fslock.Lock
}

const lockWait = 5 * time.Second

func newLocalStore(dir string) (*localStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: local backend requires a directory")
	}

	lock := fslock.New(filepath.Join(dir, ".lock"))
	if err := lock.LockWithTimeout(lockWait); err != nil {
		return nil, fmt.Errorf("cache: acquiring lock on %s: %w", dir, err)
	}

	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("cache: opening leveldb at %s: %w", dir, err)
	}

	return &localStore{db: db, lock: lock}, nil
}

func (s *localStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	compressed, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	value, err := snappy.Decode(nil, compressed)
	if err != nil {
		return "", false, fmt.Errorf("cache: decompressing %s: %w", key, err)
	}
	return string(value), true, nil
}

func (s *localStore) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	compressed := snappy.Encode(nil, []byte(value))
	return s.db.Put([]byte(key), compressed, nil)
}

func (s *localStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbErr := s.db.Close()
	lockErr := s.lock.Unlock()
	if dbErr != nil {
		return dbErr
	}
	return lockErr
}
