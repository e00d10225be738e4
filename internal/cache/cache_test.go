package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoBackendIsNoop(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)

	_, found, err := s.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.False(t, found, "expected noop store to always miss")

	assert.NoError(t, s.Put(context.Background(), "key", "value"))
}

func TestLocalStorePutGetRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s, err := New(Config{Backend: BackendLocal, LocalDir: dir})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, found, err := s.Get(ctx, "uuid-1")
	require.NoError(t, err)
	assert.False(t, found, "expected miss on empty store")

	require.NoError(t, s.Put(ctx, "uuid-1", "deadbeef"))

	value, found, err := s.Get(ctx, "uuid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "deadbeef", value)
}

func TestLocalStoreRejectsEmptyDir(t *testing.T) {
	_, err := New(Config{Backend: BackendLocal})
	assert.Error(t, err)
}
