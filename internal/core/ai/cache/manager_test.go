package cache

import (
	"context"
	"testing"
	"time"

	"food-checker/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) *Manager {
	t.Helper()
	cfg := &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Minute,
		},
	}
	return NewManager(cfg)
}

func TestManagerSetGet(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "is apple food", "", "Yes\n95\n52\nObviously."))

	val, err := m.Get(ctx, "is apple food", "")
	require.NoError(t, err)
	assert.Equal(t, "Yes\n95\n52\nObviously.", val)
}

func TestManagerMiss(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)

	_, err := m.Get(context.Background(), "never cached", "")
	assert.Error(t, err)
}

func TestManagerImageDataChangesKey(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "identify", "imageA", "apple"))
	require.NoError(t, m.Set(ctx, "identify", "imageB", "banana"))

	val, err := m.Get(ctx, "identify", "imageA")
	require.NoError(t, err)
	assert.Equal(t, "apple", val)

	val, err = m.Get(ctx, "identify", "imageB")
	require.NoError(t, err)
	assert.Equal(t, "banana", val)
}

func TestManagerTTLExpiry(t *testing.T) {
	m := newTestManager(t, 10, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "ephemeral", "", "value"))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "ephemeral", "")
	assert.Error(t, err)
}

func TestManagerEvictsWhenFull(t *testing.T) {
	m := newTestManager(t, 2, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "first", "", "1"))
	require.NoError(t, m.Set(ctx, "second", "", "2"))

	// 提高 second 的訪問次數，first 成為 LRU 淘汰對象
	_, err := m.Get(ctx, "second", "")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "third", "", "3"))

	_, err = m.Get(ctx, "first", "")
	assert.Error(t, err)

	val, err := m.Get(ctx, "second", "")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}

func TestManagerStats(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "", "1"))
	_, _ = m.Get(ctx, "a", "")
	_, _ = m.Get(ctx, "missing", "")

	stats := m.GetStats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestNewStoreDisabled(t *testing.T) {
	store, err := NewStore(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore(&config.Config{
		Cache: config.CacheConfig{Enabled: true, Backend: "etcd"},
	})
	assert.Error(t, err)
}
