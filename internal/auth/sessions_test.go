package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	active, err := store.Active(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, store.Save(ctx, "sess-1", time.Hour))
	active, err = store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, "sess-1"))
	active, err = store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	current := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, "sess-1", time.Hour))

	active, err := store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, active)

	current = current.Add(2 * time.Hour)
	active, err = store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, active, "session past its TTL should be inactive")
}

func TestRedisSessionStoreLifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisSessionStore(client)

	require.NoError(t, store.Save(ctx, "sess-1", time.Hour))
	assert.True(t, mr.Exists("admin_session:sess-1"))

	active, err := store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, "sess-1"))
	active, err = store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisSessionStoreTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisSessionStore(client)

	require.NoError(t, store.Save(ctx, "sess-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	active, err := store.Active(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, active, "Redis should expire the session key")
}
