package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	addr := mr.Addr()

	client, err := Connect(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	mr.Close()
	_, err = Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err, "connect should fail once the server is gone")
}

func TestOTPCache_PutOverwrites(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewOTPCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "alice", "111111", 300*time.Second))
	require.NoError(t, cache.Put(ctx, "alice", "222222", 300*time.Second))

	got, err := mr.Get("otp:alice")
	require.NoError(t, err)
	assert.Equal(t, "222222", got, "new code should replace the previous one")
	assert.Equal(t, 300*time.Second, mr.TTL("otp:alice"))
	assert.Len(t, mr.Keys(), 1, "exactly one live entry per subject")
}

func TestOTPCache_VerifyAndConsume(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewOTPCache(client)
	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "alice", "123456", time.Minute))

	t.Run("mismatch leaves entry", func(t *testing.T) {
		ok, err := cache.VerifyAndConsume(ctx, "alice", "000000")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, mr.Exists("otp:alice"))
	})

	t.Run("empty candidate", func(t *testing.T) {
		ok, err := cache.VerifyAndConsume(ctx, "alice", "")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, mr.Exists("otp:alice"))
	})

	t.Run("match consumes", func(t *testing.T) {
		ok, err := cache.VerifyAndConsume(ctx, "alice", "123456")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, mr.Exists("otp:alice"))
	})

	t.Run("replay fails", func(t *testing.T) {
		ok, err := cache.VerifyAndConsume(ctx, "alice", "123456")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOTPCache_Expired(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewOTPCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "alice", "123456", 300*time.Second))
	mr.FastForward(301 * time.Second)

	ok, err := cache.VerifyAndConsume(ctx, "alice", "123456")
	require.NoError(t, err)
	assert.False(t, ok, "expired code must not verify")
}

func TestOTPCache_ConcurrentConsume(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewOTPCache(client)
	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "alice", "654321", time.Minute))

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := cache.VerifyAndConsume(ctx, "alice", "654321")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success, "exactly one concurrent verification may succeed")
}

func TestOTPCache_StoreUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewOTPCache(client)
	mr.SetError("ERR server down")

	err := cache.Put(context.Background(), "alice", "123456", time.Minute)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable), "got %v", err)

	_, err = cache.VerifyAndConsume(context.Background(), "alice", "123456")
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable), "got %v", err)
}

func TestSessionStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", "user-1", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("session:jti-1"))

	userID, err := store.Lookup(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.Delete(ctx, "jti-1"))
	_, err = store.Lookup(ctx, "jti-1")
	assert.Equal(t, domain.ErrUnauthorized, err)
}

func TestResponseCache(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewResponseCache(client, "")
	ctx := context.Background()

	type entry struct {
		Name string `json:"name"`
	}

	var got entry
	found, err := cache.Get(ctx, "pokemon:pikachu", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "pokemon:pikachu", entry{Name: "pikachu"}, 6000*time.Second))
	assert.True(t, mr.Exists("pokeapi-cache:pokemon:pikachu"))

	found, err = cache.Get(ctx, "pokemon:pikachu", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pikachu", got.Name)

	mr.FastForward(6001 * time.Second)
	found, err = cache.Get(ctx, "pokemon:pikachu", &got)
	require.NoError(t, err)
	assert.False(t, found, "entry should expire")
}
