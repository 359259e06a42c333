package cacheinfra

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	store := NewRedisStoreFromClient(client, ttl)
	t.Cleanup(store.Close)

	return store, mr
}

func TestRedisConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultRedisConfig().Validate())

	cfg := DefaultRedisConfig()
	cfg.Addresses = nil
	var cfgErr *ConfigError
	require.True(t, errors.As(cfg.Validate(), &cfgErr))
	assert.Equal(t, "Addresses", cfgErr.Field)

	cfg = DefaultRedisConfig()
	cfg.DB = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultRedisConfig()
	cfg.TTL = 0
	assert.NoError(t, cfg.Validate(), "zero TTL disables expiry")
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t, time.Minute)
	ctx := t.Context()

	_, ok, err := store.Get(ctx, "favor_count:42")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "favor_count:42", 3))

	raw, err := mr.Get("favor_count:42")
	require.NoError(t, err)
	assert.Equal(t, "3", raw)

	value, ok, err := store.Get(ctx, "favor_count:42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), value)

	require.NoError(t, store.Delete(ctx, "favor_count:42"))
	assert.False(t, mr.Exists("favor_count:42"))
}

func TestRedisStore_AppliesTTL(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t, time.Minute)
	ctx := t.Context()

	require.NoError(t, store.Set(ctx, "comment_count:1", 5))
	assert.Equal(t, time.Minute, mr.TTL("comment_count:1"))

	mr.FastForward(time.Minute + time.Second)

	_, ok, err := store.Get(ctx, "comment_count:1")
	require.NoError(t, err)
	assert.False(t, ok, "expired count should read as a miss")
}

func TestRedisStore_NoTTL(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t, 0)
	ctx := t.Context()

	require.NoError(t, store.Set(ctx, "comment_count:1", 5))
	assert.Equal(t, time.Duration(0), mr.TTL("comment_count:1"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t, time.Minute)
	ctx := t.Context()

	require.NoError(t, mr.Set("favor_count:9", "not-a-number"))

	_, ok, err := store.Get(ctx, "favor_count:9")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ServerError(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t, time.Minute)
	ctx := t.Context()

	mr.SetError("LOADING Redis is loading the dataset in memory")

	_, ok, err := store.Get(ctx, "favor_count:1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, store.Set(ctx, "favor_count:1", 1))

	mr.SetError("")
	require.NoError(t, store.Set(ctx, "favor_count:1", 1))
}

func TestRedisStore_DeleteByPrefix(t *testing.T) {
	t.Parallel()
	store, mr := setupRedisStore(t, time.Minute)
	ctx := t.Context()

	for i := 1; i <= 250; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("spot_count:%d", i), int64(i)))
	}
	require.NoError(t, store.Set(ctx, "favor_count:1", 1))

	require.NoError(t, store.DeleteByPrefix(ctx, "spot_count:"))

	keys := mr.Keys()
	assert.Equal(t, []string{"favor_count:1"}, keys)
}

func TestRedisStore_DeleteByPrefixQuotesPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		keys   []string
		want   []string
	}{
		{
			name:   "star in namespace",
			prefix: "a*:spot_count:",
			keys:   []string{"a*:spot_count:1", "ab:spot_count:1", "a:spot_count:1"},
			want:   []string{"a:spot_count:1", "ab:spot_count:1"},
		},
		{
			name:   "question mark in namespace",
			prefix: "a?:favor_count:",
			keys:   []string{"a?:favor_count:1", "ax:favor_count:1"},
			want:   []string{"ax:favor_count:1"},
		},
		{
			name:   "brackets in namespace",
			prefix: "[ab]:comment_count:",
			keys:   []string{"[ab]:comment_count:7", "a:comment_count:7", "b:comment_count:7"},
			want:   []string{"a:comment_count:7", "b:comment_count:7"},
		},
		{
			name:   "backslash in namespace",
			prefix: `a\:spot_count:`,
			keys:   []string{`a\:spot_count:3`, "a:spot_count:3"},
			want:   []string{"a:spot_count:3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, mr := setupRedisStore(t, time.Minute)
			ctx := t.Context()

			for _, key := range tt.keys {
				require.NoError(t, store.Set(ctx, key, 1))
			}

			require.NoError(t, store.DeleteByPrefix(ctx, tt.prefix))
			assert.Equal(t, tt.want, mr.Keys())
		})
	}
}
