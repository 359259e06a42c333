package di

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigil-travel/yigil-counts/cache"
	"github.com/yigil-travel/yigil-counts/counter"
	"github.com/yigil-travel/yigil-counts/internal/cacheinfra"
	"github.com/yigil-travel/yigil-counts/internal/config"
	"github.com/yigil-travel/yigil-counts/pkg/testsupport"
)

func sqliteConfig() *config.Config {
	cfg := config.Default()
	storeCfg := testsupport.SQLiteConfig()
	cfg.Database.Driver = storeCfg.Driver
	cfg.Database.DSN = storeCfg.DSN
	return cfg
}

func newSeededContainer(t *testing.T, cacheStore cache.Store) *Container {
	t.Helper()

	db := testsupport.NewSQLiteDB(t)
	testsupport.SeedFixture(t, db, testsupport.FixturePath("social.json"))

	container, err := NewContainerFrom(sqliteConfig(), db, cacheStore, nil)
	require.NoError(t, err)
	return container
}

func TestNewContainer(t *testing.T) {
	ctx := context.Background()
	container, err := NewContainer(ctx, sqliteConfig(), nil)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.CacheStore())
	assert.NotNil(t, container.DB())
	assert.Equal(t, "yigil:favor_count:1", container.KeySerializer().SerializeKey(counter.KindFavor, 1))
	assert.Equal(t, []string{
		counter.KindComment,
		counter.KindFavor,
		counter.KindFollower,
		counter.KindFollowing,
		counter.KindReply,
		counter.KindSpot,
	}, container.Registry().Kinds())
	assert.ElementsMatch(t, counter.Kinds(), container.Registry().Kinds())
}

func TestNewContainer_InvalidCacheConfig(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Cache.Memory.Capacity = 0

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewContainer_UnreachableDatabase(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Database.Driver = "oracle"

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestContainer_RegistryServesCounts(t *testing.T) {
	ctx := context.Background()
	fake := testsupport.NewFakeStore()
	container := newSeededContainer(t, fake)

	tests := []struct {
		kind string
		id   int64
		want int64
	}{
		{counter.KindFollower, 1, 2},
		{counter.KindFollowing, 1, 1},
		{counter.KindFavor, 42, 2},
		{counter.KindComment, 42, 3},
		{counter.KindReply, 1, 1},
		{counter.KindSpot, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			c, err := container.Registry().Lookup(tt.kind)
			require.NoError(t, err)

			record, err := c.EnsureCountByID(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, record.Count)

			cached, ok := fake.Peek(container.KeySerializer().SerializeKey(tt.kind, tt.id))
			require.True(t, ok)
			assert.Equal(t, tt.want, cached)
		})
	}
}

func TestContainer_CommentFlowOverRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	redisStore := cacheinfra.NewRedisStoreFromClient(client, config.Default().Cache.TTL)
	container := newSeededContainer(t, redisStore)
	defer container.Close()

	comments, err := container.Registry().Lookup(counter.KindComment)
	require.NoError(t, err)

	record, err := comments.EnsureCountByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.Count)

	raw, err := mr.Get("yigil:comment_count:42")
	require.NoError(t, err)
	assert.Equal(t, "3", raw)

	_, err = container.Comments().Add(ctx, 2, 42, "Fourth")
	require.NoError(t, err)
	assert.False(t, mr.Exists("yigil:comment_count:42"))

	record, err = comments.EnsureCountByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(4), record.Count)
}

func TestContainer_ServicesShareCounters(t *testing.T) {
	ctx := context.Background()
	container := newSeededContainer(t, testsupport.NewFakeStore())

	require.NoError(t, container.Favors().Favor(ctx, 1, 43))
	require.NoError(t, container.Follows().Follow(ctx, 3, 2))

	summaries, err := container.Spots().Summaries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(1), summaries[1].FavorCount)

	counts, err := container.Follows().Counts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Followers)
}
