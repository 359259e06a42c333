package di

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/yigil-travel/yigil-counts/cache"
	"github.com/yigil-travel/yigil-counts/counter"
	"github.com/yigil-travel/yigil-counts/internal/config"
	"github.com/yigil-travel/yigil-counts/social"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

// Container wires the count cache, the authoritative store and the services
// built on them. It owns the database handle and the cache store and releases
// both on Close.
type Container struct {
	config        *config.Config
	logger        *zap.Logger
	db            *bun.DB
	cacheStore    cache.Store
	keySerializer cache.KeySerializer
	counters      *social.Counters
	registry      *counter.Registry

	follows  *social.Follows
	favors   *social.Favors
	comments *social.Comments
	spots    *social.Spots
}

// NewContainer opens the database and the cache store described by cfg and
// wires every component on top of them.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	cacheStore, err := cache.NewStore(cfg.CacheStoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	db, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		cache.Close(cacheStore)
		return nil, err
	}

	return NewContainerFrom(cfg, db, cacheStore, logger)
}

// NewContainerFrom wires the components on an already opened database and
// cache store. The container takes ownership of both.
func NewContainerFrom(cfg *config.Config, db *bun.DB, cacheStore cache.Store, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	keySerializer := cache.NewNamespacedKeySerializer(cfg.Cache.Namespace)

	opts := []counter.Option{
		counter.WithLogger(logger),
		counter.WithKeySerializer(keySerializer),
	}
	if cfg.Cache.Singleflight {
		opts = append(opts, counter.WithSingleflight())
	}

	repos := store.NewRepositories(db)
	counts := store.NewCounts(repos)

	counters := &social.Counters{
		Followers:  counter.New(counter.KindFollower, cacheStore, counts.Followers, opts...),
		Followings: counter.New(counter.KindFollowing, cacheStore, counts.Followings, opts...),
		Favors:     counter.New(counter.KindFavor, cacheStore, counts.Favors, opts...),
		Comments:   counter.New(counter.KindComment, cacheStore, counts.Comments, opts...),
		Replies:    counter.New(counter.KindReply, cacheStore, counts.Replies, opts...),
		Spots:      counter.New(counter.KindSpot, cacheStore, counts.Spots, opts...),
	}

	registry := counter.NewRegistry()
	bound := []counter.Counter{
		counter.Bind(counters.Followers, store.MemberRef),
		counter.Bind(counters.Followings, store.MemberRef),
		counter.Bind(counters.Favors, store.SpotRef),
		counter.Bind(counters.Comments, store.SpotRef),
		counter.Bind(counters.Replies, store.CommentRef),
		counter.Bind(counters.Spots, store.PlaceRef),
	}
	for _, c := range bound {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Container{
		config:        cfg,
		logger:        logger,
		db:            db,
		cacheStore:    cacheStore,
		keySerializer: keySerializer,
		counters:      counters,
		registry:      registry,
		follows:       social.NewFollows(repos, counters, logger),
		favors:        social.NewFavors(repos, counters, logger),
		comments:      social.NewComments(repos, counters, logger),
		spots:         social.NewSpots(repos, counters, logger),
	}, nil
}

// CacheStore returns the count cache shared by every coordinator.
func (c *Container) CacheStore() cache.Store {
	return c.cacheStore
}

// KeySerializer returns the namespaced key serializer used by the coordinators.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// DB returns the authoritative database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Counters returns the typed coordinators.
func (c *Container) Counters() *social.Counters {
	return c.counters
}

// Registry returns the coordinators indexed by kind.
func (c *Container) Registry() *counter.Registry {
	return c.registry
}

// Follows returns the follow service.
func (c *Container) Follows() *social.Follows { return c.follows }

// Favors returns the favor service.
func (c *Container) Favors() *social.Favors { return c.favors }

// Comments returns the comment and reply service.
func (c *Container) Comments() *social.Comments { return c.comments }

// Spots returns the spot service.
func (c *Container) Spots() *social.Spots { return c.spots }

// Close releases the database and the cache store.
func (c *Container) Close() error {
	cache.Close(c.cacheStore)
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
