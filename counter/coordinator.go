package counter

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/yigil-travel/yigil-counts/cache"
	"github.com/yigil-travel/yigil-counts/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Counter kinds served by the API.
const (
	KindFollower  = "follower_count"
	KindFollowing = "following_count"
	KindFavor     = "favor_count"
	KindComment   = "comment_count"
	KindReply     = "reply_count"
	KindSpot      = "spot_count"
)

// Kinds lists every counter kind in display order.
func Kinds() []string {
	return []string{KindFollower, KindFollowing, KindFavor, KindComment, KindReply, KindSpot}
}

var (
	// ErrNegativeCount is returned when a resolver reports a count below zero.
	ErrNegativeCount = errors.New("counter: negative count")
	// ErrUnknownKind is returned by Registry lookups for unregistered kinds.
	ErrUnknownKind = errors.New("counter: unknown kind")
)

// Subject is an entity whose relations are counted.
type Subject interface {
	SubjectID() int64
}

// CountRecord is the materialized count of one subject.
type CountRecord struct {
	SubjectID int64 `json:"subjectId"`
	Count     int64 `json:"count"`
}

// Resolver computes the authoritative count of subject. It must only read.
type Resolver[S Subject] func(ctx context.Context, subject S) (int64, error)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	logger       *zap.Logger
	keys         cache.KeySerializer
	singleflight bool
}

// WithLogger sets the logger used for cache degradation warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKeySerializer replaces the default "<kind>:<id>" key layout.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(o *options) {
		if keys != nil {
			o.keys = keys
		}
	}
}

// WithSingleflight collapses concurrent misses for the same key into one
// resolver call. Followers share the leader's result, including its error.
func WithSingleflight() Option {
	return func(o *options) {
		o.singleflight = true
	}
}

// Coordinator serves the counts of one kind with cache-aside semantics.
type Coordinator[S Subject] struct {
	kind    string
	store   cache.Store
	resolve Resolver[S]
	keys    cache.KeySerializer
	logger  *zap.Logger

	// flight is nil unless WithSingleflight is set. InvalidateAll swaps in a
	// fresh group so misses after it never join an older call.
	flight atomic.Pointer[singleflight.Group]
	// epoch advances on every invalidation; refresh skips the write-back
	// when it moved while the resolver ran.
	epoch atomic.Uint64
}

// New creates a Coordinator for kind backed by store and resolve.
func New[S Subject](kind string, store cache.Store, resolve Resolver[S], opts ...Option) *Coordinator[S] {
	o := options{
		logger: zap.NewNop(),
		keys:   cache.NewDefaultKeySerializer(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	kind = cache.NormalizeKind(kind)
	c := &Coordinator[S]{
		kind:    kind,
		store:   store,
		resolve: resolve,
		keys:    o.keys,
		logger:  o.logger.Named("counter").With(zap.String("kind", kind)),
	}
	if o.singleflight {
		c.flight.Store(&singleflight.Group{})
	}
	return c
}

// Kind returns the normalized kind served by c.
func (c *Coordinator[S]) Kind() string {
	return c.kind
}

// Key returns the cache key holding the count of subject.
func (c *Coordinator[S]) Key(subject S) string {
	return c.keys.SerializeKey(c.kind, subject.SubjectID())
}

// EnsureCount returns the count of subject, from the cache when present and
// from the resolver otherwise. The result is the authoritative count as of
// some past or present instant; there is no bound on staleness beyond the
// cache TTL.
func (c *Coordinator[S]) EnsureCount(ctx context.Context, subject S) (CountRecord, error) {
	id := subject.SubjectID()
	key := c.keys.SerializeKey(c.kind, id)

	if !refreshRequested(ctx) {
		count, ok, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			metrics.RecordFallback(c.kind, metrics.OpRead)
			c.logger.Warn("Count cache read failed, using database",
				zap.String("key", key),
				zap.Error(err))
		case ok:
			metrics.RecordHit(c.kind)
			c.logger.Debug("Count cache hit", zap.String("key", key), zap.Int64("count", count))
			return CountRecord{SubjectID: id, Count: count}, nil
		}
	}

	metrics.RecordMiss(c.kind)

	count, err := c.populate(ctx, subject, key)
	if err != nil {
		return CountRecord{}, err
	}
	return CountRecord{SubjectID: id, Count: count}, nil
}

// Invalidate removes the cached count of subject. Callers must invoke it
// after every write that changes the counted relation. A miss already in
// flight for subject is detached, so the next EnsureCount resolves anew.
func (c *Coordinator[S]) Invalidate(ctx context.Context, subject S) error {
	key := c.keys.SerializeKey(c.kind, subject.SubjectID())

	c.epoch.Add(1)
	if flight := c.flight.Load(); flight != nil {
		flight.Forget(key)
	}

	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}

	metrics.RecordInvalidation(c.kind)
	c.logger.Debug("Count invalidated", zap.String("key", key))
	return nil
}

// InvalidateAll removes every cached count of c's kind.
func (c *Coordinator[S]) InvalidateAll(ctx context.Context) error {
	prefix := c.keys.KindPrefix(c.kind)

	c.epoch.Add(1)
	if c.flight.Load() != nil {
		c.flight.Store(&singleflight.Group{})
	}

	if err := c.store.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("invalidate %s*: %w", prefix, err)
	}

	metrics.RecordInvalidation(c.kind)
	return nil
}

// populate resolves a miss. With singleflight each caller still waits on its
// own ctx, and a follower whose leader was cancelled resolves by itself.
func (c *Coordinator[S]) populate(ctx context.Context, subject S, key string) (int64, error) {
	flight := c.flight.Load()
	if flight == nil {
		return c.refresh(ctx, subject, key)
	}

	ch := flight.DoChan(key, func() (any, error) {
		return c.refresh(ctx, subject, key)
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if res.Shared && ctx.Err() == nil && isContextError(res.Err) {
				return c.refresh(ctx, subject, key)
			}
			return 0, res.Err
		}
		if res.Shared {
			c.logger.Debug("Count miss shared", zap.String("key", key))
		}
		return res.Val.(int64), nil
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// refresh reads the authoritative count and writes it back. Resolver errors
// are returned as is.
func (c *Coordinator[S]) refresh(ctx context.Context, subject S, key string) (int64, error) {
	epoch := c.epoch.Load()

	count, err := c.resolve(ctx, subject)
	if err != nil {
		metrics.RecordResolveError(c.kind)
		return 0, err
	}
	if count < 0 {
		metrics.RecordResolveError(c.kind)
		return 0, fmt.Errorf("%w: %s is %d for subject %d", ErrNegativeCount, c.kind, count, subject.SubjectID())
	}

	if c.epoch.Load() != epoch {
		c.logger.Debug("Count invalidated while resolving, skipping write-back",
			zap.String("key", key),
			zap.Int64("count", count))
		return count, nil
	}

	if err := c.store.Set(ctx, key, count); err != nil {
		metrics.RecordFallback(c.kind, metrics.OpWrite)
		c.logger.Warn("Count cache write failed",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Error(err))
	}

	return count, nil
}
