package counter

import (
	"context"
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/yigil-travel/yigil-counts/cache"
)

// Counter is a Coordinator addressed by subject id instead of a typed subject.
type Counter interface {
	Kind() string
	EnsureCountByID(ctx context.Context, id int64) (CountRecord, error)
	InvalidateByID(ctx context.Context, id int64) error
	InvalidateAll(ctx context.Context) error
}

type boundCounter[S Subject] struct {
	*Coordinator[S]
	ref func(id int64) S
}

// Bind exposes c as a Counter, using ref to build a subject from an id.
// The subject is assumed to exist; nothing is looked up.
func Bind[S Subject](c *Coordinator[S], ref func(id int64) S) Counter {
	return &boundCounter[S]{Coordinator: c, ref: ref}
}

// EnsureCountByID serves the count of the subject with id.
func (b *boundCounter[S]) EnsureCountByID(ctx context.Context, id int64) (CountRecord, error) {
	return b.EnsureCount(ctx, b.ref(id))
}

// InvalidateByID drops the cached count of the subject with id.
func (b *boundCounter[S]) InvalidateByID(ctx context.Context, id int64) error {
	return b.Invalidate(ctx, b.ref(id))
}

// Registry indexes counters by kind. It is safe for concurrent use.
type Registry struct {
	counters *xsync.MapOf[string, Counter]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{counters: xsync.NewMapOf[string, Counter]()}
}

// Register adds c under its kind. Registering a kind twice is an error.
func (r *Registry) Register(c Counter) error {
	if _, loaded := r.counters.LoadOrStore(c.Kind(), c); loaded {
		return fmt.Errorf("counter: kind %s already registered", c.Kind())
	}
	return nil
}

// Lookup returns the counter registered for kind.
func (r *Registry) Lookup(kind string) (Counter, error) {
	c, ok := r.counters.Load(cache.NormalizeKind(kind))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return c, nil
}

// Kinds returns the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, r.counters.Size())
	r.counters.Range(func(kind string, _ Counter) bool {
		kinds = append(kinds, kind)
		return true
	})
	sort.Strings(kinds)
	return kinds
}
