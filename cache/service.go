package cache

import "context"

// KeySerializer builds the cache key of a counter from its kind and subject id.
// Keys must be stable across processes because the Redis backend is shared
// between every API instance.
type KeySerializer interface {
	SerializeKey(kind string, id int64) string
	KindPrefix(kind string) string
}

// Store is the count cache consulted by the counter coordinators.
//
// Get reports a miss with ok == false and a nil error. Set must be a single
// atomic write of the whole value; implementations never read-modify-write.
type Store interface {
	Get(ctx context.Context, key string) (value int64, ok bool, err error)
	Set(ctx context.Context, key string, value int64) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Closer is implemented by stores that hold network connections.
type Closer interface {
	Close()
}

// Close releases the store's resources when it holds any.
func Close(store Store) {
	if c, ok := store.(Closer); ok {
		c.Close()
	}
}
