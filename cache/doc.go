// Package cache provides the count store interface and key serialization used
// by the counter coordinators.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - Store: a get/set/delete cache of int64 counts keyed by string
//   - KeySerializer: builds stable keys from a counter kind and a subject id
//
// Two backends are available through NewStore:
//
//   - BackendMemory: an in-process sturdyc cache, suitable for a single node
//     and for tests
//   - BackendRedis: a rueidis client, shared by every API node
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer cache.Close(store)
//
//	keys := cache.NewDefaultKeySerializer()
//	key := keys.SerializeKey("favor_count", 42) // "favor_count:42"
//
// # Key Layout
//
// Keys are "[namespace:]kind:id". Kinds are normalized to snake_case so that
// "FavorCount" and "favor_count" address the same entries, and KindPrefix
// returns the prefix used to drop every count of one kind.
//
// # Expiry
//
// Both backends apply the configured TTL to every write. Counts are display
// data, so the TTL is the upper bound on staleness when a write path fails
// to invalidate a count.
package cache
