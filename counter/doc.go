// Package counter materializes social counts (followers, favorites, comments,
// replies, spots per place) in a cache, refreshing them from the database on a miss.
//
// # Overview
//
// A Coordinator pairs one counter kind with a Resolver that computes the
// authoritative count for a subject. The same generic type serves every kind:
//
//	favors := counter.New[*store.Spot](counter.KindFavor, cacheStore, counts.Favors)
//	record, err := favors.EnsureCount(ctx, spot)
//
// # Read Path
//
//  1. Build the key "<kind>:<subject id>"
//  2. On a cache hit, return the cached count without touching the database
//  3. On a miss, call the resolver, write the result with a single SET and
//     return it
//
// A cache that cannot be read is treated as a miss, and a failed cache write
// is ignored: the request is answered from the database either way. Resolver
// errors are returned unchanged and nothing is cached.
//
// # Invalidation
//
// The coordinator never observes writes. Whoever inserts or deletes a follow,
// favor, comment or spot must call Invalidate for each affected subject before
// the next read; the social package does this for every mutation it performs.
// The cache TTL bounds staleness when an invalidation is lost.
//
// A miss whose database read overlaps an Invalidate on the same coordinator
// does not write its count back. Writers in other processes are not seen, so
// their commit can still be overwritten by an older count; the entry then
// stays stale until the next invalidation or expiry. Counts are display data,
// so this is accepted.
//
// # Concurrency
//
// Coordinators hold no locks. Concurrent misses for the same subject issue
// redundant queries and identical writes unless WithSingleflight is set, in
// which case misses inside one process share a single database query. An
// invalidation detaches the query in flight, so later misses start their own.
//
// # Registry
//
// Registry indexes coordinators by kind behind the untyped Counter interface,
// for tools that only know a kind name and an id, such as the CLI.
package counter
