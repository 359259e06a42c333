// Package social implements the writes that change counted relations:
// follows, favors, comments and spots.
//
// Every mutation commits to the database first and then invalidates the
// cached counts it affected. Invalidation failures are logged and not
// returned, since the write itself succeeded and the cache TTL bounds how
// long the stale count can be served.
package social
