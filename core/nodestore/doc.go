// Package nodestore holds the node store and the media cache.
//
// Nodes are the materialized output of a sync run: one per CMS entity plus one per
// downloaded media file. Every node carries an owner tag so that a later run can
// find exactly the nodes it is responsible for.
//
// # Backends
//
//   - GormStore / GormCache: MySQL or sqlite through GORM (tables nodes, cache_entries).
//   - RedisCache: media cache shared through redis.
//   - MemoryStore / MemoryCache: in-process, used by tests and dry runs.
//
// # Cache Entries
//
// A CacheEntry maps "strapi-media-<mediaId>-<fieldKey>" to the File node created for
// that media and the media timestamp at download time. Entries are never deleted;
// a timestamp mismatch makes them stale.
package nodestore
