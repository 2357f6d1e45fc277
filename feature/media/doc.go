// Package media resolves the uploaded files embedded in CMS entities.
//
// Any object with a "mime" key is treated as a file descriptor. For each one the
// Resolver consults the media cache, keyed by "strapi-media-<id>-<field>", and
// reuses the cached File node when the descriptor timestamp is unchanged; otherwise
// it downloads the file through a Downloader and records the new node in the cache.
//
// Resolved files are linked with back-references: "localFile___NODE" for the
// default slot and for array elements, "<field>___NODE" on the parent for named
// fields. Failed downloads are reported and leave the field unlinked.
//
// # Concurrency
//
// ResolveAll runs a fixed pool of workers over one content type; callers run one
// pool per content type in parallel.
package media
