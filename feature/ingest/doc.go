// Package ingest orchestrates a sync run and exposes it over HTTP.
//
// A run authenticates against the CMS, fetches every configured collection and
// single type in parallel, cleans the records, resolves their media with one
// worker pool per type, builds one node per entity and reconciles the result
// against the nodes the previous run left behind.
//
// # Routes
//
//   - POST /sync: run a sync (?dry_run=true plans without applying)
//   - GET /nodes: list owned nodes (?type=article)
//   - GET /nodes/:id: get a node
//
// Only one run is active at a time; a concurrent request gets 409.
package ingest
