// Package integrity checks that synced media is still backed by object storage.
//
// # Checks Provided
//
//   - Bucket: Checks that the media bucket exists.
//   - Media: Verifies that every File node owned by the sync points at an object
//     present in storage.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/bucket : Runs the bucket check.
//   - GET /integrity/media : Runs the media check (supports ?fix=true, which
//     removes broken File nodes so the next sync downloads them again).
package integrity
