// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so downloaded CMS media can be persisted in AWS S3
// or a self-hosted MinIO instance. The Client interface keeps the media downloader
// testable with the mocks in core/storage/mocks.
//
// # Operations
//
//   - EnsureBucket: Creates the media bucket on first use.
//   - PutObject: Uploads content (with size and options).
//   - ObjectExists: Checks for an object without downloading it.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
package storage
