package integrity

import (
	"context"
	"fmt"

	"cms-sync/core/nodestore"
	"cms-sync/core/storage"
	"cms-sync/core/utils"
	"cms-sync/feature/media"

	"go.uber.org/zap"
)

// MediaReport lists File nodes whose stored object is unusable.
type MediaReport struct {
	// Checked is the number of File nodes inspected.
	Checked int `json:"checked"`
	// Missing lists File nodes whose object is absent from storage.
	Missing []string `json:"missing"`
	// Unlinked lists File nodes without an object key.
	Unlinked []string `json:"unlinked"`
	// Removed lists File nodes deleted by a fix.
	Removed []string `json:"removed,omitempty"`
}

// Broken returns every node id reported as missing or unlinked.
func (r *MediaReport) Broken() []string {
	out := make([]string, 0, len(r.Missing)+len(r.Unlinked))
	out = append(out, r.Missing...)
	return append(out, r.Unlinked...)
}

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	nodes  nodestore.NodeStore
	owner  string
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, nodes nodestore.NodeStore, owner string, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		nodes:  nodes,
		owner:  owner,
		logger: logger,
	}
}

// CheckBucket reports whether the media bucket exists.
func (s *Service) CheckBucket(ctx context.Context) (bool, error) {
	return s.client.BucketExists(ctx, s.bucket)
}

// CheckMedia verifies that every owned File node points at an existing object.
func (s *Service) CheckMedia(ctx context.Context) (*MediaReport, error) {
	nodes, err := s.nodes.GetNodesByOwner(ctx, s.owner)
	if err != nil {
		return nil, err
	}

	report := &MediaReport{Missing: []string{}, Unlinked: []string{}}
	for _, n := range nodes {
		if n.Internal.Type != media.FileNodeType {
			continue
		}
		report.Checked++

		objectKey := utils.ToString(n.Fields["objectKey"])
		if objectKey == "" {
			report.Unlinked = append(report.Unlinked, n.ID)
			continue
		}

		bucket := utils.ToString(n.Fields["bucket"])
		if bucket == "" {
			bucket = s.bucket
		}

		exists, err := storage.ObjectExists(ctx, s.client, bucket, objectKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check object %s: %w", objectKey, err)
		}
		if !exists {
			report.Missing = append(report.Missing, n.ID)
		}
	}

	return report, nil
}

// FixMedia deletes the broken File nodes of report. The next sync finds their
// cache entries stale and downloads the files again.
func (s *Service) FixMedia(ctx context.Context, report *MediaReport) error {
	for _, id := range report.Broken() {
		if err := s.nodes.DeleteNode(ctx, id); err != nil {
			return err
		}
		s.logger.Info("Removed broken file node", zap.String("id", id))
		report.Removed = append(report.Removed, id)
	}
	return nil
}
