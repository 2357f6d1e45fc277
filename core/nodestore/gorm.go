package nodestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nodeRecord is the row layout of the nodes table.
type nodeRecord struct {
	ID            string `gorm:"primaryKey;size:191"`
	Type          string `gorm:"size:191;index"`
	Owner         string `gorm:"size:191;index"`
	ContentDigest string `gorm:"size:64"`
	Fields        string `gorm:"type:longtext"`
	CreatedAt     time.Time
	TouchedAt     time.Time
}

func (nodeRecord) TableName() string { return "nodes" }

// cacheRecord is the row layout of the media cache table.
type cacheRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:longtext"`
	UpdatedAt time.Time
}

func (cacheRecord) TableName() string { return "cache_entries" }

// GormStore is a NodeStore persisted through GORM (MySQL or sqlite).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the nodes table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&nodeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate nodes table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateNode upserts the node row.
func (s *GormStore) CreateNode(ctx context.Context, node Node) error {
	fields, err := json.Marshal(node.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode node %s: %w", node.ID, err)
	}

	now := time.Now()
	rec := nodeRecord{
		ID:            node.ID,
		Type:          node.Internal.Type,
		Owner:         node.Internal.Owner,
		ContentDigest: node.Internal.ContentDigest,
		Fields:        string(fields),
		CreatedAt:     now,
		TouchedAt:     now,
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to create node %s: %w", node.ID, err)
	}
	return nil
}

// DeleteNode removes the node row. Unknown ids are not an error.
func (s *GormStore) DeleteNode(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&nodeRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete node %s: %w", id, err)
	}
	return nil
}

// deleteBatchSize bounds the number of ids per DELETE statement.
const deleteBatchSize = 500

// DeleteNodes removes the given nodes in batches.
func (s *GormStore) DeleteNodes(ctx context.Context, ids []string) error {
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(ids))
		if err := s.db.WithContext(ctx).Where("id IN ?", ids[start:end]).Delete(&nodeRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete %d nodes: %w", end-start, err)
		}
	}
	return nil
}

// TouchNode updates touched_at or returns ErrNotFound.
func (s *GormStore) TouchNode(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&nodeRecord{}).
		Where("id = ?", id).
		Update("touched_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to touch node %s: %w", id, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value did not change.
	var count int64
	if err := s.db.WithContext(ctx).Model(&nodeRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to touch node %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// GetNode loads one node or returns ErrNotFound.
func (s *GormStore) GetNode(ctx context.Context, id string) (*Node, error) {
	var rec nodeRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load node %s: %w", id, err)
	}
	return rec.toNode()
}

// GetNodesByOwner returns the nodes tagged with owner, ordered by id.
func (s *GormStore) GetNodesByOwner(ctx context.Context, owner string) ([]Node, error) {
	var recs []nodeRecord
	if err := s.db.WithContext(ctx).Where("owner = ?", owner).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list nodes for owner %s: %w", owner, err)
	}

	nodes := make([]Node, 0, len(recs))
	for _, rec := range recs {
		n, err := rec.toNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	return nodes, nil
}

func (r nodeRecord) toNode() (*Node, error) {
	fields, err := decodeMap([]byte(r.Fields))
	if err != nil {
		return nil, fmt.Errorf("failed to decode node %s: %w", r.ID, err)
	}
	return &Node{
		ID: r.ID,
		Internal: Internal{
			Type:          r.Type,
			Owner:         r.Owner,
			ContentDigest: r.ContentDigest,
		},
		Fields: fields,
	}, nil
}

// GormCache is a Cache persisted in the cache_entries table.
type GormCache struct {
	db *gorm.DB
}

// NewGormCache migrates the cache table and returns the cache.
func NewGormCache(db *gorm.DB) (*GormCache, error) {
	if err := db.AutoMigrate(&cacheRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache table: %w", err)
	}
	return &GormCache{db: db}, nil
}

// Get returns the entry for key, or nil when there is no row.
func (c *GormCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	var rec cacheRecord
	err := c.db.WithContext(ctx).Where(&cacheRecord{Key: key}).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return decodeCacheEntry([]byte(rec.Value))
}

// Set upserts the entry row.
func (c *GormCache) Set(ctx context.Context, key string, entry CacheEntry) error {
	value, err := encodeCacheEntry(entry)
	if err != nil {
		return err
	}
	rec := cacheRecord{Key: key, Value: string(value), UpdatedAt: time.Now()}
	err = c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}
