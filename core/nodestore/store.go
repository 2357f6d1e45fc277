package nodestore

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"
)

// NodeStore is the host graph the sync run materializes nodes into.
type NodeStore interface {
	// CreateNode stores the node, replacing any node with the same id.
	CreateNode(ctx context.Context, node Node) error
	// DeleteNode removes a node. Deleting an unknown id is not an error.
	DeleteNode(ctx context.Context, id string) error
	// TouchNode marks an existing node as still referenced.
	TouchNode(ctx context.Context, id string) error
	// GetNode returns the node or ErrNotFound.
	GetNode(ctx context.Context, id string) (*Node, error)
	// GetNodesByOwner returns every node carrying the owner tag.
	GetNodesByOwner(ctx context.Context, owner string) ([]Node, error)
}

// Cache persists media cache entries across runs.
type Cache interface {
	// Get returns the entry for key, or nil when there is none.
	Get(ctx context.Context, key string) (*CacheEntry, error)
	// Set stores entry under key.
	Set(ctx context.Context, key string, entry CacheEntry) error
}

const (
	CacheDriverDatabase = "database"
	CacheDriverRedis    = "redis"
	CacheDriverMemory   = "memory"
)

// NewCache builds the cache selected by cfg.CacheDriver.
// db is only required for the database driver.
func NewCache(cfg Config, db *gorm.DB) (Cache, error) {
	switch cfg.CacheDriver {
	case CacheDriverDatabase, "":
		if db == nil {
			return nil, fmt.Errorf("cache driver %q requires a database connection", CacheDriverDatabase)
		}
		return NewGormCache(db)
	case CacheDriverRedis:
		return NewRedisCache(cfg), nil
	case CacheDriverMemory:
		return NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.CacheDriver)
	}
}

// CloseCache releases the resources held by c, if it holds any.
func CloseCache(c Cache) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
