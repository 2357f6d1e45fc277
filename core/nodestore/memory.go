package nodestore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process NodeStore.
type MemoryStore struct {
	mu      sync.RWMutex
	nodes   map[string]Node
	touched map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:   make(map[string]Node),
		touched: make(map[string]time.Time),
	}
}

// CreateNode stores node, replacing any node with the same id.
func (s *MemoryStore) CreateNode(ctx context.Context, node Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[node.ID] = node
	s.touched[node.ID] = time.Now()
	return nil
}

// DeleteNode removes a node; unknown ids are ignored.
func (s *MemoryStore) DeleteNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
	delete(s.touched, id)
	return nil
}

// TouchNode refreshes the touch time or returns ErrNotFound.
func (s *MemoryStore) TouchNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; !ok {
		return ErrNotFound
	}
	s.touched[id] = time.Now()
	return nil
}

// GetNode returns a copy of the node or ErrNotFound.
func (s *MemoryStore) GetNode(ctx context.Context, id string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

// GetNodesByOwner returns the nodes tagged with owner, sorted by id.
func (s *MemoryStore) GetNodesByOwner(ctx context.Context, owner string) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Node
	for _, n := range s.nodes {
		if n.Internal.Owner == owner {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// TouchedAt returns the last create/touch time of a node.
func (s *MemoryStore) TouchedAt(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.touched[id]
	return t, ok
}

// MemoryCache is an in-process Cache. Entries do not survive the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]CacheEntry)}
}

// Get returns the entry for key, or nil.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Set stores entry under key.
func (c *MemoryCache) Set(ctx context.Context, key string, entry CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}
