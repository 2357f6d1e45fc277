package media

import (
	"context"
	"errors"
	"sort"
	"sync"

	"cms-sync/core/logger"
	"cms-sync/core/metrics"
	"cms-sync/core/nodestore"
	"cms-sync/feature/content"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Downloader fetches a remote file and materializes it as a File node.
type Downloader interface {
	Download(ctx context.Context, req DownloadRequest) (*nodestore.Node, error)
}

// DownloadRequest describes one remote file to fetch.
type DownloadRequest struct {
	// URL is the absolute source URL.
	URL string
	// Credential is the bearer token, empty for anonymous access.
	Credential string
	// Descriptor is the media descriptor the URL came from.
	Descriptor Descriptor
}

// Result summarizes the media found in one or more entities.
type Result struct {
	// FileNodeIDs lists every file node referenced, downloaded or reused.
	FileNodeIDs []string
	Downloaded  int
	Reused      int
	Failed      int
}

// Merge adds other into r.
func (r *Result) Merge(other Result) {
	r.FileNodeIDs = append(r.FileNodeIDs, other.FileNodeIDs...)
	r.Downloaded += other.Downloaded
	r.Reused += other.Reused
	r.Failed += other.Failed
}

// Resolver walks entities, downloads their media and links them as back-references.
// A Resolver is safe for concurrent use.
type Resolver struct {
	apiURL     string
	credential string
	cache      nodestore.Cache
	nodes      nodestore.NodeStore
	downloader Downloader
	reporter   logger.Reporter
	log        *zap.Logger
	metrics    *metrics.Metrics

	// Collapses concurrent downloads of the same cache key.
	inflight singleflight.Group
}

// NewResolver creates a Resolver. m may be nil.
func NewResolver(apiURL, credential string, cache nodestore.Cache, nodes nodestore.NodeStore, downloader Downloader, reporter logger.Reporter, log *zap.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		apiURL:     apiURL,
		credential: credential,
		cache:      cache,
		nodes:      nodes,
		downloader: downloader,
		reporter:   reporter,
		log:        log,
		metrics:    m,
	}
}

// Resolve returns a copy of e in which every resolvable media descriptor is
// linked to its File node. Download failures leave the field without a
// back-reference and are reported, never returned.
func (r *Resolver) Resolve(ctx context.Context, e content.Entity) (content.Entity, Result) {
	var res Result
	out, _ := r.resolveValue(ctx, map[string]any(e), DefaultFieldKey, false, &res)
	m, _ := asMap(out)
	return content.Entity(m), res
}

// ResolveAll resolves entities with at most workers resolutions in flight.
// progress may be nil.
func (r *Resolver) ResolveAll(ctx context.Context, entities []content.Entity, workers int, progress logger.Progress) ([]content.Entity, Result) {
	var (
		mu    sync.Mutex
		total Result
	)
	out := make([]content.Entity, len(entities))

	RunPool(ctx, len(entities), workers,
		func(ctx context.Context, i int) {
			resolved, res := r.Resolve(ctx, entities[i])
			out[i] = resolved
			mu.Lock()
			total.Merge(res)
			mu.Unlock()
		},
		func(int) {
			if progress != nil {
				progress.Tick()
			}
		},
	)

	return out, total
}

// resolveValue rebuilds v. The returned id is non-empty only when v is a
// descriptor found under a named (non-default) field, for the parent to link.
func (r *Resolver) resolveValue(ctx context.Context, v any, key string, inArray bool, res *Result) (any, string) {
	if d, ok := AsDescriptor(v); ok {
		return r.resolveDescriptor(ctx, d, key, inArray, res)
	}

	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i], _ = r.resolveValue(ctx, item, key, true, res)
		}
		return out, ""
	default:
		m, ok := asMap(v)
		if !ok {
			return v, ""
		}

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := copyMap(m)
		for _, k := range keys {
			child, fileID := r.resolveValue(ctx, m[k], k, false, res)
			out[k] = child
			if fileID != "" {
				out[k+NodeSuffix] = fileID
			}
		}
		return out, ""
	}
}

func (r *Resolver) resolveDescriptor(ctx context.Context, d Descriptor, key string, inArray bool, res *Result) (any, string) {
	out := copyMap(d)

	fileID := r.fileNodeFor(ctx, d, key, res)
	if fileID == "" {
		return out, ""
	}

	// Array elements have no name of their own and use the default relation.
	if key == DefaultFieldKey || inArray {
		out[DefaultFieldKey+NodeSuffix] = fileID
		return out, ""
	}
	return out, fileID
}

func (r *Resolver) fileNodeFor(ctx context.Context, d Descriptor, key string, res *Result) string {
	cacheKey := CacheKey(d.ID(), key)
	updatedAt := d.UpdatedAt()
	log := r.log.With(zap.String("cache_key", cacheKey))

	entry, err := r.cache.Get(ctx, cacheKey)
	if err != nil {
		log.Warn("Media cache read failed, downloading", zap.Error(err))
		entry = nil
	}

	if entry != nil && entry.FileNodeID != "" && entry.Matches(updatedAt) {
		err := r.nodes.TouchNode(ctx, entry.FileNodeID)
		switch {
		case err == nil:
			res.Reused++
			res.FileNodeIDs = append(res.FileNodeIDs, entry.FileNodeID)
			r.metrics.MediaResolved(metrics.MediaCacheHit)
			return entry.FileNodeID
		case errors.Is(err, nodestore.ErrNotFound):
			log.Info("Cached file node is gone, downloading again", zap.String("file_node_id", entry.FileNodeID))
		default:
			log.Warn("Failed to touch cached file node, downloading again", zap.Error(err))
		}
	}

	if d.URL() == "" {
		r.reportFailure(errors.New("media descriptor has no url"), cacheKey, "")
		res.Failed++
		return ""
	}

	sourceURL := SourceURL(r.apiURL, d.URL())
	v, err, _ := r.inflight.Do(cacheKey, func() (any, error) {
		node, err := r.downloader.Download(ctx, DownloadRequest{
			URL:        sourceURL,
			Credential: r.credential,
			Descriptor: d,
		})
		if err != nil || node == nil {
			return "", err
		}

		entry := nodestore.CacheEntry{FileNodeID: node.ID, UpdatedAt: updatedAt}
		if err := r.cache.Set(ctx, cacheKey, entry); err != nil {
			log.Warn("Media cache write failed", zap.Error(err))
		}
		return node.ID, nil
	})
	if err != nil {
		r.reportFailure(err, cacheKey, sourceURL)
		res.Failed++
		return ""
	}

	fileID, _ := v.(string)
	if fileID == "" {
		return ""
	}

	res.Downloaded++
	res.FileNodeIDs = append(res.FileNodeIDs, fileID)
	r.metrics.MediaResolved(metrics.MediaDownloaded)
	return fileID
}

func (r *Resolver) reportFailure(err error, cacheKey, url string) {
	r.metrics.MediaResolved(metrics.MediaFailed)
	if r.reporter != nil {
		r.reporter.Error("Media download failed", err, zap.String("cache_key", cacheKey), zap.String("url", url))
		return
	}
	r.log.Error("Media download failed", zap.Error(err), zap.String("cache_key", cacheKey), zap.String("url", url))
}
