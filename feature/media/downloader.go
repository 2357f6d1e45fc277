package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"cms-sync/core/nodestore"
	"cms-sync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"golang.org/x/time/rate"
)

// FileNodeType is the node type of downloaded files.
const FileNodeType = "File"

// HTTPDownloader downloads media over HTTP, stores the bytes content-addressed
// in object storage and records a File node for them.
type HTTPDownloader struct {
	httpClient *http.Client
	storage    storage.Client
	bucket     string
	prefix     string
	nodes      nodestore.NodeStore
	owner      string
	limiter    *rate.Limiter
}

// NewHTTPDownloader creates a downloader writing to bucket and creating nodes tagged with owner.
func NewHTTPDownloader(cfg Config, client storage.Client, bucket string, nodes nodestore.NodeStore, owner string) *HTTPDownloader {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 120
	}

	prefix := cfg.ObjectPrefix
	if prefix == "" {
		prefix = "media"
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &HTTPDownloader{
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		storage:    client,
		bucket:     bucket,
		prefix:     prefix,
		nodes:      nodes,
		owner:      owner,
		limiter:    limiter,
	}
}

// FileNodeID derives the File node id from the source URL.
func FileNodeID(sourceURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceURL)).String()
}

// Download implements Downloader.
func (d *HTTPDownloader) Download(ctx context.Context, req DownloadRequest) (*nodestore.Node, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req.Credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download %s: unexpected status %d", req.URL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "cms-sync-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hash), resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.URL, err)
	}
	digest := hex.EncodeToString(hash.Sum(nil))

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = req.Descriptor.Mime()
	}

	name, ext := fileName(req.URL)
	objectName := fmt.Sprintf("%s/%s/%s%s", d.prefix, digest[:2], digest, ext)

	exists, err := storage.ObjectExists(ctx, d.storage, d.bucket, objectName)
	if err != nil {
		return nil, fmt.Errorf("failed to check object %s: %w", objectName, err)
	}
	if !exists {
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		_, err = d.storage.PutObject(ctx, d.bucket, objectName, tmp, size, minio.PutObjectOptions{ContentType: mimeType})
		if err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", objectName, err)
		}
	}

	node := nodestore.NewNode(FileNodeID(req.URL), FileNodeType, d.owner, map[string]any{
		"url":       req.URL,
		"name":      name,
		"ext":       ext,
		"mime":      mimeType,
		"size":      size,
		"digest":    digest,
		"bucket":    d.bucket,
		"objectKey": objectName,
	})
	if err := d.nodes.CreateNode(ctx, node); err != nil {
		return nil, err
	}

	return &node, nil
}

func fileName(rawURL string) (name, ext string) {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "/" || base == "." {
		return "", ""
	}
	ext = path.Ext(base)
	return base[:len(base)-len(ext)], ext
}
