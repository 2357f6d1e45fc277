package media

import (
	"fmt"
	"strings"

	"cms-sync/core/utils"
	"cms-sync/feature/content"
)

const (
	// DefaultFieldKey is the relation name used for a single image slot.
	DefaultFieldKey = "localFile"
	// NodeSuffix marks a field whose value is a node id to link.
	NodeSuffix = "___NODE"
)

// Descriptor is an uploaded-file substructure of an entity.
type Descriptor map[string]any

// AsDescriptor reports whether v is a file descriptor: any object carrying a
// "mime" key, wherever it sits in the tree. No other signal is used.
func AsDescriptor(v any) (Descriptor, bool) {
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	if _, hasMime := m["mime"]; !hasMime {
		return nil, false
	}
	return Descriptor(m), true
}

// ID returns the media id. Descriptors inside arrays are not cleaned and may
// still carry "_id".
func (d Descriptor) ID() string {
	if id, ok := d["id"]; ok {
		return utils.ToString(id)
	}
	return utils.ToString(d["_id"])
}

// URL returns the raw url, absolute or root-relative.
func (d Descriptor) URL() string {
	return utils.ToString(d["url"])
}

// Mime returns the declared mime type.
func (d Descriptor) Mime() string {
	return utils.ToString(d["mime"])
}

// UpdatedAt returns "updatedAt", falling back to "updated_at" when the former
// is absent, null or empty.
func (d Descriptor) UpdatedAt() any {
	if v := d["updatedAt"]; v != nil && v != "" {
		return v
	}
	return d["updated_at"]
}

// CacheKey identifies the media found under fieldKey. Including the field key
// keeps two media fields of the same item apart.
func CacheKey(mediaID, fieldKey string) string {
	return fmt.Sprintf("strapi-media-%s-%s", mediaID, fieldKey)
}

// SourceURL prefixes apiURL unless rawURL is already absolute.
func SourceURL(apiURL, rawURL string) string {
	if strings.HasPrefix(rawURL, "http") {
		return rawURL
	}
	return apiURL + rawURL
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case content.Entity:
		return t, true
	case Descriptor:
		return t, true
	default:
		return nil, false
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
