package nodestore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_Digest(t *testing.T) {
	a := NewNode("Article_1", "Article", "cms-sync", map[string]any{"title": "Hi", "views": json.Number("3")})
	b := NewNode("Article_1", "Article", "cms-sync", map[string]any{"views": json.Number("3"), "title": "Hi"})
	c := NewNode("Article_1", "Article", "cms-sync", map[string]any{"title": "Salut"})

	assert.Len(t, a.Internal.ContentDigest, 64)
	assert.Equal(t, a.Internal.ContentDigest, b.Internal.ContentDigest)
	assert.NotEqual(t, a.Internal.ContentDigest, c.Internal.ContentDigest)
}

func TestNode_JSON(t *testing.T) {
	n := NewNode("Article_1", "Article", "cms-sync", map[string]any{
		"title":        "Hi",
		"cover___NODE": "file-1",
		"id":           json.Number("1"),
		"internal":     "shadowed",
		"nested":       map[string]any{"n": json.Number("1")},
	})

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "Article_1", flat["id"])
	assert.Equal(t, "Hi", flat["title"])
	assert.Equal(t, float64(1), flat[SourceIDKey])
	assert.Equal(t, "Article", flat["internal"].(map[string]any)["type"])

	var back Node
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Article_1", back.ID)
	assert.Equal(t, n.Internal, back.Internal)
	assert.Equal(t, "file-1", back.Fields["cover___NODE"])
	assert.Equal(t, json.Number("1"), back.Fields["id"])
	assert.NotContains(t, back.Fields, SourceIDKey)
	assert.Equal(t, json.Number("1"), back.Fields["nested"].(map[string]any)["n"])
}

func TestCacheEntry_Matches(t *testing.T) {
	tests := []struct {
		name   string
		stored any
		now    any
		want   bool
	}{
		{"SameString", "2020-01-01T00:00:00Z", "2020-01-01T00:00:00Z", true},
		{"DifferentString", "2020-01-01T00:00:00Z", "2021-01-01T00:00:00Z", false},
		{"NumberVsNumber", json.Number("1600000000"), float64(1600000000), true},
		{"BothAbsent", nil, nil, true},
		{"StoredAbsent", nil, "2020-01-01T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &CacheEntry{FileNodeID: "f", UpdatedAt: tt.stored}
			assert.Equal(t, tt.want, e.Matches(tt.now))
		})
	}
}

func TestCacheEntry_Encoding(t *testing.T) {
	data, err := encodeCacheEntry(CacheEntry{FileNodeID: "f1", UpdatedAt: json.Number("1600000000")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fileNodeID":"f1","updatedAt":1600000000}`, string(data))

	entry, err := decodeCacheEntry(data)
	require.NoError(t, err)
	assert.Equal(t, "f1", entry.FileNodeID)
	assert.True(t, entry.Matches(json.Number("1600000000")))

	data, err = encodeCacheEntry(CacheEntry{FileNodeID: "f2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fileNodeID":"f2"}`, string(data))
}

func TestNode_JSONKeepsEntityID(t *testing.T) {
	n := NewNode("Article_1", "Article", "cms-sync", map[string]any{"id": json.Number("1"), "title": "x"})

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var back Node
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Article_1", back.ID)
	assert.Equal(t, map[string]any{"id": json.Number("1"), "title": "x"}, back.Fields)
}
