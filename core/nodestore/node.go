package nodestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"cms-sync/core/utils"
)

// ErrNotFound is returned when a node id is unknown to the store.
var ErrNotFound = errors.New("node not found")

// Internal carries the bookkeeping attributes of a node.
type Internal struct {
	// Type is the capitalized content-type name (e.g. "Article", "File").
	Type string `json:"type"`
	// Owner tags nodes created by this system so reconciliation only touches its own output.
	Owner string `json:"owner"`
	// ContentDigest is a SHA-256 of the node fields.
	ContentDigest string `json:"contentDigest"`
}

// Node is the unit committed to the store.
type Node struct {
	ID       string
	Internal Internal
	Fields   map[string]any
}

// NewNode builds a node and computes its content digest.
func NewNode(id, nodeType, owner string, fields map[string]any) Node {
	n := Node{
		ID:       id,
		Internal: Internal{Type: nodeType, Owner: owner},
		Fields:   fields,
	}
	n.Internal.ContentDigest = Digest(fields)
	return n
}

// Digest returns the hex SHA-256 of the JSON encoding of fields.
// encoding/json sorts map keys so the digest is stable.
func Digest(fields map[string]any) string {
	data, _ := json.Marshal(fields)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SourceIDKey holds the entity's own id in the flattened JSON form, where
// "id" is taken by the node id.
const SourceIDKey = "sourceId"

// MarshalJSON flattens the node to {id, internal, sourceId, ...fields}.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Fields)+2)
	for k, v := range n.Fields {
		if k == "id" {
			k = SourceIDKey
		}
		out[k] = v
	}
	out["id"] = n.ID
	out["internal"] = n.Internal
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON. Numbers are kept as json.Number.
func (n *Node) UnmarshalJSON(data []byte) error {
	fields, err := decodeMap(data)
	if err != nil {
		return err
	}

	n.ID = utils.ToString(fields["id"])
	delete(fields, "id")
	if sourceID, ok := fields[SourceIDKey]; ok {
		fields["id"] = sourceID
		delete(fields, SourceIDKey)
	}

	if raw, ok := fields["internal"]; ok {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(encoded, &n.Internal); err != nil {
			return err
		}
		delete(fields, "internal")
	}

	n.Fields = fields
	return nil
}

// CacheEntry is the persisted record of a previously downloaded media file.
type CacheEntry struct {
	// FileNodeID is the id of the File node created for the media.
	FileNodeID string `json:"fileNodeID"`
	// UpdatedAt is the media timestamp at download time (string or number).
	UpdatedAt any `json:"updatedAt,omitempty"`
}

// Matches reports whether the entry is still valid for a descriptor carrying updatedAt.
// Two absent timestamps match.
func (e *CacheEntry) Matches(updatedAt any) bool {
	return utils.ToString(e.UpdatedAt) == utils.ToString(updatedAt)
}

func encodeCacheEntry(entry CacheEntry) ([]byte, error) {
	return json.Marshal(entry)
}

func decodeCacheEntry(data []byte) (*CacheEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var entry CacheEntry
	if err := dec.Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func decodeMap(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
