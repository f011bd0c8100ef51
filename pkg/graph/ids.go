package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeID is a content-addressed identifier for graph nodes.
type NodeID string

// NewNodeID derives a stable ID from an authoring path such as "sphere/0".
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:16]))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ""
}

// Short returns an abbreviated form for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}
