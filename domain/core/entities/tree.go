package entities

import (
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// Tree groups node placements under one or more roots.
// Depth, breadth and node count are always derived from the nodes.
type Tree struct {
	id        valueobjects.TreeID
	position  valueobjects.Position
	bounds    *valueobjects.Bounds
	rootIDs   []valueobjects.NodeID
	createdAt time.Time
}

// NewTree creates an empty tree at the given layout position
func NewTree(position valueobjects.Position, bounds *valueobjects.Bounds, now time.Time) *Tree {
	t := &Tree{
		id:        valueobjects.NewTreeID(),
		position:  position,
		createdAt: now,
	}
	t.SetBounds(bounds)
	return t
}

// ReconstructTree rebuilds a tree from persisted data
func ReconstructTree(
	id valueobjects.TreeID,
	position valueobjects.Position,
	bounds *valueobjects.Bounds,
	rootIDs []valueobjects.NodeID,
	createdAt time.Time,
) (*Tree, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidContent("tree id cannot be empty")
	}
	t := &Tree{
		id:        id,
		position:  position,
		rootIDs:   append([]valueobjects.NodeID(nil), rootIDs...),
		createdAt: createdAt,
	}
	t.SetBounds(bounds)
	return t, nil
}

func (t *Tree) ID() valueobjects.TreeID         { return t.id }
func (t *Tree) Position() valueobjects.Position { return t.position }
func (t *Tree) CreatedAt() time.Time            { return t.createdAt }

// Bounds returns a copy of the bounding box, nil when unset
func (t *Tree) Bounds() *valueobjects.Bounds {
	if t.bounds == nil {
		return nil
	}
	b := *t.bounds
	return &b
}

// RootNodeIDs returns the root node ids in placement order
func (t *Tree) RootNodeIDs() []valueobjects.NodeID {
	return append([]valueobjects.NodeID(nil), t.rootIDs...)
}

// HasRoot reports whether the node is one of the tree's roots
func (t *Tree) HasRoot(id valueobjects.NodeID) bool {
	for _, r := range t.rootIDs {
		if r == id {
			return true
		}
	}
	return false
}

func (t *Tree) MoveTo(position valueobjects.Position) { t.position = position }

func (t *Tree) SetBounds(bounds *valueobjects.Bounds) {
	if bounds == nil {
		t.bounds = nil
		return
	}
	b := *bounds
	t.bounds = &b
}

// AddRoot appends a root node id
func (t *Tree) AddRoot(id valueobjects.NodeID) {
	if !t.HasRoot(id) {
		t.rootIDs = append(t.rootIDs, id)
	}
}

// RemoveRoot drops a root node id, keeping the order of the rest
func (t *Tree) RemoveRoot(id valueobjects.NodeID) {
	out := t.rootIDs[:0:0]
	for _, r := range t.rootIDs {
		if r != id {
			out = append(out, r)
		}
	}
	t.rootIDs = out
}

// Clone returns an independent copy
func (t *Tree) Clone() *Tree {
	c := *t
	c.rootIDs = append([]valueobjects.NodeID(nil), t.rootIDs...)
	c.bounds = t.Bounds()
	return &c
}
