package entities

import (
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// Attachment places a child node on one premise slot of its parent.
// FromPosition optionally selects which of the child's conclusions feeds that slot.
type Attachment struct {
	ParentNodeID    valueobjects.NodeID
	PremisePosition int
	FromPosition    *int
}

// Clone returns an independent copy
func (a Attachment) Clone() Attachment {
	if a.FromPosition != nil {
		from := *a.FromPosition
		a.FromPosition = &from
	}
	return a
}

// Node is a placement of an argument inside one tree
type Node struct {
	id         valueobjects.NodeID
	treeID     valueobjects.TreeID
	argumentID valueobjects.ArgumentID
	attachment *Attachment
	createdAt  time.Time
}

// NewRootNode places an argument at the top of a tree
func NewRootNode(treeID valueobjects.TreeID, argumentID valueobjects.ArgumentID, now time.Time) (*Node, error) {
	return ReconstructNode(valueobjects.NewNodeID(), treeID, argumentID, nil, now)
}

// NewChildNode places an argument under a parent node
func NewChildNode(
	treeID valueobjects.TreeID,
	argumentID valueobjects.ArgumentID,
	attachment Attachment,
	now time.Time,
) (*Node, error) {
	if attachment.ParentNodeID.IsZero() {
		return nil, pkgerrors.NewUnknownParent("", treeID.String())
	}
	return ReconstructNode(valueobjects.NewNodeID(), treeID, argumentID, &attachment, now)
}

// ReconstructNode rebuilds a node from persisted data; a nil attachment marks a root
func ReconstructNode(
	id valueobjects.NodeID,
	treeID valueobjects.TreeID,
	argumentID valueobjects.ArgumentID,
	attachment *Attachment,
	createdAt time.Time,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidContent("node id cannot be empty")
	}
	if treeID.IsZero() {
		return nil, pkgerrors.NewNotFound("tree", "")
	}
	if argumentID.IsZero() {
		return nil, pkgerrors.NewUnknownArgument("")
	}
	node := &Node{
		id:         id,
		treeID:     treeID,
		argumentID: argumentID,
		createdAt:  createdAt,
	}
	if attachment != nil {
		a := attachment.Clone()
		node.attachment = &a
	}
	return node, nil
}

func (n *Node) ID() valueobjects.NodeID             { return n.id }
func (n *Node) TreeID() valueobjects.TreeID         { return n.treeID }
func (n *Node) ArgumentID() valueobjects.ArgumentID { return n.argumentID }
func (n *Node) CreatedAt() time.Time                { return n.createdAt }
func (n *Node) IsRoot() bool                        { return n.attachment == nil }

// Attachment returns a copy of the attachment and whether the node has one
func (n *Node) Attachment() (Attachment, bool) {
	if n.attachment == nil {
		return Attachment{}, false
	}
	return n.attachment.Clone(), true
}

// ParentID returns the parent node id, zero for roots
func (n *Node) ParentID() valueobjects.NodeID {
	if n.attachment == nil {
		return ""
	}
	return n.attachment.ParentNodeID
}

// Reattach moves the node under a new parent slot
func (n *Node) Reattach(attachment Attachment) {
	a := attachment.Clone()
	n.attachment = &a
}

// Detach drops the attachment, making the node a root
func (n *Node) Detach() { n.attachment = nil }

// Clone returns an independent copy
func (n *Node) Clone() *Node {
	c := *n
	if n.attachment != nil {
		a := n.attachment.Clone()
		c.attachment = &a
	}
	return &c
}
