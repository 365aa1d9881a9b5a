package events

import (
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
)

// Statement Events

// StatementCreated is raised when a statement is added to the registry
type StatementCreated struct {
	BaseEvent
	StatementID valueobjects.StatementID `json:"statement_id"`
	Content     string                   `json:"content"`
}

// NewStatementCreated creates a StatementCreated event
func NewStatementCreated(docID valueobjects.DocumentID, version int, id valueobjects.StatementID, content string, timestamp time.Time) StatementCreated {
	return StatementCreated{
		BaseEvent:   newBase(docID.String(), TypeStatementCreated, version, timestamp),
		StatementID: id,
		Content:     content,
	}
}

// StatementEdited is raised when statement text changes
type StatementEdited struct {
	BaseEvent
	StatementID valueobjects.StatementID `json:"statement_id"`
	OldContent  string                   `json:"old_content"`
	NewContent  string                   `json:"new_content"`
}

// NewStatementEdited creates a StatementEdited event
func NewStatementEdited(docID valueobjects.DocumentID, version int, id valueobjects.StatementID, oldContent, newContent string, timestamp time.Time) StatementEdited {
	return StatementEdited{
		BaseEvent:   newBase(docID.String(), TypeStatementEdited, version, timestamp),
		StatementID: id,
		OldContent:  oldContent,
		NewContent:  newContent,
	}
}

// StatementRemoved is raised when an unreferenced statement is deleted
type StatementRemoved struct {
	BaseEvent
	StatementID valueobjects.StatementID `json:"statement_id"`
}

// NewStatementRemoved creates a StatementRemoved event
func NewStatementRemoved(docID valueobjects.DocumentID, version int, id valueobjects.StatementID, timestamp time.Time) StatementRemoved {
	return StatementRemoved{
		BaseEvent:   newBase(docID.String(), TypeStatementRemoved, version, timestamp),
		StatementID: id,
	}
}

// Argument Events

// ArgumentCreated is raised when a new atomic argument is registered
type ArgumentCreated struct {
	BaseEvent
	ArgumentID  valueobjects.ArgumentID    `json:"argument_id"`
	Premises    []valueobjects.StatementID `json:"premises"`
	Conclusions []valueobjects.StatementID `json:"conclusions"`
}

// NewArgumentCreated creates an ArgumentCreated event
func NewArgumentCreated(docID valueobjects.DocumentID, version int, id valueobjects.ArgumentID, premises, conclusions []valueobjects.StatementID, timestamp time.Time) ArgumentCreated {
	return ArgumentCreated{
		BaseEvent:   newBase(docID.String(), TypeArgumentCreated, version, timestamp),
		ArgumentID:  id,
		Premises:    premises,
		Conclusions: conclusions,
	}
}

// ArgumentStatementsUpdated is raised when an argument's premises or conclusions are replaced
type ArgumentStatementsUpdated struct {
	BaseEvent
	ArgumentID  valueobjects.ArgumentID    `json:"argument_id"`
	Premises    []valueobjects.StatementID `json:"premises"`
	Conclusions []valueobjects.StatementID `json:"conclusions"`
}

// NewArgumentStatementsUpdated creates an ArgumentStatementsUpdated event
func NewArgumentStatementsUpdated(docID valueobjects.DocumentID, version int, id valueobjects.ArgumentID, premises, conclusions []valueobjects.StatementID, timestamp time.Time) ArgumentStatementsUpdated {
	return ArgumentStatementsUpdated{
		BaseEvent:   newBase(docID.String(), TypeArgumentStatementsSet, version, timestamp),
		ArgumentID:  id,
		Premises:    premises,
		Conclusions: conclusions,
	}
}

// ArgumentSideLabelsUpdated is raised when side labels change
type ArgumentSideLabelsUpdated struct {
	BaseEvent
	ArgumentID valueobjects.ArgumentID `json:"argument_id"`
	Left       string                  `json:"left"`
	Right      string                  `json:"right"`
}

// NewArgumentSideLabelsUpdated creates an ArgumentSideLabelsUpdated event
func NewArgumentSideLabelsUpdated(docID valueobjects.DocumentID, version int, id valueobjects.ArgumentID, labels valueobjects.SideLabels, timestamp time.Time) ArgumentSideLabelsUpdated {
	return ArgumentSideLabelsUpdated{
		BaseEvent:  newBase(docID.String(), TypeArgumentSideLabelsSet, version, timestamp),
		ArgumentID: id,
		Left:       labels.Left(),
		Right:      labels.Right(),
	}
}

// ArgumentRemoved is raised when an unplaced argument is deleted
type ArgumentRemoved struct {
	BaseEvent
	ArgumentID valueobjects.ArgumentID `json:"argument_id"`
}

// NewArgumentRemoved creates an ArgumentRemoved event
func NewArgumentRemoved(docID valueobjects.DocumentID, version int, id valueobjects.ArgumentID, timestamp time.Time) ArgumentRemoved {
	return ArgumentRemoved{
		BaseEvent:  newBase(docID.String(), TypeArgumentRemoved, version, timestamp),
		ArgumentID: id,
	}
}

// Tree Events

// TreeCreated is raised when a tree is added to the document
type TreeCreated struct {
	BaseEvent
	TreeID   valueobjects.TreeID   `json:"tree_id"`
	Position valueobjects.Position `json:"position"`
}

// NewTreeCreated creates a TreeCreated event
func NewTreeCreated(docID valueobjects.DocumentID, version int, id valueobjects.TreeID, position valueobjects.Position, timestamp time.Time) TreeCreated {
	return TreeCreated{
		BaseEvent: newBase(docID.String(), TypeTreeCreated, version, timestamp),
		TreeID:    id,
		Position:  position,
	}
}

// TreeMoved is raised when a tree's layout position changes
type TreeMoved struct {
	BaseEvent
	TreeID      valueobjects.TreeID   `json:"tree_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewTreeMoved creates a TreeMoved event
func NewTreeMoved(docID valueobjects.DocumentID, version int, id valueobjects.TreeID, oldPos, newPos valueobjects.Position, timestamp time.Time) TreeMoved {
	return TreeMoved{
		BaseEvent:   newBase(docID.String(), TypeTreeMoved, version, timestamp),
		TreeID:      id,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// TreeRemoved is raised when a tree and all of its placements are removed
type TreeRemoved struct {
	BaseEvent
	TreeID         valueobjects.TreeID   `json:"tree_id"`
	RemovedNodeIDs []valueobjects.NodeID `json:"removed_node_ids"`
}

// NewTreeRemoved creates a TreeRemoved event
func NewTreeRemoved(docID valueobjects.DocumentID, version int, id valueobjects.TreeID, removed []valueobjects.NodeID, timestamp time.Time) TreeRemoved {
	return TreeRemoved{
		BaseEvent:      newBase(docID.String(), TypeTreeRemoved, version, timestamp),
		TreeID:         id,
		RemovedNodeIDs: removed,
	}
}

// Node Events

// NodeAttached is raised when an argument is placed into a tree
type NodeAttached struct {
	BaseEvent
	NodeID          valueobjects.NodeID     `json:"node_id"`
	TreeID          valueobjects.TreeID     `json:"tree_id"`
	ArgumentID      valueobjects.ArgumentID `json:"argument_id"`
	ParentNodeID    valueobjects.NodeID     `json:"parent_node_id,omitempty"`
	PremisePosition int                     `json:"premise_position"`
	FromPosition    *int                    `json:"from_position,omitempty"`
}

// NewNodeAttached creates a NodeAttached event
func NewNodeAttached(
	docID valueobjects.DocumentID,
	version int,
	nodeID valueobjects.NodeID,
	treeID valueobjects.TreeID,
	argumentID valueobjects.ArgumentID,
	parentID valueobjects.NodeID,
	premisePosition int,
	fromPosition *int,
	timestamp time.Time,
) NodeAttached {
	return NodeAttached{
		BaseEvent:       newBase(docID.String(), TypeNodeAttached, version, timestamp),
		NodeID:          nodeID,
		TreeID:          treeID,
		ArgumentID:      argumentID,
		ParentNodeID:    parentID,
		PremisePosition: premisePosition,
		FromPosition:    fromPosition,
	}
}

// NodeDetached is raised when a node, and possibly its subtree, leaves a tree
type NodeDetached struct {
	BaseEvent
	NodeID         valueobjects.NodeID   `json:"node_id"`
	TreeID         valueobjects.TreeID   `json:"tree_id"`
	RemovedNodeIDs []valueobjects.NodeID `json:"removed_node_ids"`
}

// NewNodeDetached creates a NodeDetached event
func NewNodeDetached(docID valueobjects.DocumentID, version int, nodeID valueobjects.NodeID, treeID valueobjects.TreeID, removed []valueobjects.NodeID, timestamp time.Time) NodeDetached {
	return NodeDetached{
		BaseEvent:      newBase(docID.String(), TypeNodeDetached, version, timestamp),
		NodeID:         nodeID,
		TreeID:         treeID,
		RemovedNodeIDs: removed,
	}
}

// NodeReattached is raised when a node moves to another parent slot
type NodeReattached struct {
	BaseEvent
	NodeID          valueobjects.NodeID `json:"node_id"`
	TreeID          valueobjects.TreeID `json:"tree_id"`
	OldParentNodeID valueobjects.NodeID `json:"old_parent_node_id,omitempty"`
	NewParentNodeID valueobjects.NodeID `json:"new_parent_node_id"`
	PremisePosition int                 `json:"premise_position"`
}

// NewNodeReattached creates a NodeReattached event
func NewNodeReattached(docID valueobjects.DocumentID, version int, nodeID valueobjects.NodeID, treeID valueobjects.TreeID, oldParent, newParent valueobjects.NodeID, premisePosition int, timestamp time.Time) NodeReattached {
	return NodeReattached{
		BaseEvent:       newBase(docID.String(), TypeNodeReattached, version, timestamp),
		NodeID:          nodeID,
		TreeID:          treeID,
		OldParentNodeID: oldParent,
		NewParentNodeID: newParent,
		PremisePosition: premisePosition,
	}
}
