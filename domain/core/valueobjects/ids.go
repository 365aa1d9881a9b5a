package valueobjects

import (
	"fmt"

	"github.com/google/uuid"
)

// StatementID identifies a statement within a document
type StatementID string

// ArgumentID identifies an atomic argument within a document
type ArgumentID string

// NodeID identifies the placement of an argument inside a tree
type NodeID string

// TreeID identifies a tree within a document
type TreeID string

// DocumentID identifies a proof document aggregate
type DocumentID string

// NewStatementID creates a new random StatementID
func NewStatementID() StatementID { return StatementID(uuid.New().String()) }

// NewArgumentID creates a new random ArgumentID
func NewArgumentID() ArgumentID { return ArgumentID(uuid.New().String()) }

// NewNodeID creates a new random NodeID
func NewNodeID() NodeID { return NodeID(uuid.New().String()) }

// NewTreeID creates a new random TreeID
func NewTreeID() TreeID { return TreeID(uuid.New().String()) }

// NewDocumentID creates a new random DocumentID
func NewDocumentID() DocumentID { return DocumentID(uuid.New().String()) }

func (id StatementID) String() string { return string(id) }
func (id ArgumentID) String() string  { return string(id) }
func (id NodeID) String() string      { return string(id) }
func (id TreeID) String() string      { return string(id) }
func (id DocumentID) String() string  { return string(id) }

// IsZero reports whether the id is unset
func (id StatementID) IsZero() bool { return id == "" }

// IsZero reports whether the id is unset
func (id ArgumentID) IsZero() bool { return id == "" }

// IsZero reports whether the id is unset
func (id NodeID) IsZero() bool { return id == "" }

// IsZero reports whether the id is unset
func (id TreeID) IsZero() bool { return id == "" }

// IsZero reports whether the id is unset
func (id DocumentID) IsZero() bool { return id == "" }

// ParseDocumentID validates an externally supplied document id.
// Document ids arrive from URLs, so unlike entity ids they must be UUIDs.
func ParseDocumentID(s string) (DocumentID, error) {
	if s == "" {
		return "", fmt.Errorf("document ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("document ID must be a valid UUID: %w", err)
	}
	return DocumentID(s), nil
}

// StatementIDs converts raw strings to statement ids preserving order
func StatementIDs(raw []string) []StatementID {
	ids := make([]StatementID, len(raw))
	for i, s := range raw {
		ids[i] = StatementID(s)
	}
	return ids
}
