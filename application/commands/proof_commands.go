package commands

import (
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
	"github.com/nate123456/proof-editor-sub008/pkg/utils"
)

// DocumentCommand carries the target document and the version the caller
// last observed. A stale version is rejected with VERSION_CONFLICT.
type DocumentCommand struct {
	DocumentID      string `json:"document_id" validate:"required,uuid"`
	ExpectedVersion int    `json:"expected_version" validate:"gte=0"`
}

// CreateDocumentCommand creates an empty proof document
type CreateDocumentCommand struct{}

// DeleteDocumentCommand removes a proof document
type DeleteDocumentCommand struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

// AddStatementCommand registers a new statement
type AddStatementCommand struct {
	DocumentCommand
	Content string `json:"content" validate:"required"`
}

// EditStatementCommand replaces the text of a statement
type EditStatementCommand struct {
	DocumentCommand
	StatementID string `json:"statement_id" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

// RemoveStatementCommand removes an unused statement
type RemoveStatementCommand struct {
	DocumentCommand
	StatementID string `json:"statement_id" validate:"required"`
}

// AddArgumentCommand creates an atomic argument. Both lists may be empty.
type AddArgumentCommand struct {
	DocumentCommand
	Premises    []string `json:"premises" validate:"dive,required"`
	Conclusions []string `json:"conclusions" validate:"dive,required"`
	LeftLabel   *string  `json:"left_label,omitempty"`
	RightLabel  *string  `json:"right_label,omitempty"`
}

// UpdateArgumentStatementsCommand replaces an argument's premises and conclusions
type UpdateArgumentStatementsCommand struct {
	DocumentCommand
	ArgumentID  string   `json:"argument_id" validate:"required"`
	Premises    []string `json:"premises" validate:"dive,required"`
	Conclusions []string `json:"conclusions" validate:"dive,required"`
}

// UpdateSideLabelsCommand changes either side label independently; a nil
// label is left untouched and an empty one is cleared
type UpdateSideLabelsCommand struct {
	DocumentCommand
	ArgumentID string  `json:"argument_id" validate:"required"`
	LeftLabel  *string `json:"left_label,omitempty"`
	RightLabel *string `json:"right_label,omitempty"`
}

// RemoveArgumentCommand removes an argument that is not placed in any tree
type RemoveArgumentCommand struct {
	DocumentCommand
	ArgumentID string `json:"argument_id" validate:"required"`
}

// CreateTreeCommand creates an empty tree at a position
type CreateTreeCommand struct {
	DocumentCommand
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  *float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gte=0"`
}

// MoveTreeCommand moves a tree
type MoveTreeCommand struct {
	DocumentCommand
	TreeID string  `json:"tree_id" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// RemoveTreeCommand removes a tree and every node placed in it
type RemoveTreeCommand struct {
	DocumentCommand
	TreeID string `json:"tree_id" validate:"required"`
}

// AttachNodeCommand places an argument in a tree. An empty ParentNodeID
// makes the node a root.
type AttachNodeCommand struct {
	DocumentCommand
	TreeID          string `json:"tree_id" validate:"required"`
	ArgumentID      string `json:"argument_id" validate:"required"`
	ParentNodeID    string `json:"parent_node_id,omitempty"`
	PremisePosition int    `json:"premise_position" validate:"gte=0"`
	FromPosition    *int   `json:"from_position,omitempty" validate:"omitempty,gte=0"`
}

// DetachNodeCommand removes a node; Cascade also removes its subtree
type DetachNodeCommand struct {
	DocumentCommand
	NodeID  string `json:"node_id" validate:"required"`
	Cascade bool   `json:"cascade"`
}

// ReattachNodeCommand moves a node, with its subtree, under a new parent
type ReattachNodeCommand struct {
	DocumentCommand
	NodeID          string `json:"node_id" validate:"required"`
	NewParentNodeID string `json:"new_parent_node_id,omitempty"`
	PremisePosition int    `json:"premise_position" validate:"gte=0"`
	FromPosition    *int   `json:"from_position,omitempty" validate:"omitempty,gte=0"`
}

// Validate validates the command
func (cmd CreateDocumentCommand) Validate() error { return nil }

// Validate validates the command
func (cmd DeleteDocumentCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd AddStatementCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd EditStatementCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd RemoveStatementCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd AddArgumentCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd UpdateArgumentStatementsCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd UpdateSideLabelsCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd RemoveArgumentCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command. Bounds are all or nothing.
func (cmd CreateTreeCommand) Validate() error {
	if (cmd.Width == nil) != (cmd.Height == nil) {
		return pkgerrors.NewValidationError("width and height must be given together").WithCode("INVALID_COMMAND")
	}
	return utils.ValidateStruct(cmd)
}

// Validate validates the command
func (cmd MoveTreeCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd RemoveTreeCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd AttachNodeCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd DetachNodeCommand) Validate() error { return utils.ValidateStruct(cmd) }

// Validate validates the command
func (cmd ReattachNodeCommand) Validate() error { return utils.ValidateStruct(cmd) }
