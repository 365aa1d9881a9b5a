package queries

import (
	"github.com/nate123456/proof-editor-sub008/domain/services"
	"github.com/nate123456/proof-editor-sub008/pkg/utils"
)

// DocumentQuery identifies the document a query reads
type DocumentQuery struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

// DocumentKey implements bus.DocumentQuery
func (q DocumentQuery) DocumentKey() string { return q.DocumentID }

// GetDocumentQuery returns the full exported state of a document
type GetDocumentQuery struct {
	DocumentQuery
}

// ListDocumentsQuery pages through stored documents
type ListDocumentsQuery struct {
	Page     int `json:"page" validate:"gte=1"`
	PageSize int `json:"page_size" validate:"gte=1,lte=100"`
}

// GetTreeStructureQuery reports depth, breadth and cycle status of a tree
type GetTreeStructureQuery struct {
	DocumentQuery
	TreeID string `json:"tree_id" validate:"required"`
}

// GetBranchesQuery lists the direct children of a node
type GetBranchesQuery struct {
	DocumentQuery
	TreeID string `json:"tree_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`
}

// GetConnectionPathsQuery walks the connection graph from an argument. An
// empty target lists every path up to MaxDepth.
type GetConnectionPathsQuery struct {
	DocumentQuery
	FromArgumentID string `json:"from_argument_id" validate:"required"`
	ToArgumentID   string `json:"to_argument_id,omitempty"`
	MaxDepth       int    `json:"max_depth,omitempty" validate:"gte=0"`
}

// ValidateDocumentQuery produces the document validation report. Results of
// checks the caller ran itself are merged into the report.
type ValidateDocumentQuery struct {
	DocumentQuery
	CustomScripts []services.CustomScriptResult `json:"custom_scripts,omitempty" validate:"dive"`
}

// GetBootstrapStatusQuery classifies the document's bootstrap phase
type GetBootstrapStatusQuery struct {
	DocumentQuery
}

// GetUsageStatisticsQuery counts entities, unused statements and unconnected arguments
type GetUsageStatisticsQuery struct {
	DocumentQuery
}

// Validate validates the query
func (q GetDocumentQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q ListDocumentsQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q GetTreeStructureQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q GetBranchesQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q GetConnectionPathsQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q ValidateDocumentQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q GetBootstrapStatusQuery) Validate() error { return utils.ValidateStruct(q) }

// Validate validates the query
func (q GetUsageStatisticsQuery) Validate() error { return utils.ValidateStruct(q) }
