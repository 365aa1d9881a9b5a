package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/ports"
	"github.com/nate123456/proof-editor-sub008/application/queries"
	"github.com/nate123456/proof-editor-sub008/application/queries/bus"
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/services"
	"github.com/nate123456/proof-editor-sub008/pkg/common"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// ProofQueryHandler answers read queries from document snapshots. It never
// writes, so many queries may run against the same document at once.
type ProofQueryHandler struct {
	repo       ports.DocumentRepository
	analyzer   *services.StructuralAnalyzer
	engine     *services.ValidationEngine
	classifier *services.BootstrapClassifier
	checks     []services.CustomCheck
	logger     *zap.Logger
}

// NewProofQueryHandler creates a new proof query handler. Checks run on
// every validation report.
func NewProofQueryHandler(
	repo ports.DocumentRepository,
	analyzer *services.StructuralAnalyzer,
	engine *services.ValidationEngine,
	classifier *services.BootstrapClassifier,
	logger *zap.Logger,
	checks ...services.CustomCheck,
) *ProofQueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProofQueryHandler{
		repo:       repo,
		analyzer:   analyzer,
		engine:     engine,
		classifier: classifier,
		checks:     checks,
		logger:     logger,
	}
}

// Register binds every document query to this handler
func (h *ProofQueryHandler) Register(b *bus.QueryBus) error {
	registrations := []bus.Query{
		queries.GetDocumentQuery{},
		queries.ListDocumentsQuery{},
		queries.GetTreeStructureQuery{},
		queries.GetBranchesQuery{},
		queries.GetConnectionPathsQuery{},
		queries.ValidateDocumentQuery{},
		queries.GetBootstrapStatusQuery{},
		queries.GetUsageStatisticsQuery{},
	}
	for _, q := range registrations {
		if err := b.Register(q, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle dispatches a query to the matching analysis
func (h *ProofQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if q, ok := query.(queries.ListDocumentsQuery); ok {
		return h.listDocuments(ctx, q)
	}

	docQuery, ok := query.(bus.DocumentQuery)
	if !ok {
		return nil, fmt.Errorf("%w: %T", bus.ErrHandlerNotFound, query)
	}
	snap, err := h.snapshot(ctx, docQuery.DocumentKey())
	if err != nil {
		return nil, err
	}

	switch q := query.(type) {
	case queries.GetDocumentQuery:
		return snap.Export(), nil

	case queries.GetTreeStructureQuery:
		return h.analyzer.TreeStructure(snap, valueobjects.TreeID(q.TreeID))

	case queries.GetBranchesQuery:
		children, err := h.analyzer.BranchesOf(snap, valueobjects.TreeID(q.TreeID), valueobjects.NodeID(q.NodeID))
		if err != nil {
			return nil, err
		}
		return nodeViews(children), nil

	case queries.GetConnectionPathsQuery:
		return h.analyzer.ConnectionPaths(
			snap,
			valueobjects.ArgumentID(q.FromArgumentID),
			valueobjects.ArgumentID(q.ToArgumentID),
			q.MaxDepth,
		)

	case queries.ValidateDocumentQuery:
		return h.validate(ctx, snap, q)

	case queries.GetBootstrapStatusQuery:
		return h.classifier.Classify(snap), nil

	case queries.GetUsageStatisticsQuery:
		return h.analyzer.UsageStatistics(snap), nil
	}

	return nil, fmt.Errorf("%w: %T", bus.ErrHandlerNotFound, query)
}

// DocumentVersion reports the stored version of a document. It serves as the
// caching middleware's bus.VersionLookup.
func (h *ProofQueryHandler) DocumentVersion(ctx context.Context, documentKey string) (int, error) {
	id, err := valueobjects.ParseDocumentID(documentKey)
	if err != nil {
		return 0, pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_DOCUMENT_ID")
	}
	return h.repo.Version(ctx, id)
}

func (h *ProofQueryHandler) snapshot(ctx context.Context, documentKey string) (*aggregates.Snapshot, error) {
	id, err := valueobjects.ParseDocumentID(documentKey)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_DOCUMENT_ID")
	}
	doc, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Snapshot(), nil
}

// validate merges the structural report, server-side checks and the
// caller's own script results, in that order
func (h *ProofQueryHandler) validate(
	ctx context.Context,
	snap *aggregates.Snapshot,
	q queries.ValidateDocumentQuery,
) (services.ValidationResult, error) {
	report := h.engine.Validate(snap)

	checked, err := services.RunCustomChecks(ctx, snap, h.checks...)
	if err != nil {
		return services.ValidationResult{}, err
	}

	result := services.MergeValidationResults(report, checked, services.CustomScriptsResult(q.CustomScripts...))
	h.logger.Debug("Document validated",
		zap.String("documentID", snap.DocumentID().String()),
		zap.Int("version", snap.Version()),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (h *ProofQueryHandler) listDocuments(ctx context.Context, q queries.ListDocumentsQuery) (*common.PaginatedResult, error) {
	params := common.PaginationParams{Page: q.Page, PageSize: q.PageSize}
	summaries, total, err := h.repo.List(ctx, params.CalculateOffset(), params.PageSize)
	if err != nil {
		return nil, err
	}
	return common.NewPaginatedResult(summaries, params.Page, params.PageSize, total), nil
}

func nodeViews(nodes []*entities.Node) []aggregates.NodeData {
	views := make([]aggregates.NodeData, 0, len(nodes))
	for _, n := range nodes {
		view := aggregates.NodeData{
			ID:         n.ID().String(),
			TreeID:     n.TreeID().String(),
			ArgumentID: n.ArgumentID().String(),
			CreatedAt:  n.CreatedAt(),
		}
		if a, ok := n.Attachment(); ok {
			view.ParentNodeID = a.ParentNodeID.String()
			view.PremisePosition = a.PremisePosition
			view.FromPosition = a.FromPosition
		}
		views = append(views, view)
	}
	return views
}
