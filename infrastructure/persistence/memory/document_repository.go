package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/ports"
	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// DocumentRepository keeps exported document state in memory. Documents are
// stored as DocumentData and rebuilt on every load, so callers never share an
// aggregate and every load re-checks the invariants.
type DocumentRepository struct {
	mu     sync.RWMutex
	docs   map[valueobjects.DocumentID]aggregates.DocumentData
	order  []valueobjects.DocumentID
	config *config.DomainConfig
	logger *zap.Logger
}

// NewDocumentRepository creates an empty in-memory document repository
func NewDocumentRepository(cfg *config.DomainConfig, logger *zap.Logger) *DocumentRepository {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRepository{
		docs:   make(map[valueobjects.DocumentID]aggregates.DocumentData),
		config: cfg,
		logger: logger,
	}
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)

// Create stores a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *aggregates.ProofAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID()]; exists {
		return pkgerrors.NewConflictError("document already exists").
			WithCode("DOCUMENT_EXISTS").
			WithDetails(map[string]interface{}{"document_id": doc.ID().String()})
	}

	r.docs[doc.ID()] = doc.Export()
	r.order = append(r.order, doc.ID())
	return nil
}

// GetByID rebuilds the stored document
func (r *DocumentRepository) GetByID(ctx context.Context, id valueobjects.DocumentID) (*aggregates.ProofAggregate, error) {
	r.mu.RLock()
	data, exists := r.docs[id]
	r.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.NewNotFound("document", id.String())
	}

	doc, err := aggregates.Reconstruct(data, r.config)
	if err != nil {
		r.logger.Error("Stored document failed reconstruction",
			zap.String("documentID", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return doc, nil
}

// Version returns the stored version of a document
func (r *DocumentRepository) Version(ctx context.Context, id valueobjects.DocumentID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.docs[id]
	if !exists {
		return 0, pkgerrors.NewNotFound("document", id.String())
	}
	return data.Version, nil
}

// Save stores the document if nobody else saved it since expectedVersion
func (r *DocumentRepository) Save(ctx context.Context, doc *aggregates.ProofAggregate, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.docs[doc.ID()]
	if !exists {
		return pkgerrors.NewNotFound("document", doc.ID().String())
	}
	if stored.Version != expectedVersion {
		return pkgerrors.NewVersionConflict(expectedVersion, stored.Version)
	}

	r.docs[doc.ID()] = doc.Export()
	return nil
}

// Delete removes a document
func (r *DocumentRepository) Delete(ctx context.Context, id valueobjects.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[id]; !exists {
		return pkgerrors.NewNotFound("document", id.String())
	}

	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns a page of document summaries in creation order and the total count
func (r *DocumentRepository) List(ctx context.Context, offset, limit int) ([]ports.DocumentSummary, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []ports.DocumentSummary{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	summaries := make([]ports.DocumentSummary, 0, end-offset)
	for _, id := range r.order[offset:end] {
		data := r.docs[id]
		summaries = append(summaries, ports.DocumentSummary{
			ID:             id,
			Version:        data.Version,
			StatementCount: len(data.Statements),
			ArgumentCount:  len(data.Arguments),
			TreeCount:      len(data.Trees),
		})
	}
	return summaries, total, nil
}
