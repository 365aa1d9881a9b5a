package handlers

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/commands"
	"github.com/nate123456/proof-editor-sub008/application/commands/bus"
	"github.com/nate123456/proof-editor-sub008/application/ports"
	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// ProofCommandHandler executes document commands against the proof aggregate.
// Every mutation follows the same flow: load, apply at the caller's expected
// version, save against the loaded version, then publish the new events.
// Save and publish happen under a per-document lock, so subscribers receive a
// document's events in version order.
type ProofCommandHandler struct {
	repo     ports.DocumentRepository
	eventBus ports.EventBus
	config   *config.DomainConfig
	logger   *zap.Logger

	locksMu sync.Mutex
	locks   map[valueobjects.DocumentID]*documentLock
}

type documentLock struct {
	mu   sync.Mutex
	refs int
}

// NewProofCommandHandler creates a new proof command handler
func NewProofCommandHandler(
	repo ports.DocumentRepository,
	eventBus ports.EventBus,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ProofCommandHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProofCommandHandler{
		repo:     repo,
		eventBus: eventBus,
		config:   cfg,
		logger:   logger,
		locks:    make(map[valueobjects.DocumentID]*documentLock),
	}
}

// Register binds every document command to this handler
func (h *ProofCommandHandler) Register(b *bus.CommandBus) error {
	registrations := []bus.Command{
		commands.CreateDocumentCommand{},
		commands.DeleteDocumentCommand{},
		commands.AddStatementCommand{},
		commands.EditStatementCommand{},
		commands.RemoveStatementCommand{},
		commands.AddArgumentCommand{},
		commands.UpdateArgumentStatementsCommand{},
		commands.UpdateSideLabelsCommand{},
		commands.RemoveArgumentCommand{},
		commands.CreateTreeCommand{},
		commands.MoveTreeCommand{},
		commands.RemoveTreeCommand{},
		commands.AttachNodeCommand{},
		commands.DetachNodeCommand{},
		commands.ReattachNodeCommand{},
	}
	for _, cmd := range registrations {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle dispatches a command to the matching aggregate operation
func (h *ProofCommandHandler) Handle(ctx context.Context, cmd bus.Command) (*bus.CommandResult, error) {
	switch c := cmd.(type) {
	case commands.CreateDocumentCommand:
		return h.createDocument(ctx)
	case commands.DeleteDocumentCommand:
		return h.deleteDocument(ctx, c)

	case commands.AddStatementCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			id, err := p.AddStatement(c.ExpectedVersion, c.Content)
			r.CreatedID = id.String()
			return err
		})
	case commands.EditStatementCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, _ *bus.CommandResult) error {
			return p.EditStatement(c.ExpectedVersion, valueobjects.StatementID(c.StatementID), c.Content)
		})
	case commands.RemoveStatementCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			r.RemovedIDs = []string{c.StatementID}
			return p.RemoveStatement(c.ExpectedVersion, valueobjects.StatementID(c.StatementID))
		})

	case commands.AddArgumentCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			id, err := p.AddArgument(
				c.ExpectedVersion,
				valueobjects.StatementIDs(c.Premises),
				valueobjects.StatementIDs(c.Conclusions),
				valueobjects.SideLabelsUpdate{Left: c.LeftLabel, Right: c.RightLabel},
			)
			r.CreatedID = id.String()
			return err
		})
	case commands.UpdateArgumentStatementsCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, _ *bus.CommandResult) error {
			return p.UpdateArgumentStatements(
				c.ExpectedVersion,
				valueobjects.ArgumentID(c.ArgumentID),
				valueobjects.StatementIDs(c.Premises),
				valueobjects.StatementIDs(c.Conclusions),
			)
		})
	case commands.UpdateSideLabelsCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, _ *bus.CommandResult) error {
			return p.UpdateSideLabels(
				c.ExpectedVersion,
				valueobjects.ArgumentID(c.ArgumentID),
				valueobjects.SideLabelsUpdate{Left: c.LeftLabel, Right: c.RightLabel},
			)
		})
	case commands.RemoveArgumentCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			r.RemovedIDs = []string{c.ArgumentID}
			return p.RemoveArgument(c.ExpectedVersion, valueobjects.ArgumentID(c.ArgumentID))
		})

	case commands.CreateTreeCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			position, err := valueobjects.NewPosition(c.X, c.Y)
			if err != nil {
				return invalidLayout(err)
			}
			var bounds *valueobjects.Bounds
			if c.Width != nil && c.Height != nil {
				b, err := valueobjects.NewBounds(*c.Width, *c.Height)
				if err != nil {
					return invalidLayout(err)
				}
				bounds = &b
			}
			id, err := p.CreateTree(c.ExpectedVersion, position, bounds)
			r.CreatedID = id.String()
			return err
		})
	case commands.MoveTreeCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, _ *bus.CommandResult) error {
			position, err := valueobjects.NewPosition(c.X, c.Y)
			if err != nil {
				return invalidLayout(err)
			}
			return p.MoveTree(c.ExpectedVersion, valueobjects.TreeID(c.TreeID), position)
		})
	case commands.RemoveTreeCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			r.RemovedIDs = []string{c.TreeID}
			return p.RemoveTree(c.ExpectedVersion, valueobjects.TreeID(c.TreeID))
		})

	case commands.AttachNodeCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			id, err := p.AttachNode(
				c.ExpectedVersion,
				valueobjects.TreeID(c.TreeID),
				valueobjects.ArgumentID(c.ArgumentID),
				valueobjects.NodeID(c.ParentNodeID),
				c.PremisePosition,
				c.FromPosition,
			)
			r.CreatedID = id.String()
			return err
		})
	case commands.DetachNodeCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, r *bus.CommandResult) error {
			removed, err := p.DetachNode(c.ExpectedVersion, valueobjects.NodeID(c.NodeID), c.Cascade)
			for _, id := range removed {
				r.RemovedIDs = append(r.RemovedIDs, id.String())
			}
			return err
		})
	case commands.ReattachNodeCommand:
		return h.mutate(ctx, c.DocumentCommand, func(p *aggregates.ProofAggregate, _ *bus.CommandResult) error {
			return p.ReattachNode(
				c.ExpectedVersion,
				valueobjects.NodeID(c.NodeID),
				valueobjects.NodeID(c.NewParentNodeID),
				c.PremisePosition,
				c.FromPosition,
			)
		})
	}

	return nil, fmt.Errorf("%w: %T", bus.ErrHandlerNotFound, cmd)
}

func (h *ProofCommandHandler) createDocument(ctx context.Context) (*bus.CommandResult, error) {
	doc := aggregates.NewProofAggregate(h.config)
	if err := h.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	h.logger.Info("Document created", zap.String("documentID", doc.ID().String()))
	return &bus.CommandResult{
		DocumentID: doc.ID().String(),
		Version:    doc.Version(),
		CreatedID:  doc.ID().String(),
	}, nil
}

func (h *ProofCommandHandler) deleteDocument(ctx context.Context, cmd commands.DeleteDocumentCommand) (*bus.CommandResult, error) {
	id, err := valueobjects.ParseDocumentID(cmd.DocumentID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_DOCUMENT_ID")
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	h.logger.Info("Document deleted", zap.String("documentID", cmd.DocumentID))
	return &bus.CommandResult{DocumentID: cmd.DocumentID, RemovedIDs: []string{cmd.DocumentID}}, nil
}

// mutate runs change against the stored document. The aggregate checks the
// caller's expected version; the repository checks that nobody else saved
// since the load.
func (h *ProofCommandHandler) mutate(
	ctx context.Context,
	target commands.DocumentCommand,
	change func(p *aggregates.ProofAggregate, r *bus.CommandResult) error,
) (*bus.CommandResult, error) {
	id, err := valueobjects.ParseDocumentID(target.DocumentID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_DOCUMENT_ID")
	}

	doc, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := doc.Version()

	result := &bus.CommandResult{DocumentID: id.String()}
	if err := change(doc, result); err != nil {
		return nil, err
	}

	unlock := h.lockDocument(id)
	defer unlock()

	if err := h.repo.Save(ctx, doc, loaded); err != nil {
		return nil, err
	}

	h.publish(ctx, doc)
	result.Version = doc.Version()
	return result, nil
}

// lockDocument acquires the commit lock for id. Entries are dropped once no
// command holds or waits for them.
func (h *ProofCommandHandler) lockDocument(id valueobjects.DocumentID) func() {
	h.locksMu.Lock()
	lock, ok := h.locks[id]
	if !ok {
		lock = &documentLock{}
		h.locks[id] = lock
	}
	lock.refs++
	h.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		h.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(h.locks, id)
		}
		h.locksMu.Unlock()
	}
}

// publish sends the document's pending events. The change is already stored,
// so a publishing failure is logged and not returned.
func (h *ProofCommandHandler) publish(ctx context.Context, doc *aggregates.ProofAggregate) {
	pending := doc.GetUncommittedEvents()
	if len(pending) == 0 || h.eventBus == nil {
		doc.MarkEventsAsCommitted()
		return
	}
	if err := h.eventBus.PublishBatch(ctx, pending); err != nil {
		h.logger.Error("Failed to publish document events",
			zap.String("documentID", doc.ID().String()),
			zap.Int("eventCount", len(pending)),
			zap.Error(err),
		)
	}
	doc.MarkEventsAsCommitted()
}

func invalidLayout(err error) error {
	return pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_LAYOUT")
}
