package aggregates

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/events"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// ProofAggregate is the consistency boundary for one proof document.
// It owns the statement, argument and tree/node registries and is the only
// component allowed to mutate them.
//
// State is copy-on-write: every accepted mutation publishes a new immutable
// state and increments the version by one. Readers take a Snapshot and never
// block; writers are serialized and must present the version they read.
type ProofAggregate struct {
	id     valueobjects.DocumentID
	config *config.DomainConfig
	clock  func() time.Time

	state atomic.Pointer[documentState]

	mu     sync.Mutex // serializes writers and guards events
	events []events.DomainEvent
}

// Option configures a ProofAggregate
type Option func(*ProofAggregate)

// WithDocumentID sets the document identity instead of generating one
func WithDocumentID(id valueobjects.DocumentID) Option {
	return func(p *ProofAggregate) {
		if !id.IsZero() {
			p.id = id
		}
	}
}

// WithClock overrides the timestamp source
func WithClock(clock func() time.Time) Option {
	return func(p *ProofAggregate) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewProofAggregate creates an empty document at version 0
func NewProofAggregate(cfg *config.DomainConfig, opts ...Option) *ProofAggregate {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	p := &ProofAggregate{
		id:     valueobjects.NewDocumentID(),
		config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(emptyState())
	return p
}

// ID returns the document identity
func (p *ProofAggregate) ID() valueobjects.DocumentID { return p.id }

// Version returns the current document version
func (p *ProofAggregate) Version() int { return p.state.Load().version }

// Config returns the business rules the aggregate enforces
func (p *ProofAggregate) Config() *config.DomainConfig { return p.config }

// Snapshot returns an immutable view of the current state
func (p *ProofAggregate) Snapshot() *Snapshot {
	return &Snapshot{documentID: p.id, state: p.state.Load()}
}

// Validate re-checks every structural invariant of the current state
func (p *ProofAggregate) Validate() error {
	return checkInvariants(p.state.Load(), p.config)
}

// GetUncommittedEvents returns events raised since the last commit
func (p *ProofAggregate) GetUncommittedEvents() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.events...)
}

// MarkEventsAsCommitted clears the uncommitted events
func (p *ProofAggregate) MarkEventsAsCommitted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// mutation is the working copy handed to an operation
type mutation struct {
	documentID valueobjects.DocumentID
	config     *config.DomainConfig
	state      *documentState
	version    int
	now        time.Time
	events     []events.DomainEvent
}

func (m *mutation) raise(e events.DomainEvent) {
	m.events = append(m.events, e)
}

// apply runs change against a clone of the current state and publishes the
// result only when change succeeds. A failed change leaves nothing behind.
func (p *ProofAggregate) apply(expectedVersion int, change func(m *mutation) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.state.Load()
	if current.version != expectedVersion {
		return pkgerrors.NewVersionConflict(expectedVersion, current.version)
	}

	m := &mutation{
		documentID: p.id,
		config:     p.config,
		state:      current.clone(),
		version:    current.version + 1,
		now:        p.clock(),
	}
	if err := change(m); err != nil {
		return err
	}

	m.state.version = m.version
	p.state.Store(m.state)
	p.events = append(p.events, m.events...)
	return nil
}
