package services

import (
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
)

// BootstrapPhase is the derived lifecycle stage of a document
type BootstrapPhase string

const (
	PhaseEmpty         BootstrapPhase = "empty"
	PhaseFirstArgument BootstrapPhase = "first_argument"
	PhasePopulating    BootstrapPhase = "populating"
	PhaseComplete      BootstrapPhase = "complete"
)

// IsInBootstrapState is true for every phase except complete
func (p BootstrapPhase) IsInBootstrapState() bool { return p != PhaseComplete }

// BootstrapStatus is a classification together with the counts it was
// derived from and guidance for the next step
type BootstrapStatus struct {
	Phase                  BootstrapPhase `json:"phase"`
	IsInBootstrapState     bool           `json:"is_in_bootstrap_state"`
	StatementCount         int            `json:"statement_count"`
	ArgumentCount          int            `json:"argument_count"`
	BootstrapArgumentCount int            `json:"bootstrap_argument_count"`
	ConnectionCount        int            `json:"connection_count"`
	Message                string         `json:"message"`
	NextSteps              []string       `json:"next_steps"`
}

type phaseGuidance struct {
	message string
	steps   []string
}

var guidance = map[BootstrapPhase]phaseGuidance{
	PhaseEmpty: {
		message: "The document has no arguments yet.",
		steps:   []string{"Create the first argument"},
	},
	PhaseFirstArgument: {
		message: "An empty argument is waiting for statements.",
		steps:   []string{"Add premise statements", "Add conclusion statements"},
	},
	PhasePopulating: {
		message: "Arguments have statements but none are connected.",
		steps:   []string{"Connect arguments by reusing a conclusion as a premise"},
	},
	PhaseComplete: {
		message: "The proof has connected arguments.",
		steps:   []string{"Continue building the proof", "Validate the document", "Export the proof"},
	},
}

// BootstrapClassifier derives the bootstrap phase from document content.
// The phase is never stored, so it cannot drift from the content.
type BootstrapClassifier struct{}

// NewBootstrapClassifier creates a new bootstrap classifier
func NewBootstrapClassifier() *BootstrapClassifier {
	return &BootstrapClassifier{}
}

// Classify computes the phase of a snapshot
func (c *BootstrapClassifier) Classify(snap *aggregates.Snapshot) BootstrapStatus {
	status := BootstrapStatus{
		StatementCount:  snap.StatementCount(),
		ArgumentCount:   snap.ArgumentCount(),
		ConnectionCount: snap.ConnectionGraph().EdgeCount(),
	}
	for _, arg := range snap.Arguments() {
		if arg.IsBootstrap() {
			status.BootstrapArgumentCount++
		}
	}

	switch {
	case status.ArgumentCount == 0:
		status.Phase = PhaseEmpty
	case status.ConnectionCount > 0:
		status.Phase = PhaseComplete
	case status.BootstrapArgumentCount > 0:
		status.Phase = PhaseFirstArgument
	default:
		status.Phase = PhasePopulating
	}

	g := guidance[status.Phase]
	status.IsInBootstrapState = status.Phase.IsInBootstrapState()
	status.Message = g.message
	status.NextSteps = append([]string(nil), g.steps...)
	return status
}

// IsInBootstrapState reports whether a snapshot is still bootstrapping
func (c *BootstrapClassifier) IsInBootstrapState(snap *aggregates.Snapshot) bool {
	return c.Classify(snap).IsInBootstrapState
}
