package services

import (
	"context"
	"fmt"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
)

// Issue codes reported by the validation engine
const (
	CodeCircularDependency  = "CIRCULAR_DEPENDENCY"
	CodeUnusedStatement     = "UNUSED_STATEMENT"
	CodeUnconnectedArgument = "UNCONNECTED_ARGUMENT"
)

// Severity classifies a validation issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueLocation points at the part of the document an issue concerns
type IssueLocation struct {
	TreeID      valueobjects.TreeID       `json:"tree_id,omitempty"`
	ArgumentIDs []valueobjects.ArgumentID `json:"argument_ids,omitempty"`
	StatementID valueobjects.StatementID  `json:"statement_id,omitempty"`
}

// ValidationIssue is a single finding about document health
type ValidationIssue struct {
	Code     string        `json:"code"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Location IssueLocation `json:"location"`
}

// CustomScriptResult is the outcome of one externally supplied check
type CustomScriptResult struct {
	ScriptID string   `json:"script_id"`
	Passed   bool     `json:"passed"`
	Messages []string `json:"messages"`
}

// ValidationResult describes the health of a document. Findings here are
// data about the document, not failures of the engine.
type ValidationResult struct {
	IsValid       bool                 `json:"is_valid"`
	Errors        []ValidationIssue    `json:"errors"`
	Warnings      []ValidationIssue    `json:"warnings"`
	CustomScripts []CustomScriptResult `json:"custom_scripts,omitempty"`
}

// CustomCheck is anything able to judge a snapshot and report a named result
type CustomCheck interface {
	Run(ctx context.Context, snap *aggregates.Snapshot) CustomScriptResult
}

// CustomCheckFunc adapts a function to CustomCheck
type CustomCheckFunc func(ctx context.Context, snap *aggregates.Snapshot) CustomScriptResult

// Run calls f
func (f CustomCheckFunc) Run(ctx context.Context, snap *aggregates.Snapshot) CustomScriptResult {
	return f(ctx, snap)
}

// ValidationEngine turns structural analysis into a ValidationResult
type ValidationEngine struct {
	analyzer *StructuralAnalyzer
	config   *config.DomainConfig
}

// NewValidationEngine creates a new validation engine
func NewValidationEngine(analyzer *StructuralAnalyzer, cfg *config.DomainConfig) *ValidationEngine {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if analyzer == nil {
		analyzer = NewStructuralAnalyzer(cfg)
	}
	return &ValidationEngine{analyzer: analyzer, config: cfg}
}

// Validate reports one CIRCULAR_DEPENDENCY error per cyclic tree, plus
// warnings for unused statements and unconnected arguments when enabled.
func (e *ValidationEngine) Validate(snap *aggregates.Snapshot) ValidationResult {
	result := emptyResult()

	for _, tree := range snap.Trees() {
		cycle, err := e.analyzer.CycleDetect(snap, tree.ID())
		if err != nil || !cycle.HasCycle {
			continue
		}
		result.Errors = append(result.Errors, circularDependency(cycle))
	}

	stats := e.analyzer.UsageStatistics(snap)
	if e.config.WarnOnUnusedStatements {
		for _, id := range stats.UnusedStatements {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Code:     CodeUnusedStatement,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("statement %s is not used by any argument", id),
				Location: IssueLocation{StatementID: id},
			})
		}
	}
	if e.config.WarnOnUnconnectedArguments {
		for _, id := range stats.UnconnectedArguments {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Code:     CodeUnconnectedArgument,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("argument %s is not connected to the proof", id),
				Location: IssueLocation{ArgumentIDs: []valueobjects.ArgumentID{id}},
			})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// RunCustomChecks runs each check in order and folds the outcomes into a
// mergeable result. It stops early when ctx is done.
func RunCustomChecks(ctx context.Context, snap *aggregates.Snapshot, checks ...CustomCheck) (ValidationResult, error) {
	results := make([]CustomScriptResult, 0, len(checks))
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return ValidationResult{}, err
		}
		results = append(results, check.Run(ctx, snap))
	}
	return CustomScriptsResult(results...), nil
}

// CustomScriptsResult wraps caller-produced script results. The result is
// valid only if every script passed.
func CustomScriptsResult(scripts ...CustomScriptResult) ValidationResult {
	result := emptyResult()
	result.CustomScripts = make([]CustomScriptResult, 0, len(scripts))
	for _, s := range scripts {
		if !s.Passed {
			result.IsValid = false
		}
		result.CustomScripts = append(result.CustomScripts, s)
	}
	return result
}

// MergeValidationResults combines results left to right. Validity is the
// conjunction of the inputs; issues and script results are concatenated
// without deduplication. Merging nothing yields a valid, empty result.
func MergeValidationResults(results ...ValidationResult) ValidationResult {
	merged := emptyResult()
	for _, r := range results {
		merged.IsValid = merged.IsValid && r.IsValid
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
		merged.CustomScripts = append(merged.CustomScripts, r.CustomScripts...)
	}
	return merged
}

// HasValidationErrors reports whether the result carries an error or a
// failed custom script. Warnings alone do not count.
func HasValidationErrors(result ValidationResult) bool {
	if len(result.Errors) > 0 {
		return true
	}
	for _, s := range result.CustomScripts {
		if !s.Passed {
			return true
		}
	}
	return false
}

func circularDependency(cycle CycleResult) ValidationIssue {
	return ValidationIssue{
		Code:     CodeCircularDependency,
		Severity: SeverityError,
		Message:  fmt.Sprintf("tree %s contains a circular dependency through %d argument(s)", cycle.TreeID, len(cycle.Path)-1),
		Location: IssueLocation{TreeID: cycle.TreeID, ArgumentIDs: cycle.Path},
	}
}

func emptyResult() ValidationResult {
	return ValidationResult{
		IsValid:  true,
		Errors:   make([]ValidationIssue, 0),
		Warnings: make([]ValidationIssue, 0),
	}
}
