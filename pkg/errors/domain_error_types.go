package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DomainErrorKind is the closed set of failures the proof aggregate reports.
type DomainErrorKind string

const (
	KindNotFound           DomainErrorKind = "NOT_FOUND"
	KindUnknownStatement   DomainErrorKind = "UNKNOWN_STATEMENT"
	KindUnknownArgument    DomainErrorKind = "UNKNOWN_ARGUMENT"
	KindStatementInUse     DomainErrorKind = "STATEMENT_IN_USE"
	KindPositionOutOfRange DomainErrorKind = "POSITION_OUT_OF_RANGE"
	KindCycleDetected      DomainErrorKind = "CYCLE_DETECTED"
	KindVersionConflict    DomainErrorKind = "VERSION_CONFLICT"
	KindInvalidContent     DomainErrorKind = "INVALID_CONTENT"
	KindHasChildren        DomainErrorKind = "HAS_CHILDREN"
)

// DomainError represents a typed domain failure with rich context
type DomainError struct {
	Kind       DomainErrorKind        `json:"kind"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

// NewDomainError creates a new domain error of the given kind
func NewDomainError(kind DomainErrorKind, code string, message string) *DomainError {
	return &DomainError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		Retryable:  kind == KindVersionConflict,
		StatusCode: domainErrorKindToStatusCode(kind),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Is matches on kind, and on code when the target carries one.
// This lets callers write errors.Is(err, errors.ErrCycleDetected).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

func domainErrorKindToStatusCode(kind DomainErrorKind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidContent:
		return http.StatusBadRequest
	case KindVersionConflict, KindStatementInUse, KindHasChildren:
		return http.StatusConflict
	case KindUnknownStatement, KindUnknownArgument, KindPositionOutOfRange, KindCycleDetected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is comparisons. They carry no code so they match every
// error of their kind; never mutate them.
var (
	ErrNotFound           = &DomainError{Kind: KindNotFound}
	ErrUnknownStatement   = &DomainError{Kind: KindUnknownStatement}
	ErrUnknownArgument    = &DomainError{Kind: KindUnknownArgument}
	ErrStatementInUse     = &DomainError{Kind: KindStatementInUse}
	ErrPositionOutOfRange = &DomainError{Kind: KindPositionOutOfRange}
	ErrCycleDetected      = &DomainError{Kind: KindCycleDetected}
	ErrVersionConflict    = &DomainError{Kind: KindVersionConflict}
	ErrInvalidContent     = &DomainError{Kind: KindInvalidContent}
	ErrHasChildren        = &DomainError{Kind: KindHasChildren}
)

// NewNotFound reports an unknown entity of the named resource type
func NewNotFound(resource, id string) *DomainError {
	code := strings.ToUpper(strings.ReplaceAll(resource, " ", "_")) + "_NOT_FOUND"
	return NewDomainError(KindNotFound, code, fmt.Sprintf("%s %q does not exist", resource, id)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// NewUnknownParent reports a parent node that is absent from the target tree
func NewUnknownParent(nodeID, treeID string) *DomainError {
	return NewDomainError(KindNotFound, "UNKNOWN_PARENT",
		fmt.Sprintf("parent node %q does not exist in tree %q", nodeID, treeID)).
		WithDetail("parent_node_id", nodeID).
		WithDetail("tree_id", treeID)
}

// NewUnknownStatement reports a statement reference missing from the registry
func NewUnknownStatement(id string) *DomainError {
	return NewDomainError(KindUnknownStatement, "UNKNOWN_STATEMENT",
		fmt.Sprintf("statement %q is not registered", id)).
		WithDetail("statement_id", id)
}

// NewUnknownArgument reports an argument reference missing from the registry
func NewUnknownArgument(id string) *DomainError {
	return NewDomainError(KindUnknownArgument, "UNKNOWN_ARGUMENT",
		fmt.Sprintf("argument %q is not registered", id)).
		WithDetail("argument_id", id)
}

// NewStatementInUse reports an attempt to delete a referenced statement
func NewStatementInUse(id string, usageCount int) *DomainError {
	return NewDomainError(KindStatementInUse, "STATEMENT_IN_USE",
		fmt.Sprintf("statement %q is referenced by %d argument position(s)", id, usageCount)).
		WithDetail("statement_id", id).
		WithDetail("usage_count", usageCount)
}

// NewPositionOutOfRange reports a premise or conclusion index outside its sequence
func NewPositionOutOfRange(field string, position, length int) *DomainError {
	return NewDomainError(KindPositionOutOfRange, "POSITION_OUT_OF_RANGE",
		fmt.Sprintf("%s %d is outside [0, %d)", field, position, length)).
		WithDetail("field", field).
		WithDetail("position", position).
		WithDetail("length", length)
}

// NewCycleDetected reports the argument path that would close a cycle
func NewCycleDetected(treeID string, path []string) *DomainError {
	return NewDomainError(KindCycleDetected, "CYCLE_DETECTED",
		fmt.Sprintf("attachment would create a cycle in tree %q: %s", treeID, strings.Join(path, " -> "))).
		WithDetail("tree_id", treeID).
		WithDetail("path", path)
}

// NewVersionConflict reports a command issued against a stale version
func NewVersionConflict(expected, actual int) *DomainError {
	return NewDomainError(KindVersionConflict, "VERSION_CONFLICT",
		fmt.Sprintf("expected version %d but document is at version %d", expected, actual)).
		WithDetail("expected_version", expected).
		WithDetail("actual_version", actual)
}

// NewInvalidContent reports text that fails the content rules
func NewInvalidContent(message string) *DomainError {
	return NewDomainError(KindInvalidContent, "INVALID_CONTENT", message)
}

// NewHasChildren reports an entity that still owns dependents
func NewHasChildren(resource, id string, count int) *DomainError {
	return NewDomainError(KindHasChildren, "HAS_CHILDREN",
		fmt.Sprintf("%s %q still has %d dependent(s)", resource, id, count)).
		WithDetail("resource", resource).
		WithDetail("id", id).
		WithDetail("count", count)
}

// GetDomainError extracts a DomainError from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// KindOf returns the domain error kind in err's chain, or "" when there is none
func KindOf(err error) DomainErrorKind {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Kind
	}
	return ""
}
