// Package engineerr defines the error taxonomy used across the engine: a
// single tagged Error type carrying a Kind, rather than one Go type per
// failure mode, so the scheduler and CLI can classify failures with
// errors.Is/errors.As instead of string matching.
package engineerr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error. See spec §7.
type Kind string

const (
	KindPlanParse        Kind = "plan_parse"
	KindPlanValidation   Kind = "plan_validation"
	KindRegistry         Kind = "registry"
	KindExpression       Kind = "expression"
	KindPredicate        Kind = "predicate"
	KindOperator         Kind = "operator"
	KindDeadlineExceeded Kind = "deadline_exceeded"
	KindCancelled        Kind = "cancelled"
	KindInternal         Kind = "internal"
)

// Error is the engine's single error type, tagged with a Kind.
type Error struct {
	Kind    Kind
	NodeID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: node %s: %s", e.Kind, e.NodeID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func ForNode(kind Kind, nodeID, message string) *Error {
	return &Error{Kind: kind, NodeID: nodeID, Message: message}
}

func WrapForNode(kind Kind, nodeID string, cause error, message string) *Error {
	return &Error{Kind: kind, NodeID: nodeID, Message: message, Cause: cause}
}

// KindOf extracts the Kind of err, if it (or something it wraps) is an
// *Error. Returns (KindInternal, false) otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindInternal, false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
