// Package errors provides centralized error handling for grove.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTaskText indicates task text that is empty or exceeds the
	// maximum length.
	ErrInvalidTaskText = errors.New("invalid task text")

	// ErrInvalidTaskID indicates an identifier that is not UUID-shaped.
	ErrInvalidTaskID = errors.New("invalid task id")

	// ErrInvalidTaskPath indicates a materialized path that violates its
	// invariants (empty, or last element differs from the task id).
	ErrInvalidTaskPath = errors.New("invalid task path")

	// ErrInvalidStateTransition indicates an attempt to make a state
	// transition the state machine rejects.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrConstraintViolation indicates a structural invariant would be
	// broken. More specific constraint errors wrap this sentinel so
	// callers can match either the category or the exact violation.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrCannotMoveRoot indicates an attempt to move the sentinel root task.
	ErrCannotMoveRoot = constraintError("cannot-move-root")

	// ErrCannotDeleteRoot indicates an attempt to delete the sentinel root task.
	ErrCannotDeleteRoot = constraintError("cannot-delete-root")

	// ErrCircularReference indicates an attempt to move a task into its
	// own subtree.
	ErrCircularReference = constraintError("circular-reference")

	// ErrYAMLParse indicates malformed YAML text on import.
	ErrYAMLParse = errors.New("yaml parse error")

	// ErrYAMLValidation indicates well-formed YAML whose shape is invalid
	// for the task edit surface (missing or non-string text, unknown
	// state, bad due date).
	ErrYAMLValidation = errors.New("yaml validation error")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrWatchClosed indicates an operation on a canceled change-feed
	// subscription.
	ErrWatchClosed = errors.New("subscription canceled")

	// ErrInvalidDueDate indicates a due date that is not a valid
	// YYYY-MM-DD value.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrConfigNotFound indicates that the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates a configuration value outside the allowed set.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// constraintError builds a named constraint violation that wraps
// ErrConstraintViolation, so both errors.Is(err, ErrCannotMoveRoot) and
// errors.Is(err, ErrConstraintViolation) hold.
func constraintError(name string) error {
	return &wrappedConstraint{name: name}
}

// wrappedConstraint is a named constraint violation.
type wrappedConstraint struct {
	name string
}

// Error implements the error interface.
func (e *wrappedConstraint) Error() string {
	return e.name + ": " + ErrConstraintViolation.Error()
}

// Unwrap returns the constraint violation category sentinel.
func (e *wrappedConstraint) Unwrap() error {
	return ErrConstraintViolation
}
