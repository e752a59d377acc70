package errors

import "errors"

// StoreError wraps a failure from the underlying document store together
// with the name of the failing store operation. Every error that escapes
// the store adapter is either ErrTaskNotFound or a *StoreError; raw driver
// errors never cross the adapter boundary.
type StoreError struct {
	// Op is the store operation that failed (e.g. "save", "get-descendants").
	Op string

	// Err is the underlying cause.
	Err error
}

// NewStoreError wraps err with the failing operation name.
// It returns nil if err is nil, allowing for safe inline usage.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return "store operation " + e.Op + " failed: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err is (or wraps) a store failure and, if
// so, returns the failing operation name.
func IsStoreError(err error) (string, bool) {
	var e *StoreError
	if errors.As(err, &e) {
		return e.Op, true
	}
	return "", false
}
