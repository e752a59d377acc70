// Package testutil provides testing utilities for grove.
//
// This package contains mock errors and a stepping clock used across test
// files. It should only be imported by test files (*_test.go).
package testutil

import (
	"errors"
	"time"
)

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockStoreUnavailable indicates a mock task store is unavailable (used in tests).
	ErrMockStoreUnavailable = errors.New("task store unavailable")

	// ErrMockNotFound indicates a mock resource was not found (used in tests).
	ErrMockNotFound = errors.New("not found")
)

// StepClock is a Clock implementation whose time advances by a fixed step
// on every Now call, so sibling creation timestamps stay distinct and
// deterministic in tests.
type StepClock struct {
	// At is the time the next Now call returns.
	At time.Time

	// Step is how far the clock advances after each Now call. A zero
	// step makes the clock behave like a fixed clock.
	Step time.Duration
}

// NewStepClock creates a StepClock starting at the given time, advancing
// one second per Now call.
func NewStepClock(at time.Time) *StepClock {
	return &StepClock{At: at, Step: time.Second}
}

// Now returns the current mock time and advances the clock by Step.
func (c *StepClock) Now() time.Time {
	now := c.At
	c.At = c.At.Add(c.Step)
	return now
}
