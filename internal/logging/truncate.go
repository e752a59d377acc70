// Package logging provides logging utilities for grove.
// This package contains helpers for zerolog that keep log entries compact
// when they carry user-authored task text.
package logging

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// MaxLoggedTextLength is the maximum number of runes of task text written
// to a single log field. Task text can be up to 500 characters; full values
// belong in the store, not in every log line.
const MaxLoggedTextLength = 120

// TruncationMarker is appended to truncated text values.
const TruncationMarker = "..."

// SafeText returns task text prepared for logging: newlines collapsed to
// spaces and the value truncated to MaxLoggedTextLength runes.
//
// Usage:
//
//	logger.Info().Str("text", logging.SafeText(task.Text)).Msg("task created")
func SafeText(text string) string {
	return TruncateTo(flatten(text), MaxLoggedTextLength)
}

// TruncateTo shortens a string to at most limit runes, appending the
// truncation marker when anything was cut. Length is measured in runes so
// multi-byte text is never split mid-character.
func TruncateTo(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit]) + TruncationMarker
}

// flatten collapses newlines and tabs so a multi-line task text stays a
// single log field value.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TextHook is a zerolog hook that marks entries carrying oversized text.
// Zerolog hooks cannot modify fields, so truncation itself happens at call
// sites via SafeText; the hook flags messages that slipped through.
type TextHook struct{}

// NewTextHook creates a TextHook.
func NewTextHook() *TextHook {
	return &TextHook{}
}

// Run implements the zerolog.Hook interface.
func (h *TextHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if utf8.RuneCountInString(msg) > MaxLoggedTextLength {
		e.Bool("oversized_message", true)
	}
}
