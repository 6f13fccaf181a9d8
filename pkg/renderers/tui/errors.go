package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNilDefinition is returned by New without a form definition.
	ErrNilDefinition = errors.New("tui: definition is nil")
)
