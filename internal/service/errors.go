package service

import "errors"

var (
	// ErrModelNotFound is returned when a model id is unknown to the source.
	ErrModelNotFound = errors.New("model not found")
	// ErrSuperseded is returned when a model selection finished after a newer
	// selection had started; its result was discarded.
	ErrSuperseded = errors.New("selection superseded by a newer one")
	// ErrNoSelection is returned by trim changes before any model was selected.
	ErrNoSelection = errors.New("no model selected")
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
)
