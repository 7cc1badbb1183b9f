package core

import "errors"

// Error kinds surfaced by the engine and its adapters.
var (
	// ErrDecodeFailure marks a document whose content cannot be read as text.
	ErrDecodeFailure = errors.New("document is not valid text")
	// ErrTitleCollision marks a title claimed by more than one document.
	ErrTitleCollision = errors.New("title collision")
	// ErrBoundaryViolation marks a span that is out of range or splits a code point.
	ErrBoundaryViolation = errors.New("span is not on a text boundary")
	// ErrStaleOffset marks a candidate whose offsets no longer point at its matched text.
	// It is an internal-consistency failure and stops the run.
	ErrStaleOffset = errors.New("stale candidate offset")
	// ErrPersistence wraps write-back failures.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotFound is returned by adapters when a document ID does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrReadOnly is returned by adapters that refuse writes.
	ErrReadOnly = errors.New("repository is in read-only mode")
	// ErrAborted is returned when a review run is abandoned before every candidate was decided.
	ErrAborted = errors.New("review aborted")
)
