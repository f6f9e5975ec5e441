package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrLastSession is returned when a delete would leave no sessions.
	// Rejected locally before any network call.
	ErrLastSession = errors.New("cannot delete the last session")

	// ErrNoSession is returned when an operation needs a session id and
	// none is selected.
	ErrNoSession = errors.New("no session selected")

	// ErrNoArtifact is returned when copy/download is attempted before a
	// successful export.
	ErrNoArtifact = errors.New("no export artifact available")
)
