package types

import "errors"

// Engine errors. Locate operations report ErrNotFound as an expected outcome;
// callers branch on it with errors.Is rather than treating it as a failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrAllocation   = errors.New("allocation failed")
	ErrShortWrite   = errors.New("short write")
	ErrLineTooLong  = errors.New("line exceeds maximum length")
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidValue = errors.New("invalid value")
	ErrDetached     = errors.New("node is detached from its file")
	ErrClosed       = errors.New("file is closed")
	ErrExists       = errors.New("file already exists")
)

// Index errors.
var (
	ErrIndexClosed = errors.New("index is closed")
)
