package kg

import "errors"

var (
	// ErrLoad indicates the graph artifact is missing or structurally
	// invalid. It is fatal: the process must not serve queries without a
	// fully validated store.
	ErrLoad = errors.New("invalid graph artifact")

	// ErrUnknownOperation indicates a request named an operation outside
	// the fixed query set. It is surfaced explicitly so that callers can
	// tell a malformed request apart from an empty result.
	ErrUnknownOperation = errors.New("unknown operation")
)
