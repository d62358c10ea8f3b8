package tracer

import "errors"

// Sentinel errors distinguishing the fatal-startup conditions named in
// spec.md §6 one-for-one; cmd/tracestats maps each to its own exit code.
var (
	ErrNotFound          = errors.New("apitrace executable not found")
	ErrInvalidPath       = errors.New("apitrace path is not a regular file")
	ErrVersionTooOld     = errors.New("apitrace version is older than 12.0")
	ErrVersionUnparsable = errors.New("apitrace version output could not be parsed")
	ErrInvocationFailed  = errors.New("apitrace invocation failed")
	ErrDecompressFailed  = errors.New("trace decompression failed")
)
