package stack

import "errors"

// Errors returned by stack operations. The blocking, view and worksteal
// packages return these same values, so errors.Is() works across the whole
// module.
var (
	// ErrEmpty indicates the stack had no entries.
	ErrEmpty = errors.New("stack was empty")
	// ErrFull indicates the stack reached its capacity and no entries can be
	// added until a Pop() occurs.
	ErrFull = errors.New("stack has reached its capacity")
	// ErrFrozen indicates the stack has been frozen and cannot be mutated.
	ErrFrozen = errors.New("stack is frozen")
	// ErrClosed indicates the stack was closed while waiting for data.
	ErrClosed = errors.New("stack is closed")
	// ErrIndexOutOfBounds indicates an offset or index resolved outside the
	// stack's live elements.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	// ErrKeyNotFound indicates the key does not map to a live element.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyRequired indicates an operation on a Hash perspective was missing
	// its key.
	ErrKeyRequired = errors.New("hash perspective requires a key")
	// ErrTimeout indicates a blocking take gave up waiting for data.
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled is reserved for a future cancellation mechanism. No
	// operation currently returns it.
	ErrCancelled = errors.New("operation cancelled")
)
