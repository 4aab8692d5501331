package snapshot

import (
	"errors"
	"fmt"
)

// Fatal data-invariant violations: these stop Initialize.
var (
	ErrInvalidToNodeIndex    = errors.New("snapshot: edge target is not aligned to the node field count")
	ErrClassIndexOverflow    = errors.New("snapshot: class index overflows the 30-bit packed field")
	ErrTooManyNodesForOwners = errors.New("snapshot: node count too large for shallow-size reassignment")
)

// Caller errors: returned to the caller, state unchanged.
var (
	ErrUnknownFilter    = errors.New("snapshot: unknown named filter")
	ErrWindowOutOfRange = errors.New("snapshot: requested window is out of range")
	ErrUnknownSnapshot  = errors.New("snapshot: unknown snapshot id")
	ErrUnknownClass     = errors.New("snapshot: unknown class name")
	ErrAlreadyConsumed  = errors.New("snapshot: Input was already consumed by a prior Initialize call")
)

// fatalf wraps a sentinel fatal error with positional context.
func fatalf(sentinel error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, sentinel)...)
}
