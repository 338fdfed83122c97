// File: errors.go
// Role: sentinel errors for the graphtile package.
// Error policy: sentinels are never wrapped with formatted strings at
// definition site; call sites attach context with fmt.Errorf("...: %w", ...).
// Callers branch with errors.Is.

package graphtile

import "errors"

// ErrNotFound indicates a referenced vertex or edge local id does not exist
// in this tile.
var ErrNotFound = errors.New("graphtile: not found")

// ErrInvalidArgument indicates a cross-tile edge was added without a
// canonical EdgeId, or an edge-type/turn-cost argument was malformed.
var ErrInvalidArgument = errors.New("graphtile: invalid argument")
