// File: errors.go
// Role: sentinel errors for the ingest package.

package ingest

import "errors"

// ErrUnknownVertex indicates an edge record referenced a vertex index that
// has not yet been produced by the source, violating the topological-order
// contract.
var ErrUnknownVertex = errors.New("ingest: edge references unknown vertex")
