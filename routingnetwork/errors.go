package routingnetwork

import "errors"

// ErrInvalidState indicates a GetWriter/GetMutator call while a writer or
// mutator is already live, or a Commit on a mutator that was already
// committed or discarded.
var ErrInvalidState = errors.New("routingnetwork: invalid lifecycle state")

// ErrTileUnavailable indicates a configured TileProvider returned ok=false
// for a requested tile.
var ErrTileUnavailable = errors.New("routingnetwork: tile unavailable")
