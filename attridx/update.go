// File: update.go
// Role: the attribute-set index's tile-rewrite entry point.

package attridx

import "github.com/mikelor/routing2/graphtile"

// Update rewrites tile's edge_type_id column through idx, equivalent to
// tile.ApplyEdgeTypeFn(idx). It is the public entry point callers use
// instead of reaching into graphtile directly, keeping "which index last
// classified this tile" visible at the call site.
func (idx *Index) Update(tile *graphtile.GraphTile) *graphtile.GraphTile {
	return tile.ApplyEdgeTypeFn(idx)
}
