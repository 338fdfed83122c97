// File: ids.go
// Role: VertexId/EdgeId identifiers, tile id/zoom conventions, and the
// mirror-record local-id boundary.
// Determinism: pure value types and arithmetic; no hidden state.

package graphtile

import "math"

// MinCrossID is the smallest local id used by a mirror record. Local ids
// below MinCrossID belong to edges whose canonical record lives in this
// tile; local ids at or above MinCrossID are mirror records whose canonical
// id belongs to a neighbouring tile.
const MinCrossID uint32 = math.MaxUint32 / 2

// emptyID is the sentinel local/tile value shared by VertexId.Empty and
// EdgeId.Empty.
const emptyID uint32 = math.MaxUint32

// VertexId identifies a vertex by the tile that owns it and its index
// within that tile.
type VertexId struct {
	TileID  uint32
	LocalID uint32
}

// EmptyVertexId is the sentinel "no vertex" value.
var EmptyVertexId = VertexId{TileID: emptyID, LocalID: emptyID}

// IsEmpty reports whether v is the sentinel EmptyVertexId.
func (v VertexId) IsEmpty() bool { return v == EmptyVertexId }

// Encode packs v into a u64 as (tile_id << 32) | local_id.
func (v VertexId) Encode() uint64 {
	return uint64(v.TileID)<<32 | uint64(v.LocalID)
}

// DecodeVertexId inverts VertexId.Encode.
func DecodeVertexId(u uint64) VertexId {
	return VertexId{TileID: uint32(u >> 32), LocalID: uint32(u)}
}

// EdgeId identifies an edge by the tile holding its canonical record and its
// index within that tile. Edges with LocalID >= MinCrossID are mirror
// records; see MinCrossID.
type EdgeId struct {
	TileID  uint32
	LocalID uint32
}

// EmptyEdgeId is the sentinel "no edge" value.
var EmptyEdgeId = EdgeId{TileID: emptyID, LocalID: emptyID}

// IsEmpty reports whether e is the sentinel EmptyEdgeId.
func (e EdgeId) IsEmpty() bool { return e == EmptyEdgeId }

// IsMirror reports whether e's local id falls in the mirror-record range.
func (e EdgeId) IsMirror() bool { return e.LocalID >= MinCrossID }

// Encode packs e into a u64 as (tile_id << 32) | local_id.
func (e EdgeId) Encode() uint64 {
	return uint64(e.TileID)<<32 | uint64(e.LocalID)
}

// DecodeEdgeId inverts EdgeId.Encode.
func DecodeEdgeId(u uint64) EdgeId {
	return EdgeId{TileID: uint32(u >> 32), LocalID: uint32(u)}
}

// TileID computes the slippy-map tile id of tile (x, y) at the given zoom:
// local id = y*2^zoom + x.
func TileID(zoom uint8, x, y uint32) uint32 {
	n := uint32(1) << zoom
	return y*n + x
}

// TileXY inverts TileID for a given zoom.
func TileXY(zoom uint8, tileID uint32) (x, y uint32) {
	n := uint32(1) << zoom
	return tileID % n, tileID / n
}
