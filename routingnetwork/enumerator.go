// File: enumerator.go
// Role: EdgeEnumerator, the positionable accessor snap/ and dijkstra/ use to
// read an edge's cost-relevant fields without holding a *graphtile.GraphTile
// reference themselves, plus OutgoingEdges, the per-vertex adjacency view
// edge-based search relaxes over.

package routingnetwork

import (
	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/graphtile"
)

// OutEdge is one edge incident to a vertex, from that vertex's point of
// view: Other is the vertex at the far end, and Forward records whether
// leaving the query vertex along this edge means traversing it From->To
// (true) or To->From (false) — the direction-aware bit edge-based Dijkstra
// needs to pick the right per-direction cost.
type OutEdge struct {
	EdgeID  graphtile.EdgeId
	Other   graphtile.VertexId
	Forward bool
}

// OutgoingEdges returns every edge incident to v, tagged with the direction
// leaving v along that edge represents.
func (n *RoutingNetwork) OutgoingEdges(v graphtile.VertexId) []OutEdge {
	tile, ok := n.Tile(v.TileID)
	if !ok {
		return nil
	}
	edges := tile.AdjacentEdges(v)
	out := make([]OutEdge, 0, len(edges))
	for _, e := range edges {
		if e.From == v {
			// A mirror record (canonical id owned by another tile) stores
			// its local endpoint as From, which is the canonical To.
			out = append(out, OutEdge{EdgeID: e.ID, Other: e.To, Forward: e.ID.TileID == v.TileID})
			continue
		}
		out = append(out, OutEdge{EdgeID: e.ID, Other: e.From, Forward: false})
	}

	return out
}

// EdgeEnumerator is a reusable, positionable view onto one edge record at a
// time: a small cursor handed to callers instead of a fresh allocation per
// lookup, the same reuse discipline dijkstra's per-search state follows.
type EdgeEnumerator struct {
	net     *RoutingNetwork
	tile    *graphtile.GraphTile
	edge    graphtile.Edge
	forward bool
	ok      bool
}

// GetEdgeEnumerator returns an unpositioned EdgeEnumerator over n. Call
// MoveTo before reading any accessor.
func (n *RoutingNetwork) GetEdgeEnumerator() *EdgeEnumerator { return &EdgeEnumerator{net: n} }

// MoveTo repositions the enumerator onto id in its From->To direction,
// returning false (and leaving the enumerator unpositioned) if id's tile
// isn't resident or id doesn't exist in it.
func (e *EdgeEnumerator) MoveTo(id graphtile.EdgeId) bool {
	return e.MoveToDirected(id, true)
}

// MoveToDirected repositions the enumerator onto id the way MoveTo does,
// additionally recording which direction the edge is being considered in:
// forward=true for From->To, forward=false for To->From. The cost
// callback reads this back via Forward to price one-way edges
// correctly, since the same edge record serves both directions of travel.
func (e *EdgeEnumerator) MoveToDirected(id graphtile.EdgeId, forward bool) bool {
	tile, ok := e.net.Tile(id.TileID)
	if !ok {
		e.ok = false
		return false
	}
	edge, err := tile.EdgeAt(id.LocalID)
	if err != nil {
		e.ok = false
		return false
	}
	e.tile = tile
	e.edge = edge
	e.forward = forward
	e.ok = true

	return true
}

// Forward reports the direction the enumerator was last positioned in:
// true for From->To, false for To->From.
func (e *EdgeEnumerator) Forward() bool { return e.forward }

// Valid reports whether the enumerator is currently positioned on an edge.
func (e *EdgeEnumerator) Valid() bool { return e.ok }

// EdgeID returns the positioned edge's canonical id.
func (e *EdgeEnumerator) EdgeID() graphtile.EdgeId { return e.edge.ID }

// From returns the positioned edge's From endpoint.
func (e *EdgeEnumerator) From() graphtile.VertexId { return e.edge.From }

// To returns the positioned edge's To endpoint.
func (e *EdgeEnumerator) To() graphtile.VertexId { return e.edge.To }

// EdgeTypeID returns the positioned edge's classified edge-type id, if any.
func (e *EdgeEnumerator) EdgeTypeID() (uint32, bool) {
	if e.edge.EdgeTypeID == nil {
		return 0, false
	}

	return *e.edge.EdgeTypeID, true
}

// LengthCM returns the positioned edge's length in centimetres, if set.
func (e *EdgeEnumerator) LengthCM() (uint32, bool) {
	if e.edge.LengthCM == nil {
		return 0, false
	}

	return *e.edge.LengthCM, true
}

// Attributes returns the positioned edge's full attribute bag, or nil if it
// carries none.
func (e *EdgeEnumerator) Attributes() attrbag.Bag {
	if e.edge.AttrPtr == nil {
		return nil
	}

	return e.tile.ReadAttrs(*e.edge.AttrPtr)
}

// Shape returns the positioned edge's shape geometry, or nil if it carries
// none.
func (e *EdgeEnumerator) Shape() []graphtile.LonLat {
	if e.edge.ShapePtr == nil {
		return nil
	}

	return e.tile.ReadShape(*e.edge.ShapePtr)
}

// CrossTile reports whether the positioned edge's endpoints span two tiles.
func (e *EdgeEnumerator) CrossTile() bool { return e.edge.CrossTile }

// TurnCost looks up the registered turn-cost matrix entry for turning from
// fromEdge to toEdge through viaVertex under turnCostType. viaVertex
// may belong to a different tile than the positioned edge (the turn sits
// at the far endpoint of a cross-tile edge), so this fetches its own tile
// directly rather than reusing the enumerator's positioned one.
func (e *EdgeEnumerator) TurnCost(turnCostType uint32, viaVertex graphtile.VertexId, fromEdge, toEdge graphtile.EdgeId) (float64, bool) {
	tile, ok := e.net.Tile(viaVertex.TileID)
	if !ok {
		return 0, false
	}

	return tile.TurnCost(viaVertex, turnCostType, fromEdge, toEdge)
}
