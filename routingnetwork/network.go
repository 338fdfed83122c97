// File: network.go
// Role: RoutingNetwork, the immutable snapshot RouterDb publishes, plus the
// demand-load TileProvider hook and the vertex-in-box search surface
// snap/ and dijkstra/ build on.

package routingnetwork

import (
	"strconv"

	"github.com/mikelor/routing2/attridx"
	"github.com/mikelor/routing2/graphtile"
	"golang.org/x/sync/singleflight"
)

// TileProvider demand-loads a tile the network doesn't hold resident. The
// core never caches what it returns — providers decide cache policy —
// only concurrent callers asking for the same tile are collapsed into one
// call, via the network's singleflight.Group.
type TileProvider func(tileID uint32) (*graphtile.GraphTile, bool)

// RoutingNetwork is a value: a sparse set of tiles at a fixed zoom plus the
// edge-type and turn-cost attribute indices that classify them. It never
// mutates after construction; GraphWriter mutates a live network's tiles
// directly (single in-place edit session), GraphMutator builds a new one on
// Commit.
type RoutingNetwork struct {
	zoom  uint8
	tiles map[uint32]*graphtile.GraphTile

	edgeTypeIndex *attridx.Index
	turnCostIndex *attridx.Index

	provider  TileProvider
	loadGroup *singleflight.Group
}

func newEmptyNetwork(zoom uint8) *RoutingNetwork {
	return &RoutingNetwork{
		zoom:          zoom,
		tiles:         make(map[uint32]*graphtile.GraphTile),
		edgeTypeIndex: attridx.New(nil),
		turnCostIndex: attridx.New(nil),
		loadGroup:     &singleflight.Group{},
	}
}

// Zoom returns the network's fixed tile zoom level.
func (n *RoutingNetwork) Zoom() uint8 { return n.zoom }

// EdgeTypeIndex returns the index currently classifying this network's
// edge_type_id column.
func (n *RoutingNetwork) EdgeTypeIndex() *attridx.Index { return n.edgeTypeIndex }

// TurnCostIndex returns the index currently classifying this network's turn
// restriction types.
func (n *RoutingNetwork) TurnCostIndex() *attridx.Index { return n.turnCostIndex }

// WithProvider returns a shallow copy of n with provider installed as its
// demand-load hook. Call once, right after construction; RouterDb doesn't
// expose a way to change the provider of an already-published network.
func (n *RoutingNetwork) WithProvider(provider TileProvider) *RoutingNetwork {
	clone := *n
	clone.provider = provider
	clone.loadGroup = &singleflight.Group{}

	return &clone
}

// Tile returns the resident or demand-loaded tile for tileID. Resident tiles
// are returned directly; a miss with no provider configured reports
// ok=false without invoking anything.
func (n *RoutingNetwork) Tile(tileID uint32) (*graphtile.GraphTile, bool) {
	if t, ok := n.tiles[tileID]; ok {
		return t, true
	}
	if n.provider == nil {
		return nil, false
	}

	v, err, _ := n.loadGroup.Do(strconv.FormatUint(uint64(tileID), 10), func() (interface{}, error) {
		t, ok := n.provider(tileID)
		if !ok {
			return nil, ErrTileUnavailable
		}

		return t, nil
	})
	if err != nil {
		return nil, false
	}

	return v.(*graphtile.GraphTile), true
}

// TileIDs returns the ids of every tile resident in the network (demand-
// loaded tiles not yet fetched are not included), in ascending order for
// deterministic iteration.
func (n *RoutingNetwork) TileIDs() []uint32 {
	ids := make([]uint32, 0, len(n.tiles))
	for id := range n.tiles {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	return ids
}

// Box is an axis-aligned longitude/latitude rectangle used by
// search_vertices_in_box and the snapping candidate scan.
type Box struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Contains reports whether (lon, lat) falls within b, inclusive of its
// edges.
func (b Box) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// Overlaps reports whether b and other share any area.
func (b Box) Overlaps(other Box) bool {
	return b.MinLon <= other.MaxLon && b.MaxLon >= other.MinLon &&
		b.MinLat <= other.MaxLat && b.MaxLat >= other.MinLat
}

// VertexHit is one result of SearchVerticesInBox: a resident vertex and its
// dequantized coordinate.
type VertexHit struct {
	ID       graphtile.VertexId
	Lon, Lat float64
}

// SearchVerticesInBox returns every resident vertex whose coordinate falls
// within box, scanning only tiles whose own bounding box overlaps it.
func (n *RoutingNetwork) SearchVerticesInBox(box Box) []VertexHit {
	var hits []VertexHit
	for _, tileID := range n.TileIDs() {
		tile := n.tiles[tileID]
		minLon, minLat, maxLon, maxLat := tile.Bounds()
		tileBox := Box{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
		if !box.Overlaps(tileBox) {
			continue
		}
		for local := 0; local < tile.NumVertices(); local++ {
			v := graphtile.VertexId{TileID: tileID, LocalID: uint32(local)}
			lon, lat, ok := tile.TryGetVertex(v)
			if !ok || !box.Contains(lon, lat) {
				continue
			}
			hits = append(hits, VertexHit{ID: v, Lon: lon, Lat: lat})
		}
	}

	return hits
}

// EdgesInBox returns every edge (as seen from its From tile) with at least
// one endpoint whose coordinate falls within box, deduplicated by canonical
// EdgeId so a cross-tile edge is reported once. A cross-tile edge found
// through its mirror record is reported as its canonical record; it is left
// out if the canonical tile cannot be obtained.
func (n *RoutingNetwork) EdgesInBox(box Box) []graphtile.Edge {
	seen := make(map[graphtile.EdgeId]bool)
	var out []graphtile.Edge
	for _, hit := range n.SearchVerticesInBox(box) {
		tile, ok := n.Tile(hit.ID.TileID)
		if !ok {
			continue
		}
		for _, e := range tile.AdjacentEdges(hit.ID) {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			if e.ID.TileID != hit.ID.TileID {
				canonicalTile, ok := n.Tile(e.ID.TileID)
				if !ok {
					continue
				}
				canonical, err := canonicalTile.EdgeAt(e.ID.LocalID)
				if err != nil {
					continue
				}
				e = canonical
			}
			out = append(out, e)
		}
	}

	return out
}
