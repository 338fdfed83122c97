// File: snap.go
// Role: SnapInBox/SnapAllInBox, nearest-edge projection with a
// lazily-cached acceptability predicate and a 1-meter early stop.

package snap

import (
	"math"

	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/routingnetwork"
)

// exactTolerance is the distance, in meters, below which a candidate is
// treated as good enough to stop scanning further edges.
const exactTolerance = 1.0

// AcceptableFn reports whether a candidate edge may be snapped onto, e.g.
// rejecting edges a vehicle profile cannot traverse.
type AcceptableFn func(edge graphtile.Edge) bool

// Result is one snap candidate: the edge it landed on, its offset along
// that edge as both a raw u16 and the [0,1] fraction it encodes, the
// projected point, and the distance from the query point to it.
type Result struct {
	EdgeID         graphtile.EdgeId
	Offset         uint16
	OffsetFactor   float64
	Lon, Lat       float64
	DistanceMeters float64
	AtVertex       graphtile.VertexId // set only when Offset snapped exactly to an endpoint
}

// SnapPoint reduces r to the bare (edge, offset) handle the edge-based
// search consumes as a source or target.
func (r Result) SnapPoint() graphtile.SnapPoint {
	return graphtile.SnapPoint{EdgeID: r.EdgeID, Offset: r.Offset}
}

// Snapper is a reusable snapping cursor: it caches each edge's
// acceptability verdict the first time it is evaluated, so repeated
// SnapInBox/SnapAllInBox calls over overlapping boxes (the common pattern
// when snapping both a route's start and end point) don't re-run the
// predicate for edges already judged. Not safe for concurrent use by
// multiple goroutines; create one per search thread, matching the
// reusable-per-thread instance idiom the engine uses for edge-based search.
type Snapper struct {
	acceptableCache map[graphtile.EdgeId]bool
}

// NewSnapper returns a Snapper with an empty acceptability cache.
func NewSnapper() *Snapper {
	return &Snapper{acceptableCache: make(map[graphtile.EdgeId]bool)}
}

func (s *Snapper) acceptable(edge graphtile.Edge, fn AcceptableFn) bool {
	if v, ok := s.acceptableCache[edge.ID]; ok {
		return v
	}
	v := fn(edge)
	s.acceptableCache[edge.ID] = v

	return v
}

func polyline(net *routingnetwork.RoutingNetwork, edge graphtile.Edge) ([]graphtile.LonLat, bool) {
	fromTile, ok := net.Tile(edge.From.TileID)
	if !ok {
		return nil, false
	}
	toTile, ok := net.Tile(edge.To.TileID)
	if !ok {
		return nil, false
	}
	fromLon, fromLat, ok := fromTile.TryGetVertex(edge.From)
	if !ok {
		return nil, false
	}
	toLon, toLat, ok := toTile.TryGetVertex(edge.To)
	if !ok {
		return nil, false
	}

	points := make([]graphtile.LonLat, 0, 2)
	points = append(points, graphtile.LonLat{Lon: fromLon, Lat: fromLat})
	if edge.ShapePtr != nil {
		points = append(points, fromTile.ReadShape(*edge.ShapePtr)...)
	}
	points = append(points, graphtile.LonLat{Lon: toLon, Lat: toLat})

	return points, true
}

// snapOntoEdge projects point onto edge's full polyline, returning the best
// segment projection expressed as an offset factor along the whole edge.
func snapOntoEdge(point Point, points []graphtile.LonLat) (lon, lat, offsetFactor, distance float64) {
	segLengths := make([]float64, len(points)-1)
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		segLengths[i] = segmentLengthMeters(points[i].Lon, points[i].Lat, points[i+1].Lon, points[i+1].Lat, point.Lat)
		total += segLengths[i]
	}

	bestDistance := math.Inf(1)
	var bestLon, bestLat, bestAlong float64
	cumulative := 0.0
	for i := 0; i < len(points)-1; i++ {
		proj := projectOntoSegment(point.Lon, point.Lat, points[i].Lon, points[i].Lat, points[i+1].Lon, points[i+1].Lat, point.Lat)
		if proj.distance < bestDistance {
			bestDistance = proj.distance
			bestLon, bestLat = proj.lon, proj.lat
			bestAlong = cumulative + proj.t*segLengths[i]
		}
		cumulative += segLengths[i]
	}

	if total == 0 {
		return bestLon, bestLat, 0, bestDistance
	}

	return bestLon, bestLat, bestAlong / total, bestDistance
}

func toResult(edge graphtile.Edge, lon, lat, offsetFactor, distance float64) Result {
	offset := uint16(math.Round(offsetFactor * float64(math.MaxUint16)))
	r := Result{
		EdgeID:         edge.ID,
		Offset:         offset,
		OffsetFactor:   offsetFactor,
		Lon:            lon,
		Lat:            lat,
		DistanceMeters: distance,
	}
	switch offset {
	case 0:
		r.AtVertex = edge.From
	case math.MaxUint16:
		r.AtVertex = edge.To
	}

	return r
}

// SnapInBox returns the single best (lowest-distance) acceptable-edge
// candidate for point among the edges with at least one endpoint in box,
// stopping early once a candidate within exactTolerance meters is found.
func SnapInBox(s *Snapper, net *routingnetwork.RoutingNetwork, box routingnetwork.Box, point Point, acceptable AcceptableFn) (Result, bool) {
	var best Result
	found := false
	for _, edge := range net.EdgesInBox(box) {
		if acceptable != nil && !s.acceptable(edge, acceptable) {
			continue
		}
		points, ok := polyline(net, edge)
		if !ok {
			continue
		}
		lon, lat, offsetFactor, distance := snapOntoEdge(point, points)
		if !found || distance < best.DistanceMeters {
			best = toResult(edge, lon, lat, offsetFactor, distance)
			found = true
		}
		if found && best.DistanceMeters <= exactTolerance {
			break
		}
	}

	return best, found
}

// SnapAllInBox returns every acceptable-edge candidate for point among the
// edges with at least one endpoint in box, ordered nearest-first. When
// vertexOnly is true, candidates whose best projection landed exactly on
// an existing vertex (AtVertex set) are filtered out, keeping only snaps
// that land on a segment's interior.
func SnapAllInBox(s *Snapper, net *routingnetwork.RoutingNetwork, box routingnetwork.Box, point Point, acceptable AcceptableFn, vertexOnly bool) []Result {
	var out []Result
	for _, edge := range net.EdgesInBox(box) {
		if acceptable != nil && !s.acceptable(edge, acceptable) {
			continue
		}
		points, ok := polyline(net, edge)
		if !ok {
			continue
		}
		lon, lat, offsetFactor, distance := snapOntoEdge(point, points)
		r := toResult(edge, lon, lat, offsetFactor, distance)
		if vertexOnly && !r.AtVertex.IsEmpty() {
			continue
		}
		out = append(out, r)
	}

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].DistanceMeters > out[j].DistanceMeters; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}

	return out
}
