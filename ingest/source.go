// File: source.go
// Role: Source, the stream-producer contract Run drives, plus the
// caller-supplied tag filter and elevation callback it consults per record.

package ingest

import (
	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/graphtile"
)

// Source yields a topologically-ordered stream of vertex records followed
// by edge records: every vertex an edge references must already have been
// returned by NextVertex before that edge is returned by NextEdge.
//
// NextVertex returns ok=false once the vertex stream is exhausted; Run then
// starts calling NextEdge. Implementations that interleave vertices and
// edges in a single underlying feed should buffer vertices internally and
// only signal ok=false for NextVertex once all of them have been drained.
//
// v1 and v2 in NextEdge are 0-based indices into the sequence NextVertex
// produced, in arrival order — the only vertex identifier this contract
// needs, since the core itself assigns VertexIds on write.
type Source interface {
	NextVertex() (lon, lat float64, ok bool, err error)
	NextEdge() (v1, v2 int, shape []graphtile.LonLat, attrs attrbag.Bag, ok bool, err error)
}

// TagFilter reports whether the (key, value) pair should be kept on an
// edge's attribute bag. A nil TagFilter passed to Run keeps every pair.
type TagFilter func(key, value string) bool

// ElevationFn returns the elevation in meters at (lon, lat), and ok=false
// if no elevation data covers that point. A nil ElevationFn passed to Run
// disables grade tagging entirely.
type ElevationFn func(lon, lat float64) (meters float64, ok bool)

func filterAttrs(attrs attrbag.Bag, filter TagFilter) attrbag.Bag {
	if filter == nil || attrs == nil {
		return attrs
	}
	out := make(attrbag.Bag, 0, len(attrs))
	for _, p := range attrs {
		if filter(p.Key, p.Value) {
			out = append(out, p)
		}
	}

	return out
}
