// File: snap.go
// Role: SnapPoint and Path, the two small value types that cross the
// boundary between the snapping component and the edge-based search
// component. Kept in graphtile, alongside VertexId/EdgeId, since
// both components treat them as part of the core data model rather than
// as package-private results of either.

package graphtile

import "math"

// SnapPoint is a point on an edge: Offset=0 sits at the edge's From
// endpoint, math.MaxUint16 at its To endpoint.
type SnapPoint struct {
	EdgeID EdgeId
	Offset uint16
}

// OffsetFactor returns Offset as a [0,1] fraction of the edge's own
// From->To direction.
func (p SnapPoint) OffsetFactor() float64 {
	return float64(p.Offset) / float64(math.MaxUint16)
}

// PathSegment is one traversed edge in a Path together with the direction
// it was walked in: Forward means the segment was traversed From->To.
type PathSegment struct {
	EdgeID  EdgeId
	Forward bool
}

// Path is an ordered sequence of edge segments connecting a source
// SnapPoint to a target SnapPoint. Consecutive segments share a
// vertex. Offset1 is measured forward along the first segment's own
// traversal direction, Offset2 likewise along the last segment's; a
// direction of false means the stored offset is the source or target's
// raw Offset inverted (math.MaxUint16 - offset).
type Path struct {
	Segments []PathSegment
	Offset1  uint16
	Offset2  uint16
}

// Empty reports whether p carries no segments at all (the zero value, or
// a search that found nothing).
func (p Path) Empty() bool { return len(p.Segments) == 0 }

// Edges returns p's segments' edge ids in traversal order.
func (p Path) Edges() []EdgeId {
	ids := make([]EdgeId, len(p.Segments))
	for i, s := range p.Segments {
		ids[i] = s.EdgeID
	}

	return ids
}
