// File: geo.go
// Role: point-to-polyline projection and the equirectangular distance
// approximation snapping scores candidates with.

package snap

import "math"

const metersPerDegreeLat = 111320.0

// Point is a geographic query point.
type Point struct {
	Lon, Lat float64
}

func metersPerDegreeLon(lat float64) float64 {
	return metersPerDegreeLat * math.Cos(lat*math.Pi/180.0)
}

// distanceMeters approximates the distance between two nearby lon/lat
// points via an equirectangular projection around refLat.
func distanceMeters(lon1, lat1, lon2, lat2, refLat float64) float64 {
	dx := (lon2 - lon1) * metersPerDegreeLon(refLat)
	dy := (lat2 - lat1) * metersPerDegreeLat

	return math.Hypot(dx, dy)
}

// projection is the result of projecting a point onto one polyline segment:
// the closest point on the segment, the parameter t in [0, 1] along it, and
// the distance from the query point to that closest point.
type projection struct {
	lon, lat float64
	t        float64
	distance float64
}

// projectOntoSegment returns the closest point on segment (ax,ay)-(bx,by) to
// (px,py), all in a local planar approximation scaled by metersPerDegreeLon
// so that segment length comparisons are in meters, not mixed degree units.
func projectOntoSegment(px, py, ax, ay, bx, by, refLat float64) projection {
	mpdLon := metersPerDegreeLon(refLat)
	axm, aym := ax*mpdLon, ay*metersPerDegreeLat
	bxm, bym := bx*mpdLon, by*metersPerDegreeLat
	pxm, pym := px*mpdLon, py*metersPerDegreeLat

	dx, dy := bxm-axm, bym-aym
	lengthSq := dx*dx + dy*dy
	var t float64
	if lengthSq > 0 {
		t = ((pxm-axm)*dx + (pym-aym)*dy) / lengthSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	closeLon := ax + t*(bx-ax)
	closeLat := ay + t*(by-ay)

	return projection{
		lon:      closeLon,
		lat:      closeLat,
		t:        t,
		distance: distanceMeters(px, py, closeLon, closeLat, refLat),
	}
}

// segmentLengthMeters measures one polyline segment's length.
func segmentLengthMeters(ax, ay, bx, by, refLat float64) float64 {
	return distanceMeters(ax, ay, bx, by, refLat)
}
