// File: geo.go
// Role: slippy-map tile <-> lon/lat conversion, and the per-tile 24-bit
// fixed-point vertex coordinate quantization.
// Determinism: pure math, no hidden state.

package graphtile

import "math"

// quantCells is the number of distinct grid cells per axis a vertex
// coordinate is quantized to within its owning tile (2^12 - 1).
const quantCells = 1<<12 - 1

// coordWidth is the byte width of each stored fixed-point axis (24 bits).
const coordWidth = 3

// TileBounds returns the geographic bounding box (minLon, minLat, maxLon,
// maxLat) of the slippy-map tile identified by tileID at the given zoom,
// using the standard Web Mercator slippy-map projection.
func TileBounds(zoom uint8, tileID uint32) (minLon, minLat, maxLon, maxLat float64) {
	x, y := TileXY(zoom, tileID)
	n := float64(uint32(1) << zoom)

	minLon = float64(x)/n*360.0 - 180.0
	maxLon = float64(x+1)/n*360.0 - 180.0
	maxLat = mercatorLat(float64(y) / n)
	minLat = mercatorLat(float64(y+1) / n)

	return minLon, minLat, maxLon, maxLat
}

func mercatorLat(fracY float64) float64 {
	yRad := math.Pi * (1 - 2*fracY)
	return 180.0 / math.Pi * math.Atan(math.Sinh(yRad))
}

// TileIDForLonLat returns the tile id owning (lon, lat) at the given zoom.
func TileIDForLonLat(zoom uint8, lon, lat float64) uint32 {
	n := float64(uint32(1) << zoom)
	x := uint32((lon + 180.0) / 360.0 * n)
	latRad := lat * math.Pi / 180.0
	y := uint32((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n)

	return TileID(zoom, x, y)
}

// quantizeAxis maps coord (within [lo, hi]) onto [0, quantCells], clamping
// out-of-range input to the nearest edge.
func quantizeAxis(coord, lo, hi float64) uint32 {
	if hi <= lo {
		return 0
	}
	frac := (coord - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	return uint32(math.Round(frac * quantCells))
}

// dequantizeAxis inverts quantizeAxis.
func dequantizeAxis(cell uint32, lo, hi float64) float64 {
	return lo + float64(cell)/quantCells*(hi-lo)
}
