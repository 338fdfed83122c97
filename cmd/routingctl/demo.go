// File: demo.go
// Role: a small deterministic grid network routingctl ingests on every
// invocation, standing in for a real data feed.

package main

import (
	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/graphtile"
)

const (
	demoZoom    uint8   = 14
	gridSize    int     = 5
	gridSpacing float64 = 0.0008
)

// gridSource streams an N x N lattice of vertices (row-major) and the
// edges connecting each vertex to its right and below neighbors, the
// simplest deterministic fixture that still has more than one route
// between opposite corners.
type gridSource struct {
	n          int
	spacing    float64
	vi, ei     int
	edgeHops   [][2]int
}

func newGridSource(n int, spacing float64) *gridSource {
	s := &gridSource{n: n, spacing: spacing}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			idx := row*n + col
			if col+1 < n {
				s.edgeHops = append(s.edgeHops, [2]int{idx, idx + 1})
			}
			if row+1 < n {
				s.edgeHops = append(s.edgeHops, [2]int{idx, idx + n})
			}
		}
	}

	return s
}

func (s *gridSource) NextVertex() (lon, lat float64, ok bool, err error) {
	total := s.n * s.n
	if s.vi >= total {
		return 0, 0, false, nil
	}
	row, col := s.vi/s.n, s.vi%s.n
	s.vi++

	return float64(col) * s.spacing, float64(row) * s.spacing, true, nil
}

func (s *gridSource) NextEdge() (v1, v2 int, shape []graphtile.LonLat, attrs attrbag.Bag, ok bool, err error) {
	if s.ei >= len(s.edgeHops) {
		return 0, 0, nil, nil, false, nil
	}
	hop := s.edgeHops[s.ei]
	s.ei++

	return hop[0], hop[1], nil, attrbag.Bag{{Key: "highway", Value: "residential"}}, true, nil
}

// vertexIndex returns the (lon, lat) of grid cell (row, col) — used to
// compute the default source/target flag values (opposite grid corners)
// when the caller doesn't override them.
func vertexIndex(n int, spacing float64, row, col int) (lon, lat float64) {
	return float64(col) * spacing, float64(row) * spacing
}
