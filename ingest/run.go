// File: run.go
// Role: Run, the orchestrator that drives a Writer from a Source end to
// end, following a single-entry-point orchestrator idiom of a single
// public entry point that composes a sequence of mutations against a
// caller-supplied target and aggregates every failure instead of stopping
// at the first one.

package ingest

import (
	"fmt"
	"strconv"

	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/internal/obslog"
	"go.uber.org/multierr"
)

// Writer is the surface Run drives: AddVertex/AddEdge/AddTurnCost, the
// same three operations the core exposes as its write entry
// points. *routingnetwork.GraphWriter and *routingnetwork.GraphMutator
// both satisfy it.
type Writer interface {
	AddVertex(tileID uint32, lon, lat float64) graphtile.VertexId
	AddEdge(v1, v2 graphtile.VertexId, shape []graphtile.LonLat, attrs attrbag.Bag, edgeTypeID *uint32, lengthCM *uint32) (graphtile.EdgeId, error)
	AddTurnCost(vertex graphtile.VertexId, turnCostType uint32, edges []graphtile.EdgeId, costs []float64) error
}

const elevationGainKey = "elevation_gain_cm"

// gradeAttrs appends an elevation_gain_cm tag (the signed centimeter rise
// from fromEle to toEle) to attrs when both elevations were resolved,
// leaving attrs untouched otherwise.
func gradeAttrs(attrs attrbag.Bag, fromEle, toEle float64, haveFrom, haveTo bool) attrbag.Bag {
	if !haveFrom || !haveTo {
		return attrs
	}
	gainCM := int64((toEle - fromEle) * 100)

	return append(attrs, attrbag.Pair{Key: elevationGainKey, Value: strconv.FormatInt(gainCM, 10)})
}

// Run resolves every vertex source.NextVertex produces to a tile at zoom
// via writer.AddVertex, then resolves every edge source.NextEdge produces
// against those vertices via writer.AddEdge, filtering attrs through
// tagFilter and tagging elevation-derived grade via elevationFn when both
// are non-nil.
//
// A Source I/O error (NextVertex or NextEdge returning err != nil) aborts
// Run immediately, wrapped with context. Everything else — an edge
// referencing a vertex index outside the range already produced, or
// writer.AddEdge itself rejecting a record — is recorded and Run keeps
// draining the source; the returned error, if any, joins every recorded
// failure via multierr so a caller can report the whole batch at once
// instead of fixing one bad record per run.
func Run(writer Writer, zoom uint8, source Source, tagFilter TagFilter, elevationFn ElevationFn) error {
	log := obslog.Component("ingest")

	var vertexIDs []graphtile.VertexId
	var elevations []float64
	var haveElevation []bool

	for {
		lon, lat, ok, err := source.NextVertex()
		if err != nil {
			return fmt.Errorf("ingest: reading vertex %d: %w", len(vertexIDs), err)
		}
		if !ok {
			break
		}
		tileID := graphtile.TileIDForLonLat(zoom, lon, lat)
		vertexIDs = append(vertexIDs, writer.AddVertex(tileID, lon, lat))
		if elevationFn != nil {
			meters, ok := elevationFn(lon, lat)
			elevations = append(elevations, meters)
			haveElevation = append(haveElevation, ok)
		} else {
			elevations = append(elevations, 0)
			haveElevation = append(haveElevation, false)
		}
	}
	log.Debug().Int("vertices", len(vertexIDs)).Msg("ingested vertex stream")

	var errs error
	edgeCount := 0
	for {
		v1, v2, shape, attrs, ok, err := source.NextEdge()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: reading edge %d: %w", edgeCount, err))
			break
		}
		if !ok {
			break
		}
		if v1 < 0 || v1 >= len(vertexIDs) || v2 < 0 || v2 >= len(vertexIDs) {
			errs = multierr.Append(errs, fmt.Errorf("ingest: edge %d: %w (v1=%d v2=%d, %d vertices seen)", edgeCount, ErrUnknownVertex, v1, v2, len(vertexIDs)))
			edgeCount++
			continue
		}

		filtered := filterAttrs(attrs, tagFilter)
		filtered = gradeAttrs(filtered, elevations[v1], elevations[v2], haveElevation[v1], haveElevation[v2])

		if _, err := writer.AddEdge(vertexIDs[v1], vertexIDs[v2], shape, filtered, nil, nil); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: edge %d: %w", edgeCount, err))
		}
		edgeCount++
	}
	log.Debug().Int("edges", edgeCount).Msg("ingested edge stream")

	return errs
}
