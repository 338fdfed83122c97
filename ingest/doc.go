// Package ingest drives a writer/mutator from a streamed source of vertex
// and edge records. The core never reads a geographic data feed itself;
// it only exposes AddVertex/AddEdge/AddTurnCost through the Writer
// interface, and this package is the thin collaborator that calls them in
// the order a Source produces records.
//
// Overview:
//
//   - Source yields vertices first, then edges that reference vertices by
//     their 0-based arrival order: every vertex of an edge must have
//     already arrived before that edge is yielded.
//   - Run resolves each vertex to a tile from its (lon, lat) at the zoom
//     passed to Run, filters each edge's attribute bag through tagFilter, and
//     augments each edge with an elevation-derived grade tag when
//     elevationFn is supplied for both endpoints.
//   - A malformed individual record (an edge referencing a vertex index
//     that hasn't arrived yet, or a writer-side rejection) is recorded and
//     skipped rather than aborting the whole ingest; Run keeps draining
//     the source and returns every accumulated error joined via
//     go.uber.org/multierr. A Source-level I/O error is fatal and returned
//     immediately, since there is no well-defined way to keep draining a
//     stream that has already failed to produce its next record.
package ingest
