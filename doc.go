// Package routing2 is a tiled, mutation-friendly road-routing engine: a
// byte-packed graph tile store, an attribute classification index, a
// read/mutate/publish lifecycle over it, nearest-edge snapping, and an
// edge-based one-to-many Dijkstra search.
//
// Subpackages:
//
//	tilecodec/     — varint/fixed-width byte arena codec
//	graphtile/     — the packed per-tile vertex/edge/attribute/turn-cost store
//	attrbag/       — the (key, value) attribute bag shared by tiles and the index
//	attridx/       — bidirectional attribute-set classification index
//	routingnetwork/ — RouterDb lifecycle (GraphWriter/GraphMutator) and lookups
//	snap/          — nearest-edge point projection
//	dijkstra/      — the edge-based one-to-many search
//	ingest/        — the streaming vertex/edge ingestion driver
//	internal/obslog/ — structured logging used across the above
//	cmd/routingctl/  — a thin CLI exercising a snap and a route
package routing2
