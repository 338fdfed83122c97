// File: lifecycle.go
// Role: RouterDb's Latest-snapshot publication and the exclusive
// GraphWriter/GraphMutator edit handles.
// Concurrency: RouterDb.mu guards only the three-state lifecycle flag;
// Latest itself is an atomic.Pointer so concurrent readers never take a
// lock to read the current snapshot.

package routingnetwork

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/attridx"
	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/internal/obslog"
	"github.com/rs/zerolog"
)

type lifecycleState int

const (
	stateIdle lifecycleState = iota
	stateWriterOut
	stateMutatorOut
)

// RouterDb owns the published Latest RoutingNetwork and enforces that at
// most one GraphWriter or GraphMutator is live at any time.
type RouterDb struct {
	mu    sync.Mutex
	state lifecycleState

	latest atomic.Pointer[RoutingNetwork]
	log    zerolog.Logger
}

// NewRouterDb returns a RouterDb whose initial Latest snapshot is an empty
// network at the given tile zoom.
func NewRouterDb(zoom uint8) *RouterDb {
	db := &RouterDb{log: obslog.Component("routingnetwork")}
	db.latest.Store(newEmptyNetwork(zoom))

	return db
}

// Latest returns the RoutingNetwork currently published. Safe to call
// concurrently with a live writer or mutator: it always returns a
// self-consistent snapshot (the one before the edit, or the one the edit
// just committed), never a partially-written one, as long as callers
// respect the "no concurrent reads during an active GraphWriter" discipline
// the writer's in-place mutation relies on.
func (db *RouterDb) Latest() *RoutingNetwork { return db.latest.Load() }

// GetWriter acquires the exclusive append-only handle. It fails with
// ErrInvalidState if a writer or mutator is already live.
func (db *RouterDb) GetWriter() (*GraphWriter, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.state != stateIdle {
		return nil, fmt.Errorf("%w: a writer or mutator is already live", ErrInvalidState)
	}
	db.state = stateWriterOut
	db.log.Debug().Msg("writer acquired")

	return &GraphWriter{db: db, net: db.latest.Load()}, nil
}

// GetMutator acquires the exclusive copy-on-write handle. It fails with
// ErrInvalidState if a writer or mutator is already live.
func (db *RouterDb) GetMutator() (*GraphMutator, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.state != stateIdle {
		return nil, fmt.Errorf("%w: a writer or mutator is already live", ErrInvalidState)
	}
	db.state = stateMutatorOut
	base := db.latest.Load()
	tiles := make(map[uint32]*graphtile.GraphTile, len(base.tiles))
	for id, t := range base.tiles {
		tiles[id] = t
	}
	db.log.Debug().Msg("mutator acquired")

	return &GraphMutator{
		db:            db,
		base:          base,
		tiles:         tiles,
		touched:       make(map[uint32]bool),
		edgeTypeIndex: base.edgeTypeIndex,
		turnCostIndex: base.turnCostIndex,
	}, nil
}

func (db *RouterDb) releaseWriter() {
	db.mu.Lock()
	db.state = stateIdle
	db.mu.Unlock()
	db.log.Debug().Msg("writer released")
}

func (db *RouterDb) releaseMutator() {
	db.mu.Lock()
	db.state = stateIdle
	db.mu.Unlock()
	db.log.Debug().Msg("mutator released")
}

// GraphWriter is the exclusive append-only edit handle: it mutates the live
// RoutingNetwork's tiles in place, so it never publishes a new snapshot on
// release — the one edit session and the published Latest are the same
// object throughout. Callers must not read Latest concurrently with a live
// writer: a live writer logically freezes readers.
type GraphWriter struct {
	db       *RouterDb
	net      *RoutingNetwork
	released bool
}

func (w *GraphWriter) tileFor(tileID uint32) *graphtile.GraphTile {
	t, ok := w.net.tiles[tileID]
	if !ok {
		t = graphtile.New(w.net.zoom, tileID)
		w.net.tiles[tileID] = t
	}

	return t
}

// AddVertex appends a vertex to the tile identified by tileID, creating that
// tile on first use.
func (w *GraphWriter) AddVertex(tileID uint32, lon, lat float64) graphtile.VertexId {
	return w.tileFor(tileID).AddVertex(lon, lat)
}

// AddEdge appends an edge. If v1 and v2 belong to different tiles, AddEdge
// writes the canonical record in v1's tile first, then a mirror record with
// the same EdgeId in v2's tile, matching the two-tiles-same-id cross-tile
// contract.
func (w *GraphWriter) AddEdge(
	v1, v2 graphtile.VertexId,
	shape []graphtile.LonLat,
	attrs attrbag.Bag,
	edgeTypeID *uint32,
	lengthCM *uint32,
) (graphtile.EdgeId, error) {
	canonical, err := w.tileFor(v1.TileID).AddEdge(v1, v2, shape, attrs, nil, edgeTypeID, lengthCM)
	if err != nil {
		return graphtile.EdgeId{}, err
	}
	if v2.TileID != v1.TileID {
		if _, err := w.tileFor(v2.TileID).AddEdge(v1, v2, shape, attrs, &canonical, edgeTypeID, lengthCM); err != nil {
			return graphtile.EdgeId{}, err
		}
	}

	return canonical, nil
}

// AddTurnCost appends a turn-cost matrix to vertex's tile.
func (w *GraphWriter) AddTurnCost(vertex graphtile.VertexId, turnCostType uint32, edges []graphtile.EdgeId, costs []float64) error {
	return w.tileFor(vertex.TileID).AddTurnCost(vertex, turnCostType, edges, costs)
}

// Network returns the RoutingNetwork the writer is mutating in place.
func (w *GraphWriter) Network() *RoutingNetwork { return w.net }

// Release ends the writer's edit session, whether or not any vertices or
// edges were added. Safe to call more than once.
func (w *GraphWriter) Release() {
	if w.released {
		return
	}
	w.released = true
	w.db.releaseWriter()
}

// GraphMutator is the exclusive copy-on-write edit handle: each tile it
// touches is cloned on first write, so the base snapshot it started from
// keeps serving concurrent readers untouched until Commit publishes a new
// RoutingNetwork built from the mutator's (mixed cloned/shared) tile map.
type GraphMutator struct {
	db   *RouterDb
	base *RoutingNetwork

	tiles   map[uint32]*graphtile.GraphTile
	touched map[uint32]bool

	edgeTypeIndex *attridx.Index
	turnCostIndex *attridx.Index

	released bool
}

func (m *GraphMutator) tileFor(tileID uint32) *graphtile.GraphTile {
	t, ok := m.tiles[tileID]
	if !ok {
		t = graphtile.New(m.base.zoom, tileID)
		m.tiles[tileID] = t
		m.touched[tileID] = true

		return t
	}
	if !m.touched[tileID] {
		t = t.Clone()
		m.tiles[tileID] = t
		m.touched[tileID] = true
	}

	return t
}

// AddVertex appends a vertex to tileID's (lazily cloned) tile.
func (m *GraphMutator) AddVertex(tileID uint32, lon, lat float64) graphtile.VertexId {
	return m.tileFor(tileID).AddVertex(lon, lat)
}

// AddEdge appends an edge through the same canonical-then-mirror protocol as
// GraphWriter.AddEdge, but against cloned tiles.
func (m *GraphMutator) AddEdge(
	v1, v2 graphtile.VertexId,
	shape []graphtile.LonLat,
	attrs attrbag.Bag,
	edgeTypeID *uint32,
	lengthCM *uint32,
) (graphtile.EdgeId, error) {
	canonical, err := m.tileFor(v1.TileID).AddEdge(v1, v2, shape, attrs, nil, edgeTypeID, lengthCM)
	if err != nil {
		return graphtile.EdgeId{}, err
	}
	if v2.TileID != v1.TileID {
		if _, err := m.tileFor(v2.TileID).AddEdge(v1, v2, shape, attrs, &canonical, edgeTypeID, lengthCM); err != nil {
			return graphtile.EdgeId{}, err
		}
	}

	return canonical, nil
}

// AddTurnCost appends a turn-cost matrix to vertex's (lazily cloned) tile.
func (m *GraphMutator) AddTurnCost(vertex graphtile.VertexId, turnCostType uint32, edges []graphtile.EdgeId, costs []float64) error {
	return m.tileFor(vertex.TileID).AddTurnCost(vertex, turnCostType, edges, costs)
}

// RewriteEdgeTypeIndex replaces the mutator's edge-type classification
// function, bumping its generation, and rewrites every tile the mutator
// currently holds through the new index (cloning any tile not already
// touched). The previous index's ids carry over unchanged for bags whose
// classification result didn't change.
func (m *GraphMutator) RewriteEdgeTypeIndex(newClassify attridx.ClassifyFn) *attridx.Index {
	next := m.edgeTypeIndex.Next(newClassify)
	for id, t := range m.tiles {
		if !m.touched[id] {
			t = t.Clone()
		}
		m.tiles[id] = next.Update(t)
		m.touched[id] = true
	}
	m.edgeTypeIndex = next

	return next
}

// Commit publishes a new RoutingNetwork built from the mutator's tile map
// (untouched tiles shared by reference with base, touched tiles the
// mutator's private clones) as RouterDb's Latest, and releases the mutator
// lock. It fails with ErrInvalidState if already committed or discarded.
func (m *GraphMutator) Commit() (*RoutingNetwork, error) {
	if m.released {
		return nil, fmt.Errorf("%w: mutator already released", ErrInvalidState)
	}
	m.released = true

	next := &RoutingNetwork{
		zoom:          m.base.zoom,
		tiles:         m.tiles,
		edgeTypeIndex: m.edgeTypeIndex,
		turnCostIndex: m.turnCostIndex,
		provider:      m.base.provider,
		loadGroup:     m.base.loadGroup,
	}
	m.db.latest.Store(next)
	m.db.releaseMutator()

	return next, nil
}

// Discard abandons the mutator's edits without publishing them, releasing
// the lock so a subsequent GetWriter/GetMutator can proceed. Safe to call
// more than once.
func (m *GraphMutator) Discard() {
	if m.released {
		return
	}
	m.released = true
	m.db.releaseMutator()
}
