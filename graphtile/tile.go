// File: tile.go
// Role: owns one tile's vertices, edges, shapes, attribute-bag strings and
// turn-cost tables. Read-only operations are safe to share across
// readers; append operations are callable only by the tile's unique writer
// or mutator (enforced one level up, in package routingnetwork).
// Determinism: local ids are assigned in strict allocation order, so the
// same sequence of AddVertex/AddEdge calls always yields the same tile.
// Concurrency: GraphTile itself takes no locks — routingnetwork serializes
// all append access through the writer/mutator discipline; readers
// only ever see a GraphTile whose writer has released it or a frozen
// snapshot tile, so internal locking here would just add overhead without a
// real race to prevent: locking belongs at the layer that knows about
// reader/writer lifetime, not on every leaf type.

package graphtile

import (
	"fmt"
	"math"

	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/internal/obslog"
	"github.com/mikelor/routing2/tilecodec"
)

// noPointer is the sentinel "no previous record" / "no head edge yet" value
// for pointers, Prev1 and Prev2.
const noPointer = math.MaxUint32

// LonLat is a single geographic coordinate used by shape geometries.
type LonLat struct {
	Lon float64
	Lat float64
}

// GraphTile owns one tile's byte arenas: vertices (coordinates), edges
// (with inline adjacency pointers), shapes, attribute bags, interned
// strings, and turn-cost matrices.
type GraphTile struct {
	zoom   uint8
	tileID uint32

	minLon, minLat, maxLon, maxLat float64

	nextVertexID uint32
	nextEdgeID   uint32
	nextMirrorID uint32

	pointers      []uint32 // dense vertex local id -> head edge-record offset
	edgeOffsets   []uint32 // dense canonical local id -> record offset
	mirrorOffsets []uint32 // dense (local id - MinCrossID) -> record offset

	edges       *tilecodec.Buffer
	coordinates *tilecodec.Buffer
	shapes      *tilecodec.Buffer
	attributes  *tilecodec.Buffer
	strings     *stringTable

	turnCosts *turnCostTable

	// EdgeTypeGeneration is the attribute-set-index generation this tile's
	// edge_type_id column was last rewritten for.
	EdgeTypeGeneration uint64
}

// New creates an empty GraphTile for the given zoom and tile id.
func New(zoom uint8, tileID uint32) *GraphTile {
	minLon, minLat, maxLon, maxLat := TileBounds(zoom, tileID)

	return &GraphTile{
		zoom:        zoom,
		tileID:      tileID,
		minLon:      minLon,
		minLat:      minLat,
		maxLon:      maxLon,
		maxLat:      maxLat,
		nextMirrorID: MinCrossID,
		edges:       tilecodec.NewBuffer(),
		coordinates: tilecodec.NewBuffer(),
		shapes:      tilecodec.NewBuffer(),
		attributes:  tilecodec.NewBuffer(),
		strings:     newStringTable(),
		turnCosts:   newTurnCostTable(),
	}
}

// TileID returns the tile's own id.
func (t *GraphTile) TileID() uint32 { return t.tileID }

// Zoom returns the tile's zoom level.
func (t *GraphTile) Zoom() uint8 { return t.zoom }

// Bounds returns the tile's geographic bounding box.
func (t *GraphTile) Bounds() (minLon, minLat, maxLon, maxLat float64) {
	return t.minLon, t.minLat, t.maxLon, t.maxLat
}

// NumVertices reports how many vertices have been added to this tile.
func (t *GraphTile) NumVertices() int { return int(t.nextVertexID) }

// NumEdges reports how many canonical (non-mirror) edges originate in this
// tile.
func (t *GraphTile) NumEdges() int { return int(t.nextEdgeID) }

// AddVertex quantizes (lon, lat) to this tile's per-axis grid and appends a
// new vertex, returning its VertexId.
func (t *GraphTile) AddVertex(lon, lat float64) VertexId {
	localID := t.nextVertexID
	qx := quantizeAxis(lon, t.minLon, t.maxLon)
	qy := quantizeAxis(lat, t.minLat, t.maxLat)
	t.coordinates.WriteFixed(coordWidth, uint64(qx))
	t.coordinates.WriteFixed(coordWidth, uint64(qy))
	t.pointers = append(t.pointers, noPointer)
	t.nextVertexID++

	return VertexId{TileID: t.tileID, LocalID: localID}
}

// TryGetVertex returns the dequantized (lon, lat) of v, or ok=false if v
// does not belong to this tile or was never added.
func (t *GraphTile) TryGetVertex(v VertexId) (lon, lat float64, ok bool) {
	if v.TileID != t.tileID || v.LocalID >= t.nextVertexID {
		return 0, 0, false
	}
	off := int(v.LocalID) * 2 * coordWidth
	qx := uint32(t.coordinates.ReadFixedAt(off, coordWidth))
	qy := uint32(t.coordinates.ReadFixedAt(off+coordWidth, coordWidth))

	return dequantizeAxis(qx, t.minLon, t.maxLon), dequantizeAxis(qy, t.minLat, t.maxLat), true
}

// Edge is the decoded, self-contained view of one edge record.
type Edge struct {
	ID         EdgeId
	From       VertexId
	To         VertexId
	CrossTile  bool
	EdgeTypeID *uint32
	LengthCM   *uint32
	ShapePtr   *uint32
	AttrPtr    *uint32
	Offset     uint32

	prev1, prev2 uint32
}

// writeVertexRef appends a tagged reference to v: a flag varuint (0 = local
// to tileID, 1 = foreign) followed by either v's LocalID or its full 64-bit
// Encode(). The explicit flag (an encoding choice of this implementation,
// not literally in the prose spec) disambiguates a same-tile local id from
// a foreign tile-0 encoded id, which would otherwise both read as small
// integers.
func writeVertexRef(buf *tilecodec.Buffer, v VertexId, tileID uint32) {
	if v.TileID == tileID {
		buf.WriteVarUint(0)
		buf.WriteVarUint(uint64(v.LocalID))
		return
	}
	buf.WriteVarUint(1)
	buf.WriteVarUint(v.Encode())
}

func readVertexRef(buf *tilecodec.Buffer, pos int, tileID uint32) (VertexId, int) {
	flag, n1 := buf.ReadVarUintAt(pos)
	val, n2 := buf.ReadVarUintAt(pos + n1)
	if flag == 0 {
		return VertexId{TileID: tileID, LocalID: uint32(val)}, n1 + n2
	}

	return DecodeVertexId(val), n1 + n2
}

// AddEdge appends an edge record. If v1 belongs to a different tile than t,
// the record is treated as the mirror of a canonical edge whose id belongs
// to v1's tile: edgeID must be supplied, and the endpoints are swapped so
// the locally-resident endpoint (the original v2) is recorded as this
// record's From.
func (t *GraphTile) AddEdge(
	v1, v2 VertexId,
	shape []LonLat,
	attrs attrbag.Bag,
	edgeID *EdgeId,
	edgeTypeID *uint32,
	lengthCM *uint32,
) (EdgeId, error) {
	mirror := v1.TileID != t.tileID
	if mirror {
		if edgeID == nil {
			return EdgeId{}, fmt.Errorf("%w: cross-tile edge requires a canonical EdgeId", ErrInvalidArgument)
		}
		v1, v2 = v2, v1
		if v1.TileID != t.tileID {
			return EdgeId{}, fmt.Errorf("%w: neither endpoint belongs to tile %d", ErrInvalidArgument, t.tileID)
		}
	}

	var shapePtr *uint32
	if len(shape) > 0 {
		p := t.writeShape(shape)
		shapePtr = &p
	}
	var attrPtr *uint32
	if len(attrs) > 0 {
		p := t.writeAttrs(attrs)
		attrPtr = &p
	}

	var canonical EdgeId
	var localID uint32
	if mirror {
		canonical = *edgeID
		localID = t.nextMirrorID
		t.nextMirrorID++
	} else {
		localID = t.nextEdgeID
		canonical = EdgeId{TileID: t.tileID, LocalID: localID}
		t.nextEdgeID++
	}

	v2Local := v2.TileID == t.tileID
	prev1 := t.pointers[v1.LocalID]
	prev2 := uint32(noPointer)
	if v2Local {
		prev2 = t.pointers[v2.LocalID]
	}

	offset := uint32(t.edges.Len())
	t.edges.WriteVarUint(uint64(localID))
	writeVertexRef(t.edges, v1, t.tileID)
	writeVertexRef(t.edges, v2, t.tileID)
	t.edges.WriteNullableVarUint(uint64(prev1), prev1 != noPointer)
	t.edges.WriteNullableVarUint(uint64(prev2), v2Local && prev2 != noPointer)
	crossTile := mirror || !v2Local
	if crossTile {
		t.edges.WriteVarUint(canonical.Encode())
	}
	t.edges.WriteNullableVarUint(uint64(derefU32(edgeTypeID)), edgeTypeID != nil)
	t.edges.WriteNullableVarUint(uint64(derefU32(lengthCM)), lengthCM != nil)
	t.edges.WriteNullableVarUint(uint64(derefU32(shapePtr)), shapePtr != nil)
	t.edges.WriteNullableVarUint(uint64(derefU32(attrPtr)), attrPtr != nil)

	t.pointers[v1.LocalID] = offset
	if v2Local {
		t.pointers[v2.LocalID] = offset
	}

	if mirror {
		t.mirrorOffsets = append(t.mirrorOffsets, offset)
	} else {
		t.edgeOffsets = append(t.edgeOffsets, offset)
	}

	return canonical, nil
}

func derefU32(p *uint32) uint32 {
	if p == nil {
		return 0
	}

	return *p
}

// decodeEdgeAt decodes the edge record starting at byte offset off.
func (t *GraphTile) decodeEdgeAt(off uint32) Edge {
	pos := int(off)
	selfLocal, n := t.edges.ReadVarUintAt(pos)
	pos += n
	v1, n := readVertexRef(t.edges, pos, t.tileID)
	pos += n
	v2, n := readVertexRef(t.edges, pos, t.tileID)
	pos += n
	prev1, ok1, n := t.edges.ReadNullableVarUintAt(pos)
	pos += n
	prev2, ok2, n := t.edges.ReadNullableVarUintAt(pos)
	pos += n

	crossTile := v1.TileID != t.tileID || v2.TileID != t.tileID
	canonical := EdgeId{TileID: t.tileID, LocalID: uint32(selfLocal)}
	if crossTile {
		raw, n2 := t.edges.ReadVarUintAt(pos)
		pos += n2
		canonical = DecodeEdgeId(raw)
	}

	edgeType, okET, n := t.edges.ReadNullableVarUintAt(pos)
	pos += n
	length, okL, n := t.edges.ReadNullableVarUintAt(pos)
	pos += n
	shapePtr, okS, n := t.edges.ReadNullableVarUintAt(pos)
	pos += n
	attrPtr, okA, _ := t.edges.ReadNullableVarUintAt(pos)

	e := Edge{
		ID:        canonical,
		From:      v1,
		To:        v2,
		CrossTile: crossTile,
		Offset:    off,
		prev1:     prevOrNone(prev1, ok1),
		prev2:     prevOrNone(prev2, ok2),
	}
	if okET {
		v := uint32(edgeType)
		e.EdgeTypeID = &v
	}
	if okL {
		v := uint32(length)
		e.LengthCM = &v
	}
	if okS {
		v := uint32(shapePtr)
		e.ShapePtr = &v
	}
	if okA {
		v := uint32(attrPtr)
		e.AttrPtr = &v
	}

	return e
}

func prevOrNone(v uint64, ok bool) uint32 {
	if !ok {
		return noPointer
	}

	return uint32(v)
}

// EdgeAt decodes the canonical or mirror edge record whose local id is
// local, returning ErrNotFound if it was never written in this tile.
func (t *GraphTile) EdgeAt(local uint32) (Edge, error) {
	var offsets []uint32
	var idx uint32
	if local >= MinCrossID {
		offsets = t.mirrorOffsets
		idx = local - MinCrossID
	} else {
		offsets = t.edgeOffsets
		idx = local
	}
	if idx >= uint32(len(offsets)) {
		return Edge{}, ErrNotFound
	}

	return t.decodeEdgeAt(offsets[idx]), nil
}

// AdjacentEdges walks v's intrusive adjacency chain and returns every edge
// (canonical or mirror) in which v participates, in most-recently-added
// first order (the order the chain is linked in).
func (t *GraphTile) AdjacentEdges(v VertexId) []Edge {
	if v.TileID != t.tileID || v.LocalID >= uint32(len(t.pointers)) {
		return nil
	}
	var out []Edge
	offset := t.pointers[v.LocalID]
	for offset != noPointer {
		e := t.decodeEdgeAt(offset)
		out = append(out, e)
		switch {
		case e.From.TileID == t.tileID && e.From.LocalID == v.LocalID:
			offset = e.prev1
		case e.To.TileID == t.tileID && e.To.LocalID == v.LocalID:
			offset = e.prev2
		default:
			offset = noPointer
		}
	}

	return out
}

// writeShape appends a shape geometry (as exact IEEE-754 doubles — shape
// compactness is not part of the core's search-hot-path budget) and
// returns its byte offset.
func (t *GraphTile) writeShape(points []LonLat) uint32 {
	ptr := uint32(t.shapes.Len())
	t.shapes.WriteVarUint(uint64(len(points)))
	for _, p := range points {
		t.shapes.WriteFixed(8, math.Float64bits(p.Lon))
		t.shapes.WriteFixed(8, math.Float64bits(p.Lat))
	}

	return ptr
}

// ReadShape decodes the shape geometry stored at ptr.
func (t *GraphTile) ReadShape(ptr uint32) []LonLat {
	pos := int(ptr)
	count, n := t.shapes.ReadVarUintAt(pos)
	pos += n
	out := make([]LonLat, count)
	for i := range out {
		lonBits := t.shapes.ReadFixedAt(pos, 8)
		pos += 8
		latBits := t.shapes.ReadFixedAt(pos, 8)
		pos += 8
		out[i] = LonLat{Lon: math.Float64frombits(lonBits), Lat: math.Float64frombits(latBits)}
	}

	return out
}

// writeAttrs interns attrs' canonical (string-id, string-id) pairs and
// appends the run, returning its byte offset.
func (t *GraphTile) writeAttrs(attrs attrbag.Bag) uint32 {
	canon := attrs.Canonical()
	ptr := uint32(t.attributes.Len())
	t.attributes.WriteVarUint(uint64(len(canon)))
	for _, p := range canon {
		keyID := t.strings.intern(p.Key)
		valID := t.strings.intern(p.Value)
		t.attributes.WriteVarUint(uint64(keyID))
		t.attributes.WriteVarUint(uint64(valID))
	}

	return ptr
}

// ReadAttrs decodes the attribute bag stored at ptr.
func (t *GraphTile) ReadAttrs(ptr uint32) attrbag.Bag {
	pos := int(ptr)
	count, n := t.attributes.ReadVarUintAt(pos)
	pos += n
	out := make(attrbag.Bag, count)
	for i := range out {
		keyID, n := t.attributes.ReadVarUintAt(pos)
		pos += n
		valID, n := t.attributes.ReadVarUintAt(pos)
		pos += n
		out[i] = attrbag.Pair{Key: t.strings.lookup(uint32(keyID)), Value: t.strings.lookup(uint32(valID))}
	}

	return out
}

// Clone returns a structural copy of the tile: every arena, pointer array,
// counter and the turn-cost table are duplicated, so mutating the clone
// never affects t. Required by GraphMutator's clone-on-write semantics.
func (t *GraphTile) Clone() *GraphTile {
	clone := &GraphTile{
		zoom:               t.zoom,
		tileID:             t.tileID,
		minLon:             t.minLon,
		minLat:             t.minLat,
		maxLon:             t.maxLon,
		maxLat:             t.maxLat,
		nextVertexID:       t.nextVertexID,
		nextEdgeID:         t.nextEdgeID,
		nextMirrorID:       t.nextMirrorID,
		pointers:           append([]uint32(nil), t.pointers...),
		edgeOffsets:        append([]uint32(nil), t.edgeOffsets...),
		mirrorOffsets:      append([]uint32(nil), t.mirrorOffsets...),
		edges:              t.edges.Clone(),
		coordinates:        t.coordinates.Clone(),
		shapes:             t.shapes.Clone(),
		attributes:         t.attributes.Clone(),
		strings:            t.strings.clone(),
		turnCosts:          t.turnCosts.clone(),
		EdgeTypeGeneration: t.EdgeTypeGeneration,
	}

	return clone
}

// EdgeClassifier reduces an edge's attribute bag to an edge-type id. It is
// implemented by *attridx.Index; declared here to avoid an import cycle
// between graphtile and attridx.
type EdgeClassifier interface {
	Get(bag attrbag.Bag) uint32
	Generation() uint64
}

// ApplyEdgeTypeFn rewrites every edge record's edge_type_id through idx,
// producing a new tile whose edges arena is freshly encoded but whose
// coordinates, shapes, attributes, strings and turn-cost table are shared
// by reference with t.
func (t *GraphTile) ApplyEdgeTypeFn(idx EdgeClassifier) *GraphTile {
	out := &GraphTile{
		zoom:         t.zoom,
		tileID:       t.tileID,
		minLon:       t.minLon,
		minLat:       t.minLat,
		maxLon:       t.maxLon,
		maxLat:       t.maxLat,
		nextVertexID: t.nextVertexID,
		nextEdgeID:   t.nextEdgeID,
		nextMirrorID: t.nextMirrorID,
		pointers:     make([]uint32, len(t.pointers)),
		edges:        tilecodec.NewBuffer(),
		coordinates:  t.coordinates,
		shapes:       t.shapes,
		attributes:   t.attributes,
		strings:      t.strings,
		turnCosts:    t.turnCosts,

		EdgeTypeGeneration: idx.Generation(),
	}
	for i := range out.pointers {
		out.pointers[i] = noPointer
	}

	rewrite := func(offsets []uint32) []uint32 {
		newOffsets := make([]uint32, len(offsets))
		for i, off := range offsets {
			e := t.decodeEdgeAt(off)
			var bag attrbag.Bag
			if e.AttrPtr != nil {
				bag = t.ReadAttrs(*e.AttrPtr)
			}
			newTypeID := idx.Get(bag)

			newOffset := uint32(out.edges.Len())
			out.edges.WriteVarUint(uint64(e.ID.LocalID))
			writeVertexRef(out.edges, e.From, out.tileID)
			writeVertexRef(out.edges, e.To, out.tileID)

			prev1 := out.pointers[e.From.LocalID]
			out.edges.WriteNullableVarUint(uint64(prev1), prev1 != noPointer)
			var prev2 uint32 = noPointer
			v2Local := e.To.TileID == out.tileID
			if v2Local {
				prev2 = out.pointers[e.To.LocalID]
			}
			out.edges.WriteNullableVarUint(uint64(prev2), v2Local && prev2 != noPointer)
			if e.CrossTile {
				out.edges.WriteVarUint(e.ID.Encode())
			}
			out.edges.WriteNullableVarUint(uint64(newTypeID), true)
			out.edges.WriteNullableVarUint(uint64(derefU32(e.LengthCM)), e.LengthCM != nil)
			out.edges.WriteNullableVarUint(uint64(derefU32(e.ShapePtr)), e.ShapePtr != nil)
			out.edges.WriteNullableVarUint(uint64(derefU32(e.AttrPtr)), e.AttrPtr != nil)

			out.pointers[e.From.LocalID] = newOffset
			if v2Local {
				out.pointers[e.To.LocalID] = newOffset
			}
			newOffsets[i] = newOffset
		}

		return newOffsets
	}

	out.edgeOffsets = rewrite(t.edgeOffsets)
	out.mirrorOffsets = rewrite(t.mirrorOffsets)

	obslog.Component("graphtile").Debug().
		Uint32("tile_id", out.tileID).
		Uint64("generation", out.EdgeTypeGeneration).
		Str("edges", obslog.Comma(int64(len(out.edgeOffsets)+len(out.mirrorOffsets)))).
		Msg("rewrote tile edge-type index")

	return out
}

// AddTurnCost appends an N×N turn-cost matrix for vertex, keyed by
// turnCostType and the ordered incident-edge list edges. costs is
// row-major with costs[i*N+j] the cost of turning from edges[i] to
// edges[j] through vertex.
func (t *GraphTile) AddTurnCost(vertex VertexId, turnCostType uint32, edges []EdgeId, costs []float64) error {
	if vertex.TileID != t.tileID {
		return fmt.Errorf("%w: vertex %v not owned by tile %d", ErrInvalidArgument, vertex, t.tileID)
	}
	n := len(edges)
	if len(costs) != n*n {
		return fmt.Errorf("%w: expected %d costs for degree %d, got %d", ErrInvalidArgument, n*n, n, len(costs))
	}
	if existing, ok := t.turnCosts.degree(vertex.LocalID, turnCostType); ok && existing != n {
		return fmt.Errorf("%w: vertex %v type %d already registered at degree %d, got %d", ErrInvalidArgument, vertex, turnCostType, existing, n)
	}

	return t.turnCosts.add(vertex.LocalID, turnCostType, edges, costs)
}

// TurnCost returns the cost of turning from fromEdge to toEdge through
// viaVertex under turnCostType, or false if no matrix is registered for
// that (vertex, type) or either edge is not part of it.
func (t *GraphTile) TurnCost(viaVertex VertexId, turnCostType uint32, fromEdge, toEdge EdgeId) (float64, bool) {
	if viaVertex.TileID != t.tileID {
		return 0, false
	}

	return t.turnCosts.get(viaVertex.LocalID, turnCostType, fromEdge, toEdge)
}
