package dijkstra

import (
	"math"
	"testing"

	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/routingnetwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testZoom uint8 = 14

// uniformCost treats every edge as traversable at cost 1 in both
// directions, with no turn cost — the weight function the concrete
// end-to-end scenarios are stated against.
func uniformCost(enum *routingnetwork.EdgeEnumerator, _ []graphtile.EdgeId) (float64, float64) {
	return 1, 0
}

func newTestNetwork(t *testing.T) (*routingnetwork.RouterDb, uint32) {
	t.Helper()
	db := routingnetwork.NewRouterDb(testZoom)
	tileID := graphtile.TileID(testZoom, 100, 100)

	return db, tileID
}

func TestWithinEdgeShortcut(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	edgeID, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	source := graphtile.SnapPoint{EdgeID: edgeID, Offset: 13106}
	target := graphtile.SnapPoint{EdgeID: edgeID, Offset: 52428}

	result := New().RunOne(net, source, target, uniformCost)
	require.True(t, result.Found)
	require.Len(t, result.Path.Segments, 1)
	assert.Equal(t, edgeID, result.Path.Segments[0].EdgeID)
	assert.True(t, result.Path.Segments[0].Forward)
	assert.Equal(t, uint16(13106), result.Path.Offset1)
	assert.Equal(t, uint16(52428), result.Path.Offset2)
	assert.InDelta(t, float64(52428-13106)/float64(math.MaxUint16), result.Cost, 1e-9)
}

func TestTwoEdgeAcrossAVertex(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	c := w.AddVertex(tileID, 0.002, 0)
	ab, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	bc, err := w.AddEdge(b, c, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	offsetA := uint16(1000)
	offsetC := uint16(64000)
	source := graphtile.SnapPoint{EdgeID: ab, Offset: offsetA}
	target := graphtile.SnapPoint{EdgeID: bc, Offset: offsetC}

	result := New().RunOne(net, source, target, uniformCost)
	require.True(t, result.Found)
	require.Len(t, result.Path.Segments, 2)
	assert.Equal(t, ab, result.Path.Segments[0].EdgeID)
	assert.Equal(t, bc, result.Path.Segments[1].EdgeID)

	sourceFactor := source.OffsetFactor()
	targetFactor := target.OffsetFactor()
	wantCost := (1 - sourceFactor) + targetFactor
	assert.InDelta(t, wantCost, result.Cost, 1e-9)
}

func TestCrossTileEdgeSearchesEitherDirectionToSameCost(t *testing.T) {
	db := routingnetwork.NewRouterDb(testZoom)
	w, err := db.GetWriter()
	require.NoError(t, err)

	tileA := graphtile.TileID(testZoom, 100, 100)
	tileB := graphtile.TileID(testZoom, 101, 100)
	_, _, maxLonA, _ := graphtile.TileBounds(testZoom, tileA)
	minLonB, _, _, _ := graphtile.TileBounds(testZoom, tileB)
	va := w.AddVertex(tileA, maxLonA-0.0001, 0.0005)
	vb := w.AddVertex(tileB, minLonB+0.0001, 0.0005)
	edgeID, err := w.AddEdge(va, vb, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	fwd := New().RunOne(net,
		graphtile.SnapPoint{EdgeID: edgeID, Offset: 0},
		graphtile.SnapPoint{EdgeID: edgeID, Offset: math.MaxUint16},
		uniformCost)
	require.True(t, fwd.Found)
	require.Len(t, fwd.Path.Segments, 1)
	assert.Equal(t, edgeID, fwd.Path.Segments[0].EdgeID)

	bwd := New().RunOne(net,
		graphtile.SnapPoint{EdgeID: edgeID, Offset: math.MaxUint16},
		graphtile.SnapPoint{EdgeID: edgeID, Offset: 0},
		uniformCost)
	require.True(t, bwd.Found)
	assert.InDelta(t, fwd.Cost, bwd.Cost, 1e-9)
}

func TestUTurnExclusionSameOffsetIsZeroCost(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	edgeID, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	point := graphtile.SnapPoint{EdgeID: edgeID, Offset: 20000}

	result := New().RunOne(net, point, point, uniformCost)
	require.True(t, result.Found)
	assert.Equal(t, 0.0, result.Cost)
	require.Len(t, result.Path.Segments, 1)
	assert.True(t, result.Path.Segments[0].Forward)
}

func TestUTurnExclusionNeverRevisitsSameEdgeImmediately(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	edgeID, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	result := New().RunOne(net,
		graphtile.SnapPoint{EdgeID: edgeID, Offset: 0},
		graphtile.SnapPoint{EdgeID: edgeID, Offset: math.MaxUint16},
		uniformCost)
	require.True(t, result.Found)
	require.Len(t, result.Path.Segments, 1, "a-b has only one edge; any u-turn would have to reuse it")
}

func TestUnreachableTargetReturnsNotFound(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	ab, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)

	c := w.AddVertex(tileID, 1, 1)
	d := w.AddVertex(tileID, 1.001, 1)
	cd, err := w.AddEdge(c, d, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	result := New().RunOne(net,
		graphtile.SnapPoint{EdgeID: ab, Offset: 0},
		graphtile.SnapPoint{EdgeID: cd, Offset: math.MaxUint16},
		uniformCost)
	assert.False(t, result.Found)
	assert.True(t, math.IsInf(result.Cost, 1))
}

func TestOneToManyAgreesPointwiseWithOneToOne(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	c := w.AddVertex(tileID, 0.002, 0)
	d := w.AddVertex(tileID, 0.002, 0.001)
	ab, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	bc, err := w.AddEdge(b, c, nil, nil, nil, nil)
	require.NoError(t, err)
	cd, err := w.AddEdge(c, d, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	source := graphtile.SnapPoint{EdgeID: ab, Offset: 0}
	targets := []graphtile.SnapPoint{
		{EdgeID: bc, Offset: math.MaxUint16},
		{EdgeID: cd, Offset: math.MaxUint16},
		{EdgeID: ab, Offset: math.MaxUint16},
	}

	search := New()
	many := search.Run(net, source, targets, uniformCost)
	require.Len(t, many, len(targets))
	for i, target := range targets {
		one := New().RunOne(net, source, target, uniformCost)
		require.Equal(t, one.Found, many[i].Found)
		assert.InDelta(t, one.Cost, many[i].Cost, 1e-9)
		assert.Equal(t, one.Path, many[i].Path)
	}
}

func TestSearchIsReusableAcrossCalls(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	edgeID, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	search := New()
	for i := 0; i < 3; i++ {
		result := search.RunOne(net,
			graphtile.SnapPoint{EdgeID: edgeID, Offset: 0},
			graphtile.SnapPoint{EdgeID: edgeID, Offset: math.MaxUint16},
			uniformCost)
		require.True(t, result.Found)
		assert.Len(t, result.Path.Segments, 1)
	}
}

func TestTurnCostIsConsultedViaEdgeEnumerator(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	c := w.AddVertex(tileID, 0.001, 0.001)
	ab, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	bc, err := w.AddEdge(b, c, nil, nil, nil, nil)
	require.NoError(t, err)
	const turnRestriction uint32 = 1
	require.NoError(t, w.AddTurnCost(b, turnRestriction, []graphtile.EdgeId{ab, bc}, []float64{0, 5, 5, 0}))
	w.Release()

	net := db.Latest()
	turnAware := func(enum *routingnetwork.EdgeEnumerator, previousEdges []graphtile.EdgeId) (float64, float64) {
		if len(previousEdges) == 0 {
			return 1, 0
		}
		tc, ok := enum.TurnCost(turnRestriction, b, previousEdges[len(previousEdges)-1], enum.EdgeID())
		if !ok {
			return 1, 0
		}

		return 1, tc
	}

	result := New().RunOne(net,
		graphtile.SnapPoint{EdgeID: ab, Offset: 0},
		graphtile.SnapPoint{EdgeID: bc, Offset: math.MaxUint16},
		turnAware)
	require.True(t, result.Found)
	assert.InDelta(t, 1.0+5.0+1.0, result.Cost, 1e-9)
}

func TestWithSettledVetoesFurtherExpansion(t *testing.T) {
	db, tileID := newTestNetwork(t)
	w, err := db.GetWriter()
	require.NoError(t, err)
	a := w.AddVertex(tileID, 0, 0)
	b := w.AddVertex(tileID, 0.001, 0)
	c := w.AddVertex(tileID, 0.002, 0)
	ab, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	bc, err := w.AddEdge(b, c, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	vetoed := func(v graphtile.VertexId) bool { return v == b }

	result := New().RunOne(net,
		graphtile.SnapPoint{EdgeID: ab, Offset: 0},
		graphtile.SnapPoint{EdgeID: bc, Offset: math.MaxUint16},
		uniformCost,
		WithSettled(vetoed))
	assert.False(t, result.Found, "vetoing b's settlement must block the only route to c")
}
