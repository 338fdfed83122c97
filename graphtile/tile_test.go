package graphtile

import (
	"testing"

	"github.com/mikelor/routing2/attrbag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testZoom uint8 = 14

func TestAddVertexRoundTrip(t *testing.T) {
	tile := New(testZoom, TileIDForLonLat(testZoom, 10.1234, 50.5678))
	v := tile.AddVertex(10.1234, 50.5678)
	lon, lat, ok := tile.TryGetVertex(v)
	require.True(t, ok)
	assert.InDelta(t, 10.1234, lon, 1e-4)
	assert.InDelta(t, 50.5678, lat, 1e-4)

	_, _, ok = tile.TryGetVertex(VertexId{TileID: tile.TileID(), LocalID: 5})
	assert.False(t, ok)
}

func TestAdjacencyChainEnumeratesEveryIncidentEdge(t *testing.T) {
	tile := New(testZoom, TileID(testZoom, 100, 100))
	a := tile.AddVertex(0, 0)
	b := tile.AddVertex(0.001, 0)
	c := tile.AddVertex(0.002, 0)

	e1, err := tile.AddEdge(a, b, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	e2, err := tile.AddEdge(b, c, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	e3, err := tile.AddEdge(a, c, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	bEdges := tile.AdjacentEdges(b)
	require.Len(t, bEdges, 2)
	ids := []EdgeId{bEdges[0].ID, bEdges[1].ID}
	assert.ElementsMatch(t, []EdgeId{e1, e2}, ids)

	aEdges := tile.AdjacentEdges(a)
	require.Len(t, aEdges, 2)
	assert.ElementsMatch(t, []EdgeId{e1, e3}, []EdgeId{aEdges[0].ID, aEdges[1].ID})

	cEdges := tile.AdjacentEdges(c)
	require.Len(t, cEdges, 2)
	assert.ElementsMatch(t, []EdgeId{e2, e3}, []EdgeId{cEdges[0].ID, cEdges[1].ID})
}

func TestCrossTileMirrorSharesCanonicalID(t *testing.T) {
	tileA := New(testZoom, TileID(testZoom, 100, 100))
	tileB := New(testZoom, TileID(testZoom, 101, 100))

	va := tileA.AddVertex(tileA.maxLon-0.0001, 0.0005)
	vb := tileB.AddVertex(tileB.minLon+0.0001, 0.0005)

	canonical, err := tileA.AddEdge(va, vb, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.False(t, canonical.IsMirror())
	require.Equal(t, tileA.TileID(), canonical.TileID)

	mirrorID := canonical
	gotMirror, err := tileB.AddEdge(va, vb, nil, nil, &mirrorID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, canonical, gotMirror)

	edgeInB := tileB.AdjacentEdges(vb)
	require.Len(t, edgeInB, 1)
	assert.Equal(t, canonical, edgeInB[0].ID)
	assert.True(t, edgeInB[0].CrossTile)
	assert.Equal(t, va, edgeInB[0].To)
	assert.Equal(t, vb, edgeInB[0].From)
}

func TestAddEdgeCrossTileRequiresEdgeID(t *testing.T) {
	tileA := New(testZoom, TileID(testZoom, 100, 100))
	tileB := New(testZoom, TileID(testZoom, 101, 100))
	va := tileA.AddVertex(tileA.maxLon-0.0001, 0.0005)
	vb := tileB.AddVertex(tileB.minLon+0.0001, 0.0005)

	_, err := tileB.AddEdge(va, vb, nil, nil, nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestShapeAndAttrRoundTrip(t *testing.T) {
	tile := New(testZoom, TileID(testZoom, 100, 100))
	a := tile.AddVertex(0, 0)
	b := tile.AddVertex(0.001, 0)

	shape := []LonLat{{Lon: 0, Lat: 0}, {Lon: 0.0005, Lat: 0.0001}, {Lon: 0.001, Lat: 0}}
	bag := attrbag.Bag{{Key: "highway", Value: "residential"}, {Key: "name", Value: "Main St"}}

	id, err := tile.AddEdge(a, b, shape, bag, nil, nil, nil)
	require.NoError(t, err)

	e, err := tile.EdgeAt(id.LocalID)
	require.NoError(t, err)
	require.NotNil(t, e.ShapePtr)
	require.NotNil(t, e.AttrPtr)

	gotShape := tile.ReadShape(*e.ShapePtr)
	require.Len(t, gotShape, 3)
	assert.InDelta(t, 0.0005, gotShape[1].Lon, 1e-9)

	gotAttrs := tile.ReadAttrs(*e.AttrPtr)
	v, ok := gotAttrs.Get("highway")
	require.True(t, ok)
	assert.Equal(t, "residential", v)
}

func TestCloneIsIndependent(t *testing.T) {
	tile := New(testZoom, TileID(testZoom, 100, 100))
	a := tile.AddVertex(0, 0)
	b := tile.AddVertex(0.001, 0)
	_, err := tile.AddEdge(a, b, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	clone := tile.Clone()
	c := clone.AddVertex(0.002, 0)
	_, err = clone.AddEdge(b, c, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, tile.NumVertices())
	assert.Equal(t, 1, tile.NumEdges())
	assert.Equal(t, 3, clone.NumVertices())
	assert.Equal(t, 2, clone.NumEdges())
}

func TestTurnCostLookup(t *testing.T) {
	tile := New(testZoom, TileID(testZoom, 100, 100))
	a := tile.AddVertex(0, 0)
	b := tile.AddVertex(0.001, 0)
	c := tile.AddVertex(0.002, 0.001)

	e1, err := tile.AddEdge(a, b, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	e2, err := tile.AddEdge(b, c, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	err = tile.AddTurnCost(b, 1, []EdgeId{e1, e2}, []float64{0, 5, 5, 0})
	require.NoError(t, err)

	cost, ok := tile.TurnCost(b, 1, e1, e2)
	require.True(t, ok)
	assert.Equal(t, 5.0, cost)

	_, ok = tile.TurnCost(b, 2, e1, e2)
	assert.False(t, ok)
}

func TestAddTurnCostRejectsDegreeChangeOnReregistration(t *testing.T) {
	tile := New(testZoom, TileID(testZoom, 100, 100))
	a := tile.AddVertex(0, 0)
	b := tile.AddVertex(0.001, 0)
	c := tile.AddVertex(0.002, 0.001)

	e1, err := tile.AddEdge(a, b, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	e2, err := tile.AddEdge(b, c, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, tile.AddTurnCost(b, 1, []EdgeId{e1, e2}, []float64{0, 5, 5, 0}))

	err = tile.AddTurnCost(b, 1, []EdgeId{e1}, []float64{0})
	require.ErrorIs(t, err, ErrInvalidArgument)

	cost, ok := tile.TurnCost(b, 1, e1, e2)
	require.True(t, ok)
	assert.Equal(t, 5.0, cost, "a rejected re-registration must not overwrite the existing matrix")
}
