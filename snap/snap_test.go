package snap

import (
	"testing"

	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/routingnetwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testZoom uint8 = 14

func buildTestNetwork(t *testing.T) (*routingnetwork.RouterDb, graphtile.VertexId, graphtile.VertexId, graphtile.EdgeId) {
	t.Helper()
	db := routingnetwork.NewRouterDb(testZoom)
	w, err := db.GetWriter()
	require.NoError(t, err)
	tileID := graphtile.TileIDForLonLat(testZoom, 10.0, 20.0)
	a := w.AddVertex(tileID, 10.0, 20.0)
	b := w.AddVertex(tileID, 10.001, 20.0)
	edgeID, err := w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	return db, a, b, edgeID
}

func TestSnapInBoxLandsOnNearestEdge(t *testing.T) {
	db, a, _, edgeID := buildTestNetwork(t)
	net := db.Latest()
	box := routingnetwork.Box{MinLon: 9.9, MinLat: 19.9, MaxLon: 10.1, MaxLat: 20.1}

	s := NewSnapper()
	result, ok := SnapInBox(s, net, box, Point{Lon: 10.0, Lat: 20.000005}, nil)
	require.True(t, ok)
	assert.Equal(t, edgeID, result.EdgeID)
	assert.Equal(t, a, result.AtVertex)
	assert.Less(t, result.DistanceMeters, 1.0)
}

func TestSnapInBoxRejectsViaAcceptableFn(t *testing.T) {
	db, _, _, _ := buildTestNetwork(t)
	net := db.Latest()
	box := routingnetwork.Box{MinLon: 9.9, MinLat: 19.9, MaxLon: 10.1, MaxLat: 20.1}

	s := NewSnapper()
	rejectAll := func(graphtile.Edge) bool { return false }
	_, ok := SnapInBox(s, net, box, Point{Lon: 10.0, Lat: 20.0}, rejectAll)
	assert.False(t, ok)
}

func TestAcceptableIsCachedPerEdge(t *testing.T) {
	db, _, _, _ := buildTestNetwork(t)
	net := db.Latest()
	box := routingnetwork.Box{MinLon: 9.9, MinLat: 19.9, MaxLon: 10.1, MaxLat: 20.1}

	calls := 0
	countingFn := func(graphtile.Edge) bool {
		calls++
		return true
	}
	s := NewSnapper()
	_, ok := SnapInBox(s, net, box, Point{Lon: 10.0, Lat: 20.0}, countingFn)
	require.True(t, ok)
	_, ok = SnapInBox(s, net, box, Point{Lon: 10.0005, Lat: 20.0}, countingFn)
	require.True(t, ok)
	assert.Equal(t, 1, calls, "acceptable predicate must only run once per edge across calls on the same Snapper")
}

func TestSnapAllInBoxOrdersNearestFirstAndFiltersVertexOnly(t *testing.T) {
	db := routingnetwork.NewRouterDb(testZoom)
	w, err := db.GetWriter()
	require.NoError(t, err)
	tileID := graphtile.TileIDForLonLat(testZoom, 10.0, 20.0)
	a := w.AddVertex(tileID, 10.0, 20.0)
	b := w.AddVertex(tileID, 10.001, 20.0)
	c := w.AddVertex(tileID, 10.0, 20.002)
	_, err = w.AddEdge(a, b, nil, nil, nil, nil)
	require.NoError(t, err)
	_, err = w.AddEdge(a, c, nil, nil, nil, nil)
	require.NoError(t, err)
	w.Release()

	net := db.Latest()
	box := routingnetwork.Box{MinLon: 9.9, MinLat: 19.9, MaxLon: 10.1, MaxLat: 20.1}
	s := NewSnapper()

	all := SnapAllInBox(s, net, box, Point{Lon: 10.0003, Lat: 20.0}, nil, false)
	require.Len(t, all, 2)
	assert.LessOrEqual(t, all[0].DistanceMeters, all[1].DistanceMeters)

	// At (10.0005, 19.9999), just south of the a-b line: edge a-b's nearest
	// projection lands in its interior (AtVertex empty), while edge a-c,
	// which runs north from a, has a itself as its nearest point (AtVertex
	// set). vertexOnly=true must keep only the interior (non-vertex)
	// candidate.
	withoutAll := SnapAllInBox(s, net, box, Point{Lon: 10.0005, Lat: 19.9999}, nil, false)
	require.Len(t, withoutAll, 2)

	interiorOnly := SnapAllInBox(s, net, box, Point{Lon: 10.0005, Lat: 19.9999}, nil, true)
	require.Len(t, interiorOnly, 1)
	assert.True(t, interiorOnly[0].AtVertex.IsEmpty())
}
