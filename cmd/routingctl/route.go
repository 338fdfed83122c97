// File: route.go
// Role: the "route" subcommand: ingest the demo grid, snap a source and
// a target coordinate onto it, run the edge-based search, and print the
// result.

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mikelor/routing2/dijkstra"
	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/ingest"
	"github.com/mikelor/routing2/routingnetwork"
	"github.com/mikelor/routing2/snap"
	"github.com/spf13/cobra"
)

func newRouteCmd() *cobra.Command {
	var sourceLon, sourceLat, targetLon, targetLat float64

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Snap two points onto the demo grid and print the shortest route between them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, sourceLon, sourceLat, targetLon, targetLat)
		},
	}

	defaultSourceLon, defaultSourceLat := vertexIndex(gridSize, gridSpacing, 0, 0)
	defaultTargetLon, defaultTargetLat := vertexIndex(gridSize, gridSpacing, gridSize-1, gridSize-1)
	cmd.Flags().Float64Var(&sourceLon, "source-lon", defaultSourceLon, "source longitude")
	cmd.Flags().Float64Var(&sourceLat, "source-lat", defaultSourceLat, "source latitude")
	cmd.Flags().Float64Var(&targetLon, "target-lon", defaultTargetLon, "target longitude")
	cmd.Flags().Float64Var(&targetLat, "target-lat", defaultTargetLat, "target latitude")

	return cmd
}

// unitLengthCost treats every demo edge as one unit long in both
// directions with no turn cost, so a caller can read the result cost as
// a plain hop count.
func unitLengthCost(_ *routingnetwork.EdgeEnumerator, _ []graphtile.EdgeId) (float64, float64) {
	return 1, 0
}

func runRoute(cmd *cobra.Command, sourceLon, sourceLat, targetLon, targetLat float64) error {
	db := routingnetwork.NewRouterDb(demoZoom)
	w, err := db.GetWriter()
	if err != nil {
		return fmt.Errorf("routingctl: acquiring writer: %w", err)
	}
	if err := ingest.Run(w, demoZoom, newGridSource(gridSize, gridSpacing), nil, nil); err != nil {
		return fmt.Errorf("routingctl: ingesting demo grid: %w", err)
	}
	w.Release()

	net := db.Latest()
	box := routingnetwork.Box{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1}
	snapper := snap.NewSnapper()

	src, ok := snap.SnapInBox(snapper, net, box, snap.Point{Lon: sourceLon, Lat: sourceLat}, nil)
	if !ok {
		return fmt.Errorf("routingctl: no edge found to snap the source point onto")
	}
	dst, ok := snap.SnapInBox(snapper, net, box, snap.Point{Lon: targetLon, Lat: targetLat}, nil)
	if !ok {
		return fmt.Errorf("routingctl: no edge found to snap the target point onto")
	}

	result := dijkstra.New().RunOne(net, src.SnapPoint(), dst.SnapPoint(), unitLengthCost)
	if !result.Found {
		fmt.Fprintln(cmd.OutOrStdout(), "no route found")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "route found: %s edges, cost=%.2f\n",
		humanize.Comma(int64(len(result.Path.Edges()))),
		result.Cost)

	return nil
}
