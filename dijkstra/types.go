// File: types.go
// Role: the edge-based search's public call shape — CostFn, the
// settled/queued veto callbacks, functional Options, and Result.

package dijkstra

import (
	"math"

	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/routingnetwork"
)

// MaxCost is the edgeCost sentinel meaning "do not expand". A
// CostFn is never required to return exactly MaxCost for an impassable
// edge — any value >= MaxCost, or <= 0, is treated the same way.
const MaxCost = math.MaxFloat64

// maxOffset is SnapPoint's u16::MAX endpoint sentinel.
const maxOffset uint16 = math.MaxUint16

// maxVisits caps the relaxation loop at 1<<20 pops so a pathological or
// cyclic-cost profile cannot loop forever.
const maxVisits = 1 << 20

// none is the "no predecessor" sentinel for a visit's tree pointer.
const none = -1

// CostFn prices traversing the edge enum is positioned on, in the
// direction enum.Forward() reports, given previousEdges — the trailing
// edge-id list of the path walked so far, oldest first — for turn-cost-
// aware profiles. An edgeCost <= 0 or >= MaxCost means the edge cannot be
// traversed at all; a turnCost < 0 has the same meaning.
type CostFn func(enum *routingnetwork.EdgeEnumerator, previousEdges []graphtile.EdgeId) (edgeCost, turnCost float64)

// VertexPredicate vetoes settling (WithSettled) or queueing (WithQueued)
// a vertex; returning true aborts that step. Doubles as the search's only
// cooperative cancellation channel.
type VertexPredicate func(vertex graphtile.VertexId) bool

// Options configures one Search.Run call.
type Options struct {
	Settled VertexPredicate
	Queued  VertexPredicate
}

// Option is a functional option for Run.
type Option func(*Options)

// WithSettled installs a veto callback consulted on every pop (relaxation step
// 2): returning true skips settling that vertex this pop, without
// aborting the whole search.
func WithSettled(fn VertexPredicate) Option {
	return func(o *Options) { o.Settled = fn }
}

// WithQueued installs a veto callback consulted before pushing a new
// visit (relaxation step 5): returning true for the edge's far
// vertex skips pushing it.
func WithQueued(fn VertexPredicate) Option {
	return func(o *Options) { o.Queued = fn }
}

// Result is one target's outcome: Found=false means no admissible path
// was discovered (an unreachable target, or the heap was exhausted or
// the cap hit before it was reached) — never an error.
type Result struct {
	Path  graphtile.Path
	Cost  float64
	Found bool
}

func invertOffset(o uint16) uint16 { return maxOffset - o }
