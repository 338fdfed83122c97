// Package dijkstra implements the edge-based one-to-many Dijkstra search:
// a shortest-path search whose states are (edge, vertex) pairs rather than
// bare vertices, so u-turns can be excluded and a turn-cost callback can
// see the edge just arrived on.
//
// Overview:
//
//   - A Search instance retains its visit list, min-heap and settled set
//     across calls, in the spirit of a thread-local singleton: construct one per
//     goroutine with New and reuse it; Run clears all three at entry.
//   - Run takes a source SnapPoint and one or more target SnapPoints and
//     returns one Result per target; RunOne is the one-to-one convenience
//     wrapper. Run(net, src, []SnapPoint{a, b})[i] always agrees with
//     RunOne(net, src, {a,b}[i]).
//   - The caller supplies a CostFn: given a positioned, directed
//     EdgeEnumerator and the trailing edge-id list of the path so far, it
//     returns (edgeCost, turnCost). A non-positive or >= MaxCost edgeCost,
//     or a negative turnCost, means "cannot traverse" and the edge is
//     skipped entirely.
//   - Optional WithSettled/WithQueued predicates let a caller veto
//     settling or queueing a vertex, doubling as the search's only
//     cancellation mechanism.
//
// Complexity: the relaxation loop pops at most one visit per pushed edge
// traversal, so it is O((V + E) log(V + E)) in the usual Dijkstra sense,
// capped at 1<<20 visits regardless so a pathological
// or cyclic-cost profile cannot loop forever.
//
// Determinism: heap ties are broken by insertion order (a monotonic
// sequence number), so the same network snapshot and a deterministic
// CostFn always produce the same Result slice — ordering and
// determinism").
//
// Error handling: a "no route" outcome is not an error — it is a Result
// with Found=false: the search itself never raises an error for no
// route"). A nil net or CostFn is a caller bug and panics rather than
// returning an error.
package dijkstra
