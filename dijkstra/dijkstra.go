// File: dijkstra.go
// Role: Search, the reusable edge-based one-to-many Dijkstra engine:
// direction-aware source/target injection onto a partially-used
// edge, u-turn exclusion, per-target early-termination pruning, and path
// tree reconstruction.
// Concurrency: a Search is owned by one goroutine; Run clears all
// reusable state at entry, matching the "thread-local singleton, cleared
// at method entry" contract. Two goroutines must use two Search
// instances.

package dijkstra

import (
	"container/heap"
	"math"

	"github.com/mikelor/routing2/graphtile"
	"github.com/mikelor/routing2/internal/obslog"
	"github.com/mikelor/routing2/routingnetwork"
	"github.com/rs/zerolog"
)

// visitNode records one step of the search tree: "we have just traversed
// edgeID and landed at vertexID". forward is the
// direction edgeID was traversed in; prevPointer indexes the visit this
// one was pushed from, or none for an injected root.
type visitNode struct {
	edgeID      graphtile.EdgeId
	vertexID    graphtile.VertexId
	forward     bool
	prevPointer int
}

// heapItem is one min-heap entry: pointer indexes into Search.visits,
// cost is its cumulative cost, seq is the monotonic insertion order used
// to break cost ties deterministically.
type heapItem struct {
	pointer int
	cost    float64
	seq     uint64
}

type searchHeap []heapItem

func (h searchHeap) Len() int { return len(h) }
func (h searchHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}

	return h[i].seq < h[j].seq
}
func (h searchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *searchHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *searchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// edgeAdmission caches a directed edge's traversability, evaluated with
// an empty previousEdges list (the "can this direction be entered at
// all" question injection and target registration need, independent of
// any turn cost that only applies once a real predecessor edge exists).
type edgeAdmission struct {
	fwdOK, bwdOK     bool
	fwdCost, bwdCost float64
}

// registration is one (vertex, directed edge) slot a target has been
// filed under: "if the relaxation loop is about to traverse edgeID from
// this vertex in direction forward, targetIdx lies fraction of the way
// along it" (injection step 2).
type registration struct {
	targetIdx int
	edgeID    graphtile.EdgeId
	forward   bool
	fraction  float64
}

// targetState is one target's best-known outcome so far.
type targetState struct {
	point    graphtile.SnapPoint
	resolved bool
	cost     float64

	direct     bool // resolved via the same-edge short-circuit, no tree walk needed
	directPath graphtile.Path

	pointer      int // tree pointer of the vertex the final segment departs from
	finalEdge    graphtile.EdgeId
	finalForward bool
}

// Search is a reusable edge-based Dijkstra search. Construct one with New
// per goroutine and call Run/RunOne repeatedly; state is cleared at the
// start of every call.
type Search struct {
	visits     []visitNode
	heap       searchHeap
	settledSet map[graphtile.VertexId]bool
	seq        uint64
	log        zerolog.Logger
}

// New returns an empty, ready-to-use Search.
func New() *Search {
	return &Search{log: obslog.Component("dijkstra")}
}

func (s *Search) reset() {
	s.visits = s.visits[:0]
	s.heap = s.heap[:0]
	s.seq = 0
	if s.settledSet == nil {
		s.settledSet = make(map[graphtile.VertexId]bool)
		return
	}
	for k := range s.settledSet {
		delete(s.settledSet, k)
	}
}

func (s *Search) pushVisit(edgeID graphtile.EdgeId, vertexID graphtile.VertexId, forward bool, prevPointer int, cost float64) int {
	s.visits = append(s.visits, visitNode{edgeID: edgeID, vertexID: vertexID, forward: forward, prevPointer: prevPointer})
	pointer := len(s.visits) - 1
	s.seq++
	heap.Push(&s.heap, heapItem{pointer: pointer, cost: cost, seq: s.seq})

	return pointer
}

// previousEdges walks the tree backward from pointer, returning the
// traversed edge ids oldest-first — the trailing edge-id list a
// turn-cost-aware CostFn consults.
func (s *Search) previousEdges(pointer int) []graphtile.EdgeId {
	var edges []graphtile.EdgeId
	for p := pointer; p != none; p = s.visits[p].prevPointer {
		edges = append(edges, s.visits[p].edgeID)
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return edges
}

func (s *Search) reconstruct(pointer int) []graphtile.PathSegment {
	var segs []graphtile.PathSegment
	for p := pointer; p != none; p = s.visits[p].prevPointer {
		segs = append(segs, graphtile.PathSegment{EdgeID: s.visits[p].edgeID, Forward: s.visits[p].forward})
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}

	return segs
}

// targetBound returns the early-termination bound (step 3): +Inf
// until every target has a resolved cost, then the worst (maximum) of
// those costs — beyond which no further relaxation, whose cost only
// grows as the heap drains, could improve any target.
func targetBound(states []*targetState, resolvedCount int) float64 {
	if resolvedCount < len(states) {
		return math.Inf(1)
	}
	bound := 0.0
	for _, st := range states {
		if st.cost > bound {
			bound = st.cost
		}
	}

	return bound
}

// RunOne is the one-to-one convenience wrapper around Run.
func (s *Search) RunOne(net *routingnetwork.RoutingNetwork, source, target graphtile.SnapPoint, cost CostFn, opts ...Option) Result {
	return s.Run(net, source, []graphtile.SnapPoint{target}, cost, opts...)[0]
}

// Run computes the least-cost edge-based path from source to every one
// of targets, returning one Result per target in the same order as
// targets, agreeing pointwise with a one-to-one search run against each
// target individually.
func (s *Search) Run(net *routingnetwork.RoutingNetwork, source graphtile.SnapPoint, targets []graphtile.SnapPoint, cost CostFn, opts ...Option) []Result {
	if net == nil {
		panic("dijkstra: net must not be nil")
	}
	if cost == nil {
		panic("dijkstra: cost must not be nil")
	}

	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}

	s.reset()

	results := make([]Result, len(targets))
	for i := range results {
		results[i].Cost = math.Inf(1)
	}
	if len(targets) == 0 {
		return results
	}

	enum := net.GetEdgeEnumerator()

	evalEdge := func(edgeID graphtile.EdgeId, forward bool, previousEdges []graphtile.EdgeId) (edgeCost, turnCost float64, ok bool) {
		if !enum.MoveToDirected(edgeID, forward) {
			return 0, 0, false
		}
		edgeCost, turnCost = cost(enum, previousEdges)
		if edgeCost <= 0 || edgeCost >= MaxCost || turnCost < 0 {
			return 0, 0, false
		}

		return edgeCost, turnCost, true
	}

	endpointsCache := make(map[graphtile.EdgeId][2]graphtile.VertexId)
	endpointsOf := func(edgeID graphtile.EdgeId) (from, to graphtile.VertexId, ok bool) {
		if v, cached := endpointsCache[edgeID]; cached {
			return v[0], v[1], true
		}
		if !enum.MoveTo(edgeID) {
			return graphtile.VertexId{}, graphtile.VertexId{}, false
		}
		from, to = enum.From(), enum.To()
		endpointsCache[edgeID] = [2]graphtile.VertexId{from, to}

		return from, to, true
	}

	admissionCache := make(map[graphtile.EdgeId]edgeAdmission)
	admissionOf := func(edgeID graphtile.EdgeId) edgeAdmission {
		if a, cached := admissionCache[edgeID]; cached {
			return a
		}
		fc, _, fok := evalEdge(edgeID, true, nil)
		bc, _, bok := evalEdge(edgeID, false, nil)
		a := edgeAdmission{fwdOK: fok, fwdCost: fc, bwdOK: bok, bwdCost: bc}
		admissionCache[edgeID] = a

		return a
	}

	srcFrom, srcTo, srcOK := endpointsOf(source.EdgeID)
	if !srcOK {
		s.log.Debug().Msg("source edge not resident, no injection possible")
		return results
	}
	srcAdm := admissionOf(source.EdgeID)
	srcFactor := source.OffsetFactor()

	if srcAdm.fwdOK {
		s.pushVisit(source.EdgeID, srcTo, true, none, srcAdm.fwdCost*(1-srcFactor))
	}
	if srcAdm.bwdOK {
		s.pushVisit(source.EdgeID, srcFrom, false, none, srcAdm.bwdCost*srcFactor)
	}

	states := make([]*targetState, len(targets))
	registrations := make(map[graphtile.VertexId][]registration)
	resolvedCount := 0

	for i, t := range targets {
		st := &targetState{point: t, cost: math.Inf(1), pointer: none}
		states[i] = st

		tgtFrom, tgtTo, ok := endpointsOf(t.EdgeID)
		if !ok {
			continue
		}
		adm := admissionOf(t.EdgeID)
		tf := t.OffsetFactor()
		if adm.fwdOK {
			registrations[tgtFrom] = append(registrations[tgtFrom], registration{targetIdx: i, edgeID: t.EdgeID, forward: true, fraction: tf})
		}
		if adm.bwdOK {
			registrations[tgtTo] = append(registrations[tgtTo], registration{targetIdx: i, edgeID: t.EdgeID, forward: false, fraction: 1 - tf})
		}

		if t.EdgeID != source.EdgeID {
			continue
		}
		// Same-edge short-circuit (injection step 2): a direct path
		// along the shared edge, seeded only when its direction is
		// admissible — a direction mismatch (e.g. a one-way street) is
		// left to ordinary registration, which can still find a detour.
		switch {
		case tf == srcFactor:
			if !adm.fwdOK && !adm.bwdOK {
				continue
			}
			dir := adm.fwdOK // degenerate zero-cost path; forward preferred when both admit
			off := source.Offset
			if !dir {
				off = invertOffset(off)
			}
			st.resolved, st.direct, st.cost = true, true, 0
			st.directPath = graphtile.Path{Segments: []graphtile.PathSegment{{EdgeID: t.EdgeID, Forward: dir}}, Offset1: off, Offset2: off}
			resolvedCount++
		case tf > srcFactor && adm.fwdOK:
			st.resolved, st.direct = true, true
			st.cost = adm.fwdCost * (tf - srcFactor)
			st.directPath = graphtile.Path{
				Segments: []graphtile.PathSegment{{EdgeID: t.EdgeID, Forward: true}},
				Offset1:  source.Offset,
				Offset2:  t.Offset,
			}
			resolvedCount++
		case tf < srcFactor && adm.bwdOK:
			st.resolved, st.direct = true, true
			st.cost = adm.bwdCost * (srcFactor - tf)
			st.directPath = graphtile.Path{
				Segments: []graphtile.PathSegment{{EdgeID: t.EdgeID, Forward: false}},
				Offset1:  invertOffset(source.Offset),
				Offset2:  invertOffset(t.Offset),
			}
			resolvedCount++
		}
	}

	visitsProcessed := 0
	for s.heap.Len() > 0 && visitsProcessed < maxVisits {
		item := heap.Pop(&s.heap).(heapItem)
		visitsProcessed++
		current := s.visits[item.pointer]

		if s.settledSet[current.vertexID] {
			continue
		}
		if cfg.Settled != nil && cfg.Settled(current.vertexID) {
			continue
		}
		if item.cost >= targetBound(states, resolvedCount) {
			break
		}
		s.settledSet[current.vertexID] = true

		prevEdges := s.previousEdges(item.pointer)

		for _, out := range net.OutgoingEdges(current.vertexID) {
			if out.EdgeID == current.edgeID {
				continue // no u-turns
			}
			edgeCost, turnCost, ok := evalEdge(out.EdgeID, out.Forward, prevEdges)
			if !ok {
				continue
			}

			for _, reg := range registrations[current.vertexID] {
				if reg.edgeID != out.EdgeID || reg.forward != out.Forward {
					continue
				}
				st := states[reg.targetIdx]
				candidate := item.cost + turnCost + edgeCost*reg.fraction
				if candidate >= st.cost {
					continue
				}
				if !st.resolved {
					resolvedCount++
				}
				st.resolved, st.direct = true, false
				st.cost = candidate
				st.pointer, st.finalEdge, st.finalForward = item.pointer, out.EdgeID, out.Forward
			}

			if s.settledSet[out.Other] {
				continue
			}
			if cfg.Queued != nil && cfg.Queued(out.Other) {
				continue
			}
			s.pushVisit(out.EdgeID, out.Other, out.Forward, item.pointer, item.cost+turnCost+edgeCost)
		}
	}

	if visitsProcessed >= maxVisits {
		s.log.Warn().Int("visits", visitsProcessed).Msg("edge-based search hit its safety cap")
	}
	s.log.Debug().Int("visits", visitsProcessed).Int("resolved", resolvedCount).Int("targets", len(targets)).Msg("search complete")

	for i, st := range states {
		if !st.resolved {
			continue
		}
		results[i].Found = true
		results[i].Cost = st.cost
		if st.direct {
			results[i].Path = st.directPath
			continue
		}
		segs := s.reconstruct(st.pointer)
		segs = append(segs, graphtile.PathSegment{EdgeID: st.finalEdge, Forward: st.finalForward})
		off1 := source.Offset
		if !segs[0].Forward {
			off1 = invertOffset(off1)
		}
		off2 := st.point.Offset
		if !segs[len(segs)-1].Forward {
			off2 = invertOffset(off2)
		}
		results[i].Path = graphtile.Path{Segments: segs, Offset1: off1, Offset2: off2}
	}

	return results
}
