// Package attridx implements the bidirectional attribute-set index:
// stable compact integer ids for the distinct classification results a
// classification function produces from full attribute bags, plus the
// classification-function replacement / generation-invalidation protocol
// that lets tiles know whether their edge_type_id column is stale.
//
// The interning idiom is dense id allocation with "first write wins"
// identity preserved across rebuilds; the generation counter and
// ClassifyFn replacement exist to let a tile know whether its cached
// classification id is stale without rescanning every bag.
package attridx

import (
	"sync"

	"github.com/mikelor/routing2/attrbag"
	"github.com/mikelor/routing2/internal/obslog"
)

// ClassifyFn reduces a full edge (or turn) attribute bag to a — typically
// smaller — classification bag. It must be a pure function: the same input
// bag always produces the same output bag.
type ClassifyFn func(bag attrbag.Bag) attrbag.Bag

// IdentityClassifyFn is the default classification function: it returns
// the canonicalized input bag unchanged, so every distinct attribute bag
// gets its own id.
func IdentityClassifyFn(bag attrbag.Bag) attrbag.Bag { return bag.Canonical() }

// Index is a bidirectional mapping between canonical classification bags
// and small integer ids, plus the classification function that produced
// them and a generation counter that increments every time the function is
// replaced via Next.
type Index struct {
	mu         sync.RWMutex
	classify   ClassifyFn
	generation uint64
	byKey      map[string]uint32
	bags       []attrbag.Bag
}

// New returns an Index using classify (IdentityClassifyFn if nil) at
// generation 0.
func New(classify ClassifyFn) *Index {
	if classify == nil {
		classify = IdentityClassifyFn
	}

	return &Index{classify: classify, byKey: make(map[string]uint32)}
}

// Generation reports the index's current generation.
func (idx *Index) Generation() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.generation
}

// Get returns the id of classify(bag), interning it if this is the first
// time that classification result has been seen.
func (idx *Index) Get(bag attrbag.Bag) uint32 {
	classified := idx.classify(bag).Canonical()
	key := classified.Key()

	idx.mu.RLock()
	if id, ok := idx.byKey[key]; ok {
		idx.mu.RUnlock()
		return id
	}
	idx.mu.RUnlock()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if id, ok := idx.byKey[key]; ok {
		return id
	}
	id := uint32(len(idx.bags))
	idx.bags = append(idx.bags, classified)
	idx.byKey[key] = id

	return id
}

// Lookup returns the canonical classification bag interned under id.
func (idx *Index) Lookup(id uint32) (attrbag.Bag, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if int(id) >= len(idx.bags) {
		return nil, false
	}

	return idx.bags[id], true
}

// Next returns a new Index using newClassify, with generation :=
// generation+1. Previously interned bags and their ids carry over
// unchanged, so a tile rewritten through the new index can reuse records
// whose classification result did not change — only bags whose
// classification actually changed need new ids, and those are interned
// lazily on first Get.
func (idx *Index) Next(newClassify ClassifyFn) *Index {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	next := &Index{
		classify:   newClassify,
		generation: idx.generation + 1,
		byKey:      make(map[string]uint32, len(idx.byKey)),
		bags:       append([]attrbag.Bag(nil), idx.bags...),
	}
	for k, v := range idx.byKey {
		next.byKey[k] = v
	}

	obslog.Component("attridx").Debug().
		Uint64("generation", next.generation).
		Int("carried_over_ids", len(next.byKey)).
		Msg("replaced classification function")

	return next
}
