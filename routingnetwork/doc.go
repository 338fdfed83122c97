// Package routingnetwork implements the network lifecycle: RoutingNetwork (an
// immutable, atomically-publishable collection of tiles plus the attribute
// indices that classify them), RouterDb (the long-lived handle that owns the
// published Latest snapshot), and the two exclusive edit handles — GraphWriter
// (append-only, mutates the live network in place) and GraphMutator
// (copy-on-write, clones a tile the first time it is touched and publishes a
// brand new RoutingNetwork on Commit).
//
// At most one writer or mutator may be live at a time; RouterDb enforces this
// with a three-state machine (idle, writer out, mutator out) guarded by a
// mutex, rather than a bare sync.Mutex.Lock around the whole edit.
package routingnetwork
