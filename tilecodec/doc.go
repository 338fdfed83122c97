// Package tilecodec packs and unpacks the low-level records a graph tile is
// built from: 7-bit little-endian variable-length integers, the nullable
// "absent is zero" pointer convention, and little-endian fixed-width
// integers of at most 8 bytes.
//
// Every decode in this package trusts its input: corruption detection is out
// of scope (the trust boundary is the serializer that produced the bytes),
// matching the error model of the routing engine's tile layer.
//
// Callers almost never need the package-level Read/Write functions directly;
// Buffer is the append-only growable arena that backs a tile's byte stores
// (edges, shapes, attributes, strings, coordinates) and is the
// intended entry point.
package tilecodec
