// Package store implements a parametric packed component store: a
// sparse-set container giving O(1) add/remove/has and O(n) packed,
// insertion-then-swap-order iteration over a fixed maximum number of
// entities.
//
// # Invariants
//
// For a Store S with N = capacity and count = len(S.dense):
//
//	for every live entity e, S.dense[S.sparse[e]] == e
//	the first S.count slots of dense hold exactly the live entities,
//	    with no holes
//	count <= N and no entity is stored twice
//	Remove uses swap-with-last then pop; dense/data never develop holes
//
// Stores hold payloads by value in a Go slice rather than a raw byte pool
// with a manual stride, since Go generics give the same fixed-shape,
// no-pointer-escape guarantee without the unsafe casting the original
// byte-pool design needed in a language without generics.
package store
