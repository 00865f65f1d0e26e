// Package graph provides a bounded-neighbor-list k-NN graph container,
// together with the builders, search engine, online maintenance and
// graph-theoretic utilities that operate on it.
package graph

// NodeID identifies an item stored in a Graph. Identity is by id, not by
// the value of T: two nodes with equal Value but different IDs are
// distinct, and a Graph never compares T for equality.
type NodeID string

// Node pairs a stable identity with the opaque payload a Similarity
// function knows how to compare. Nodes are immutable once created; callers
// that need to change the payload remove and re-add the item.
type Node[T any] struct {
	ID    NodeID
	Value T
}
