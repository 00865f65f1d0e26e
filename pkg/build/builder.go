// Package build provides the k-NN graph builders: brute force (serial and
// parallel), NN-Descent, and LSH partitioning.
package build

import "github.com/kgraph/kgraph/pkg/graph"

// Builder constructs a Graph over exactly the items it is given. Every
// builder in this package implements it, so callers can swap brute force
// for NN-Descent or LSH partitioning without touching the rest of their
// code — the inner-builder slot on the LSH builder (lsh.go) is exactly
// this interface.
type Builder[T any] interface {
	Build(items []Item[T], similarity graph.Similarity[T]) (*graph.Graph[T], error)
}

// Item is the input to a builder: an id paired with a value, kept
// separate from graph.Node so callers don't have to construct a Graph
// just to name their items.
type Item[T any] struct {
	ID    graph.NodeID
	Value T
}

func newGraphWithNodes[T any](items []Item[T], k int, similarity graph.Similarity[T]) (*graph.Graph[T], error) {
	g, err := graph.NewGraph(k, similarity)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if _, err := g.AddNode(it.ID, it.Value); err != nil {
			return nil, err
		}
	}
	return g, nil
}
