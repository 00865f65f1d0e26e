package graph

import (
	"sync"
)

// Graph is a container of nodes, each carrying a bounded NeighborList of
// its k most similar other nodes. A Graph never computes similarities on
// its own: builders populate it, FastAdd/FastRemove update it
// incrementally, and the search engine reads it.
//
// A Graph is safe for concurrent use by multiple goroutines: the node map
// is guarded by a mutex, while each NeighborList guards itself.
type Graph[T any] struct {
	mu         sync.RWMutex
	k          int
	similarity Similarity[T]
	nodes      map[NodeID]*Node[T]
	lists      map[NodeID]*NeighborList[T]

	// sequence is a side-table, not a per-item attribute: it records
	// insertion order for the sliding-window eviction policy without
	// requiring every item type to carry a sequence number itself.
	seqMu      sync.Mutex
	sequence   map[NodeID]int64
	nextSeqNum int64
}

// NewGraph creates an empty graph bounded at k neighbors per node. k must
// be >= 1.
func NewGraph[T any](k int, similarity Similarity[T]) (*Graph[T], error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if similarity == nil {
		return nil, &InvalidParameterError{Parameter: "similarity", Value: nil, Reason: "must not be nil"}
	}
	return &Graph[T]{
		k:          k,
		similarity: similarity,
		nodes:      make(map[NodeID]*Node[T]),
		lists:      make(map[NodeID]*NeighborList[T]),
		sequence:   make(map[NodeID]int64),
	}, nil
}

// K returns the per-node neighbor-list capacity.
func (g *Graph[T]) K() int { return g.k }

// Similarity returns the similarity function the graph was built with.
func (g *Graph[T]) Similarity() Similarity[T] { return g.similarity }

// Size returns the number of nodes in the graph.
func (g *Graph[T]) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// AddNode registers item under id with an empty neighbor list, returning
// ErrDuplicateItem if id is already present. It does not compute any
// similarities; callers populate the neighbor list separately (a builder)
// or via FastAdd.
func (g *Graph[T]) AddNode(id NodeID, value T) (*Node[T], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[id]; exists {
		return nil, ErrDuplicateItem
	}
	n := &Node[T]{ID: id, Value: value}
	g.nodes[id] = n
	g.lists[id] = NewNeighborList[T](g.k)
	g.markSequence(id)
	return n, nil
}

func (g *Graph[T]) markSequence(id NodeID) {
	g.seqMu.Lock()
	defer g.seqMu.Unlock()
	g.sequence[id] = g.nextSeqNum
	g.nextSeqNum++
}

// Sequence returns the insertion order of id, used by the sliding-window
// maintenance policy to find the oldest node.
func (g *Graph[T]) Sequence(id NodeID) (int64, bool) {
	g.seqMu.Lock()
	defer g.seqMu.Unlock()
	seq, ok := g.sequence[id]
	return seq, ok
}

// OldestNode returns the id with the smallest sequence number, and false
// if the graph is empty.
func (g *Graph[T]) OldestNode() (NodeID, bool) {
	g.seqMu.Lock()
	defer g.seqMu.Unlock()
	var (
		oldestID  NodeID
		oldestSeq int64
		found     bool
	)
	for id, seq := range g.sequence {
		if !found || seq < oldestSeq {
			oldestID, oldestSeq, found = id, seq, true
		}
	}
	return oldestID, found
}

// Node returns the node stored under id.
func (g *Graph[T]) Node(id NodeID) (*Node[T], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Neighbors returns the NeighborList for id. The returned list is the
// graph's own, live list: mutating it mutates the graph.
func (g *Graph[T]) Neighbors(id NodeID) (*NeighborList[T], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nl, ok := g.lists[id]
	return nl, ok
}

// Nodes returns every node in the graph, in no particular order.
func (g *Graph[T]) Nodes() []*Node[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node[T], 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// NodeIDs returns every node id in the graph, in no particular order.
func (g *Graph[T]) NodeIDs() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	return out
}

// RemoveNode deletes id and its neighbor list from the graph. It does not
// touch other nodes' neighbor lists; use FastRemove (maintenance.go) to
// also repair incoming references.
func (g *Graph[T]) RemoveNode(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	delete(g.lists, id)
	g.seqMu.Lock()
	delete(g.sequence, id)
	g.seqMu.Unlock()
	return true
}

// ensureList returns the node's neighbor list, creating an empty one if
// the node exists but has none yet (FastAdd uses it for the node it has
// just added).
func (g *Graph[T]) ensureList(id NodeID) *NeighborList[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	nl, ok := g.lists[id]
	if !ok {
		nl = NewNeighborList[T](g.k)
		g.lists[id] = nl
	}
	return nl
}
