package graph

import (
	"math/rand"
	"time"
)

// MaintenanceOptions configures the online graph-update operations.
type MaintenanceOptions struct {
	// UpdateDepth bounds how many hops FastAdd walks outward from its
	// random starting points while looking for candidate neighbors. The
	// source this package is derived from accepted an UpdateDepth
	// parameter on fastAdd and then silently ignored it, always walking
	// one hop; that is treated as a bug here, not preserved: FastAdd
	// honors the depth it is given.
	UpdateDepth int
	RandomJumps int
	Rand        *rand.Rand
	Stats       *StatisticsContainer
}

func (o *MaintenanceOptions) normalize() {
	if o.UpdateDepth <= 0 {
		o.UpdateDepth = 3
	}
	if o.RandomJumps <= 0 {
		o.RandomJumps = 2
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// FastAdd inserts value under id into g, wiring up to K outgoing edges by
// walking outward from a handful of random nodes (the same strategy
// Search uses), then offering id as a candidate neighbor to every node it
// visited. Each walk is a breadth-first expansion of UpdateDepth levels,
// so its work grows with k^UpdateDepth per random start rather than with
// the graph size, at the cost of recall.
func FastAdd[T any](g *Graph[T], id NodeID, value T, opts MaintenanceOptions) (*Node[T], error) {
	opts.normalize()
	if _, ok := g.Node(id); ok {
		return nil, ErrDuplicateItem
	}

	n, err := g.AddNode(id, value)
	if err != nil {
		return nil, err
	}

	ids := g.NodeIDs()
	if len(ids) <= 1 {
		return n, nil
	}

	sim := g.Similarity()
	ownList := g.ensureList(id)
	visited := map[NodeID]bool{id: true}

	considerAsNeighborOfNew := func(candidate NodeID) {
		if visited[candidate] {
			return
		}
		visited[candidate] = true
		other, ok := g.Node(candidate)
		if !ok {
			return
		}
		s := sim.Compute(value, other.Value)
		opts.Stats.addAddSimilarity()
		ownList.Add(Neighbor[T]{Node: other, Similarity: s})
		if otherList, ok := g.Neighbors(candidate); ok {
			otherList.Add(Neighbor[T]{Node: n, Similarity: s})
		}
	}

	for jump := 0; jump < opts.RandomJumps; jump++ {
		frontier := []NodeID{ids[opts.Rand.Intn(len(ids))]}
		for depth := 0; depth < opts.UpdateDepth && len(frontier) > 0; depth++ {
			var next []NodeID
			for _, cur := range frontier {
				considerAsNeighborOfNew(cur)
				nl, ok := g.Neighbors(cur)
				if !ok {
					continue
				}
				for _, nb := range nl.ToSlice() {
					if !visited[nb.Node.ID] {
						next = append(next, nb.Node.ID)
					}
				}
			}
			frontier = next
		}
	}

	return n, nil
}

// FastRemove deletes id from g and repairs every neighbor list that
// referenced it by offering every node within UpdateDepth hops of the
// referrer as a candidate for the freed slot, without a full rescan. Lists that cannot
// find a replacement simply shrink below K; this is the price of not
// doing a brute-force repair.
func FastRemove[T any](g *Graph[T], id NodeID, opts MaintenanceOptions) error {
	opts.normalize()
	if _, ok := g.Node(id); !ok {
		return ErrItemNotFound
	}

	referrers := affectedBy(g, id)

	if !g.RemoveNode(id) {
		return ErrItemNotFound
	}

	sim := g.Similarity()
	for _, referrerID := range referrers {
		referrerList, ok := g.Neighbors(referrerID)
		if !ok {
			continue
		}
		referrerList.Remove(id)

		referrer, ok := g.Node(referrerID)
		if !ok {
			continue
		}
		for _, candidateID := range FindNeighbors(g, referrerID, opts.UpdateDepth) {
			if candidateID == referrerID || referrerList.Contains(candidateID) {
				continue
			}
			candidate, ok := g.Node(candidateID)
			if !ok {
				continue
			}
			s := sim.Compute(referrer.Value, candidate.Value)
			opts.Stats.addRemoveSimilarity()
			referrerList.Add(Neighbor[T]{Node: candidate, Similarity: s})
		}
	}

	return nil
}

func affectedBy[T any](g *Graph[T], id NodeID) []NodeID {
	var referrers []NodeID
	for _, n := range g.Nodes() {
		if n.ID == id {
			continue
		}
		nl, ok := g.Neighbors(n.ID)
		if !ok {
			continue
		}
		if nl.Contains(id) {
			referrers = append(referrers, n.ID)
		}
	}
	return referrers
}

// SlidingWindow evicts the oldest nodes from g, by insertion order, until
// its size is at most maxSize. It is typically called right after FastAdd
// when a caller wants to keep the graph bounded to a fixed-size window of
// recent items.
func SlidingWindow[T any](g *Graph[T], maxSize int, opts MaintenanceOptions) (evicted []NodeID, err error) {
	if maxSize < 1 {
		return nil, ErrInvalidWindow
	}
	for g.Size() > maxSize {
		oldest, ok := g.OldestNode()
		if !ok {
			break
		}
		if err := FastRemove(g, oldest, opts); err != nil {
			return evicted, err
		}
		evicted = append(evicted, oldest)
	}
	return evicted, nil
}
