package graph

import (
	"math/rand"
	"time"
)

// SearchOptions configures GNNS (Graph Nearest Neighbor Search): a
// hill-climbing approximate search that walks the graph's own edges
// outward from a handful of random starting points instead of scanning
// every node.
type SearchOptions struct {
	K int // how many neighbors to return

	// Speedup caps the similarity-computation budget at graph-size /
	// Speedup; a higher value trades search time for recall. Must be
	// greater than 1.
	Speedup float64

	// Expansion rejects a restart seed whose own similarity falls below
	// globalBest/Expansion, bounding wasted descents from bad seeds.
	Expansion float64

	// LongJumps is the number of random unvisited items sampled at each
	// descent step, in addition to the current node's own neighbors.
	LongJumps int

	Rand  *rand.Rand
	Stats *StatisticsContainer
}

// DefaultSearchOptions returns the options GNNS was tuned with.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{K: 10, Speedup: 4.0, Expansion: 1.2, LongJumps: 2}
}

func (o *SearchOptions) normalize() {
	if o.K <= 0 {
		o.K = 10
	}
	if o.Speedup <= 1 {
		o.Speedup = 4.0
	}
	if o.Expansion < 1 {
		o.Expansion = 1.2
	}
	if o.LongJumps <= 0 {
		o.LongJumps = 2
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// Search runs GNNS for query over g and returns up to K neighbors ordered
// by descending similarity. Search never mutates g.
//
// The walk spends a similarity-computation budget of n/Speedup hill
// climbing from random restarts: each restart picks a random unvisited
// seed and abandons it immediately if it scores below the best descent
// seen so far, scaled down by Expansion. A surviving restart then
// repeatedly scans LongJumps random unvisited items plus its current
// node's own neighbors, greedily stepping to the first one that beats
// its current similarity, until nothing beats it or the budget runs out.
// If the graph is small enough relative to K and Speedup that this
// wouldn't save meaningful work, Search instead compares query against
// every node.
func Search[T any](g *Graph[T], query T, opts SearchOptions) []Neighbor[T] {
	opts.normalize()
	ids := g.NodeIDs()
	n := len(ids)
	if n == 0 {
		return nil
	}

	sim := g.Similarity()
	budget := int(float64(n) / opts.Speedup)

	if opts.K >= n || budget >= n {
		nl := NewNeighborList[T](opts.K)
		for _, id := range ids {
			node, ok := g.Node(id)
			if !ok {
				continue
			}
			s := sim.Compute(query, node.Value)
			opts.Stats.addSearchSimilarity()
			nl.Add(Neighbor[T]{Node: node, Similarity: s})
		}
		return nl.ToSlice()
	}

	visited := make(map[NodeID]float64)
	score := func(id NodeID) float64 {
		if s, ok := visited[id]; ok {
			return s
		}
		node, ok := g.Node(id)
		if !ok {
			return 0
		}
		s := sim.Compute(query, node.Value)
		opts.Stats.addSearchSimilarity()
		visited[id] = s
		return s
	}

	globalBest := 0.0
	for len(visited) < budget {
		opts.Stats.addSearchRestart()
		cur := ids[opts.Rand.Intn(n)]
		if _, already := visited[cur]; already {
			continue
		}
		curSim := score(cur)
		if curSim < globalBest/opts.Expansion {
			continue
		}

		for len(visited) < budget {
			nl, ok := g.Neighbors(cur)
			if !ok {
				opts.Stats.addSearchCrossPartitionRestart()
				break
			}

			var better NodeID
			found := false

			for j := 0; j < opts.LongJumps; j++ {
				candidate := ids[opts.Rand.Intn(n)]
				if _, already := visited[candidate]; already {
					continue
				}
				s := score(candidate)
				if s > curSim {
					better, curSim, found = candidate, s, true
					break // greedy first-improvement
				}
			}

			for _, nb := range nl.ToSlice() {
				if found {
					break
				}
				if _, already := visited[nb.Node.ID]; already {
					continue
				}
				s := score(nb.Node.ID)
				if s > curSim {
					better, curSim, found = nb.Node.ID, s, true
					break // greedy first-improvement
				}
			}

			if !found {
				if curSim > globalBest {
					globalBest = curSim
				}
				break
			}
			cur = better
		}
	}

	result := NewNeighborList[T](opts.K)
	for id, s := range visited {
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		result.Add(Neighbor[T]{Node: node, Similarity: s})
	}
	return result.ToSlice()
}

// SearchExhaustive computes the exact K nearest neighbors of query by
// comparing it against every node, using numWorkers goroutines. It is the
// baseline GNNS is measured against, not a replacement for it: exact
// k-NN at query time doesn't scale, which is why GNNS exists at all.
func SearchExhaustive[T any](g *Graph[T], query T, k int, numWorkers int, stats *StatisticsContainer) []Neighbor[T] {
	if k < 1 {
		k = 1
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	ids := g.NodeIDs()
	sim := g.Similarity()

	type job struct{ id NodeID }
	jobs := make(chan job, len(ids))
	for _, id := range ids {
		jobs <- job{id: id}
	}
	close(jobs)

	results := make(chan Neighbor[T], len(ids))
	done := make(chan struct{})
	for w := 0; w < numWorkers; w++ {
		go func() {
			for j := range jobs {
				n, ok := g.Node(j.id)
				if !ok {
					continue
				}
				s := sim.Compute(query, n.Value)
				stats.addSearchSimilarity()
				results <- Neighbor[T]{Node: n, Similarity: s}
			}
			done <- struct{}{}
		}()
	}
	go func() {
		for w := 0; w < numWorkers; w++ {
			<-done
		}
		close(results)
	}()

	nl := NewNeighborList[T](k)
	for r := range results {
		nl.Add(r)
	}
	return nl.ToSlice()
}
