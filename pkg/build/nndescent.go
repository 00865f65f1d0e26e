package build

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/kgraph/kgraph/pkg/graph"
)

// NNDescentBuilder builds an approximate k-NN graph with Dong et al.'s
// NN-Descent: start from random neighbor lists, then repeatedly join each
// node's neighbors-of-neighbors against each other, keeping any pair that
// turns out to be closer than what is already in their lists. It
// converges fast on most real similarity functions without ever
// comparing every pair, at the cost of occasionally missing a true
// neighbor that none of the random starting edges happened to lead to.
type NNDescentBuilder[T any] struct {
	K int

	// Rho sets how many of each node's "new" neighbors are sampled for the
	// local join each iteration: floor(Rho*K) of them. Default 0.5.
	Rho float64

	// Delta is the early-termination threshold: iteration stops once
	// fewer than Delta*n*K updates happen in a round. Default 0.001.
	Delta float64

	// MaxIterations bounds the number of rounds. Default: unbounded.
	MaxIterations int

	Parallel   bool
	NumWorkers int
	Rand       *rand.Rand

	Stats    *graph.StatisticsContainer
	Callback graph.Callback
}

// SetDelta validates and sets Delta. It validates delta itself, not rho —
// the source this builder is derived from had that check transposed,
// rejecting rho values for what should have been a delta-range check.
// That is treated as a typo here, not preserved.
func (b *NNDescentBuilder[T]) SetDelta(delta float64) error {
	if delta < 0 || delta > 1 {
		return &graph.InvalidParameterError{Parameter: "delta", Value: delta, Reason: "must be in [0, 1]"}
	}
	b.Delta = delta
	return nil
}

func (b *NNDescentBuilder[T]) normalize() {
	if b.Rho <= 0 {
		b.Rho = 0.5
	}
	if b.Delta <= 0 {
		b.Delta = 0.001
	}
	if b.MaxIterations <= 0 {
		b.MaxIterations = math.MaxInt32
	}
	if b.NumWorkers < 1 {
		b.NumWorkers = 1
	}
	if b.Rand == nil {
		b.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// Build implements Builder.
func (b *NNDescentBuilder[T]) Build(items []Item[T], similarity graph.Similarity[T]) (*graph.Graph[T], error) {
	if b.K < 1 {
		return nil, graph.ErrInvalidK
	}
	if len(items) == 0 {
		return nil, graph.ErrEmptyItemSet
	}
	b.normalize()

	n := len(items)
	g, err := newGraphWithNodes(items, b.K, similarity)
	if err != nil {
		return nil, err
	}

	if n <= b.K+1 {
		return b.makeFullyLinked(g, items, similarity)
	}

	ids := make([]graph.NodeID, n)
	for i, it := range items {
		ids[i] = it.ID
	}

	// isNew[v][u] tracks whether u is a neighbor of v that has not yet
	// taken part in a local join ("new", in NN-Descent's terminology).
	isNew := make(map[graph.NodeID]map[graph.NodeID]bool, n)
	var isNewMu sync.Mutex

	b.initializeRandom(g, items, ids, similarity, isNew)

	total := int64(n) * int64(b.K)

	for iter := 0; iter < b.MaxIterations; iter++ {
		newLists, oldLists := b.sampleLists(g, items, isNew)
		reverseNew, reverseOld := reverseOf(newLists), reverseOf(oldLists)

		updates := b.localJoinRound(g, items, similarity, isNew, &isNewMu, newLists, oldLists, reverseNew, reverseOld)

		callOrNil(b.Callback, map[string]any{"step": "iteration", "iteration": iter, "updates": updates})

		if float64(updates) < b.Delta*float64(total) {
			break
		}
	}

	return g, nil
}

func (b *NNDescentBuilder[T]) initializeRandom(g *graph.Graph[T], items []Item[T], ids []graph.NodeID, similarity graph.Similarity[T], isNew map[graph.NodeID]map[graph.NodeID]bool) {
	n := len(items)
	for _, it := range items {
		nl, _ := g.Neighbors(it.ID)
		flags := make(map[graph.NodeID]bool)
		isNew[it.ID] = flags

		chosen, attempts := 0, 0
		for chosen < b.K && attempts < n*4 {
			attempts++
			cand := ids[b.Rand.Intn(n)]
			if cand == it.ID || nl.Contains(cand) {
				continue
			}
			other, _ := g.Node(cand)
			s := similarity.Compute(it.Value, other.Value)
			b.Stats.AddComputedSimilarity(1)
			if nl.Add(graph.Neighbor[T]{Node: other, Similarity: s}) {
				flags[cand] = true
				chosen++
			}
		}
	}
}

// sampleLists splits each node's current neighbor list into a sampled
// "new" subset and an "old" subset, and flips the sampled entries to old
// for the next round, matching NN-Descent's bookkeeping.
func (b *NNDescentBuilder[T]) sampleLists(g *graph.Graph[T], items []Item[T], isNew map[graph.NodeID]map[graph.NodeID]bool) (map[graph.NodeID][]graph.NodeID, map[graph.NodeID][]graph.NodeID) {
	newLists := make(map[graph.NodeID][]graph.NodeID, len(items))
	oldLists := make(map[graph.NodeID][]graph.NodeID, len(items))

	for _, it := range items {
		nl, _ := g.Neighbors(it.ID)
		flags := isNew[it.ID]

		var newer, older []graph.NodeID
		for _, nb := range nl.ToSlice() {
			if flags[nb.Node.ID] {
				newer = append(newer, nb.Node.ID)
			} else {
				older = append(older, nb.Node.ID)
			}
		}
		newer = sampleIDs(newer, b.Rho, b.K, b.Rand)
		for _, id := range newer {
			flags[id] = false
		}
		newLists[it.ID] = newer
		oldLists[it.ID] = older
	}
	return newLists, oldLists
}

func reverseOf(lists map[graph.NodeID][]graph.NodeID) map[graph.NodeID][]graph.NodeID {
	reverse := make(map[graph.NodeID][]graph.NodeID, len(lists))
	for v, lst := range lists {
		for _, u := range lst {
			reverse[u] = append(reverse[u], v)
		}
	}
	return reverse
}

func (b *NNDescentBuilder[T]) localJoinRound(
	g *graph.Graph[T],
	items []Item[T],
	similarity graph.Similarity[T],
	isNew map[graph.NodeID]map[graph.NodeID]bool,
	isNewMu *sync.Mutex,
	newLists, oldLists, reverseNew, reverseOld map[graph.NodeID][]graph.NodeID,
) int64 {
	var updates int64
	var mu sync.Mutex
	addUpdates := func(n int64) {
		mu.Lock()
		updates += n
		mu.Unlock()
	}

	combinedNew := make(map[graph.NodeID][]graph.NodeID, len(items))
	combinedOld := make(map[graph.NodeID][]graph.NodeID, len(items))
	for _, it := range items {
		combinedNew[it.ID] = dedupeAppend(newLists[it.ID], sampleIDs(reverseNew[it.ID], b.Rho, b.K, b.Rand))
		combinedOld[it.ID] = dedupeAppend(oldLists[it.ID], reverseOld[it.ID])
	}

	// For each u1 in new[v], the inner loop pairs u1 with the entries of
	// new[u1] (indexed by u1, not by v) and then with old[v]. This
	// asymmetry is inherited from the local-join implementation this
	// builder is derived from and is kept deliberately rather than "fixed".
	process := func(v graph.NodeID) {
		for _, u1 := range combinedNew[v] {
			for _, u2 := range combinedNew[u1] {
				addUpdates(b.join(g, similarity, v, u1, u2, isNew, isNewMu))
			}
			for _, u2 := range combinedOld[v] {
				addUpdates(b.join(g, similarity, v, u1, u2, isNew, isNewMu))
			}
		}
	}

	if !b.Parallel || b.NumWorkers <= 1 {
		for _, it := range items {
			process(it.ID)
		}
		return updates
	}

	jobs := make(chan graph.NodeID, len(items))
	for _, it := range items {
		jobs <- it.ID
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < b.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				process(v)
			}
		}()
	}
	wg.Wait()
	return updates
}

// join evaluates one candidate pair from v's local neighborhood and
// offers each endpoint as a neighbor of the other.
//
// The pair is skipped when u2 is already flagged as a new neighbor of u1,
// i.e. when u2 entered u1's list earlier in this round.
func (b *NNDescentBuilder[T]) join(g *graph.Graph[T], similarity graph.Similarity[T], v, u1, u2 graph.NodeID, isNew map[graph.NodeID]map[graph.NodeID]bool, isNewMu *sync.Mutex) int64 {
	if u1 == u2 {
		return 0
	}

	isNewMu.Lock()
	skip := isNew[u1] != nil && isNew[u1][u2]
	isNewMu.Unlock()
	if skip {
		return 0
	}

	n1, ok1 := g.Node(u1)
	n2, ok2 := g.Node(u2)
	if !ok1 || !ok2 {
		return 0
	}

	s := similarity.Compute(n1.Value, n2.Value)
	b.Stats.AddComputedSimilarity(1)

	var updates int64
	if l1, ok := g.Neighbors(u1); ok && l1.Add(graph.Neighbor[T]{Node: n2, Similarity: s}) {
		isNewMu.Lock()
		if isNew[u1] == nil {
			isNew[u1] = make(map[graph.NodeID]bool)
		}
		isNew[u1][u2] = true
		isNewMu.Unlock()
		updates++
	}
	if l2, ok := g.Neighbors(u2); ok && l2.Add(graph.Neighbor[T]{Node: n1, Similarity: s}) {
		isNewMu.Lock()
		if isNew[u2] == nil {
			isNew[u2] = make(map[graph.NodeID]bool)
		}
		isNew[u2][u1] = true
		isNewMu.Unlock()
		updates++
	}
	return updates
}

// makeFullyLinked handles the degenerate case where there are too few
// items to sample K distinct random neighbors from: every item becomes a
// neighbor of every other.
func (b *NNDescentBuilder[T]) makeFullyLinked(g *graph.Graph[T], items []Item[T], similarity graph.Similarity[T]) (*graph.Graph[T], error) {
	for i := range items {
		listI, _ := g.Neighbors(items[i].ID)
		for j := range items {
			if i == j {
				continue
			}
			nodeJ, _ := g.Node(items[j].ID)
			s := similarity.Compute(items[i].Value, items[j].Value)
			b.Stats.AddComputedSimilarity(1)
			listI.Add(graph.Neighbor[T]{Node: nodeJ, Similarity: s})
		}
	}
	return g, nil
}

// sampleIDs subsamples ids down to floor(rho*k) entries, uniformly at
// random. The target count is derived from k, the builder's own
// neighbor-list size, not from len(ids): a node with fewer candidates
// than the target just keeps all of them.
func sampleIDs(ids []graph.NodeID, rho float64, k int, r *rand.Rand) []graph.NodeID {
	if len(ids) == 0 {
		return nil
	}
	count := int(rho * float64(k))
	if count >= len(ids) {
		return ids
	}
	shuffled := make([]graph.NodeID, len(ids))
	copy(shuffled, ids)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:count]
}

func dedupeAppend(a, b []graph.NodeID) []graph.NodeID {
	seen := make(map[graph.NodeID]bool, len(a)+len(b))
	out := make([]graph.NodeID, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
