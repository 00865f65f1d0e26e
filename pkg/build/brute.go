package build

import (
	"sync"

	"github.com/kgraph/kgraph/pkg/graph"
)

// nodesPerBlock is the granularity at which the parallel brute-force
// builder hands work to its worker pool: the lower triangle of the n*n
// comparison matrix is cut into blocks of this many rows, so a worker
// failure (a panic recovered by the pool) only loses one block's edges
// instead of the whole build.
const nodesPerBlock = 1000

// BruteForceBuilder computes the exact K nearest neighbors of every item
// by comparing every pair once (the lower triangle of the n*n matrix) and
// inserting the result into both endpoints' neighbor lists, since
// Similarity is required to be symmetric. It is the baseline the
// approximate builders in this package are measured against.
type BruteForceBuilder[T any] struct {
	K int

	// Parallel selects the block-decomposed worker-pool path. Small item
	// sets run serially regardless, since spinning up workers costs more
	// than the comparisons they would save.
	Parallel   bool
	NumWorkers int

	Stats    *graph.StatisticsContainer
	Callback graph.Callback
}

// Build implements Builder.
func (b *BruteForceBuilder[T]) Build(items []Item[T], similarity graph.Similarity[T]) (*graph.Graph[T], error) {
	if b.K < 1 {
		return nil, graph.ErrInvalidK
	}
	if len(items) == 0 {
		return nil, graph.ErrEmptyItemSet
	}
	g, err := newGraphWithNodes(items, b.K, similarity)
	if err != nil {
		return nil, err
	}

	n := len(items)
	numWorkers := b.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	if !b.Parallel || n <= nodesPerBlock || numWorkers <= 1 {
		b.buildBlock(g, items, similarity, 0, n)
		callOrNil(b.Callback, map[string]any{"step": "done", "pairs": n * (n - 1) / 2})
		return g, nil
	}

	type block struct{ start, end int }
	var blocks []block
	for start := 0; start < n; start += nodesPerBlock {
		end := start + nodesPerBlock
		if end > n {
			end = n
		}
		blocks = append(blocks, block{start, end})
	}

	jobs := make(chan block, len(blocks))
	for _, blk := range blocks {
		jobs <- blk
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for blk := range jobs {
				func() {
					defer func() {
						if r := recover(); r != nil {
							b.Stats.AddWorkerFailure()
						}
					}()
					b.buildBlock(g, items, similarity, blk.start, blk.end)
				}()
				callOrNil(b.Callback, map[string]any{"step": "block-done", "start": blk.start, "end": blk.end})
			}
		}(w)
	}
	wg.Wait()

	return g, nil
}

// buildBlock compares every item in [start, end) against every item with
// a lower index (the lower-triangle decomposition ThreadedBrute uses),
// inserting the result into both endpoints' lists.
func (b *BruteForceBuilder[T]) buildBlock(g *graph.Graph[T], items []Item[T], similarity graph.Similarity[T], start, end int) {
	for i := start; i < end; i++ {
		nodeI, _ := g.Node(items[i].ID)
		listI, _ := g.Neighbors(items[i].ID)
		for j := 0; j <= i; j++ {
			if j == i {
				continue
			}
			nodeJ, _ := g.Node(items[j].ID)
			listJ, _ := g.Neighbors(items[j].ID)

			s := similarity.Compute(items[i].Value, items[j].Value)
			b.Stats.AddComputedSimilarity(1)

			listI.Add(graph.Neighbor[T]{Node: nodeJ, Similarity: s})
			listJ.Add(graph.Neighbor[T]{Node: nodeI, Similarity: s})
		}
	}
}

func callOrNil(cb graph.Callback, data map[string]any) {
	if cb != nil {
		cb.Call(data)
	}
}
