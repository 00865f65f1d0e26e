package build

import (
	"testing"

	"github.com/kgraph/kgraph/pkg/graph"
)

func absSimilarity() graph.Similarity[int] {
	return graph.SimilarityFunc[int](func(a, b int) float64 {
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		return 1.0 / (1.0 + float64(diff))
	})
}

func fiveItems() []Item[int] {
	values := []int{0, 10, 20, 30, 40}
	items := make([]Item[int], len(values))
	for i, v := range values {
		items[i] = Item[int]{ID: graph.NodeID(string(rune('a' + i))), Value: v}
	}
	return items
}

func TestBruteForceBuilderFindsExactNearestNeighbors(t *testing.T) {
	b := &BruteForceBuilder[int]{K: 3, Stats: graph.NewStatisticsContainer()}
	g, err := b.Build(fiveItems(), absSimilarity())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Item "c" has value 20; its 3 nearest neighbors by |a-b| are 10, 30, 0 or 40.
	nl, ok := g.Neighbors("c")
	if !ok {
		t.Fatalf("node c missing from built graph")
	}
	entries := nl.ToSlice()
	if len(entries) != 3 {
		t.Fatalf("got %d neighbors for c, want 3", len(entries))
	}
	if entries[0].Node.Value != 10 && entries[0].Node.Value != 30 {
		t.Errorf("closest neighbor of 20 = %d, want 10 or 30", entries[0].Node.Value)
	}
}

func TestBruteForceBuilderRejectsEmptyItemSet(t *testing.T) {
	b := &BruteForceBuilder[int]{K: 3}
	if _, err := b.Build(nil, absSimilarity()); err != graph.ErrEmptyItemSet {
		t.Errorf("Build(nil) error = %v, want ErrEmptyItemSet", err)
	}
}

func TestBruteForceBuilderRejectsInvalidK(t *testing.T) {
	b := &BruteForceBuilder[int]{K: 0}
	if _, err := b.Build(fiveItems(), absSimilarity()); err != graph.ErrInvalidK {
		t.Errorf("Build() error = %v, want ErrInvalidK", err)
	}
}

func TestBruteForceBuilderParallelMatchesSerial(t *testing.T) {
	items := fiveItems()

	serial := &BruteForceBuilder[int]{K: 2, Stats: graph.NewStatisticsContainer()}
	serialGraph, err := serial.Build(items, absSimilarity())
	if err != nil {
		t.Fatal(err)
	}

	parallel := &BruteForceBuilder[int]{K: 2, Parallel: true, NumWorkers: 4, Stats: graph.NewStatisticsContainer()}
	parallelGraph, err := parallel.Build(items, absSimilarity())
	if err != nil {
		t.Fatal(err)
	}

	for _, it := range items {
		sl, _ := serialGraph.Neighbors(it.ID)
		pl, _ := parallelGraph.Neighbors(it.ID)
		if sl.CountCommon(pl) != sl.Size() {
			t.Errorf("node %s: parallel build disagrees with serial build", it.ID)
		}
	}
}
