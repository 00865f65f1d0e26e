package graph

import (
	"math/rand"
	"testing"
)

func buildChainOf(t *testing.T, n int) *Graph[int] {
	t.Helper()
	g, err := NewGraph(2, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if _, err := g.AddNode(NodeID(string(rune('a'+i))), i*10); err != nil {
			t.Fatal(err)
		}
	}
	// Link each node to its immediate numeric neighbors, mirroring what a
	// real builder would have found for this similarity function.
	for i := 0; i < n; i++ {
		id := NodeID(string(rune('a' + i)))
		if i > 0 {
			link(g, id, NodeID(string(rune('a'+i-1))), g.Similarity().Compute(i*10, (i-1)*10))
		}
		if i < n-1 {
			link(g, id, NodeID(string(rune('a'+i+1))), g.Similarity().Compute(i*10, (i+1)*10))
		}
	}
	return g
}

func TestSearchFindsCloseNeighborsOnAChain(t *testing.T) {
	g := buildChainOf(t, 5) // values 0, 10, 20, 30, 40

	opts := DefaultSearchOptions()
	// K equal to the graph size forces Search onto its exhaustive
	// fallback path, which is what makes the closest match deterministic
	// for a graph this small: at any Speedup > 1 the approximate budget
	// (n/Speedup) never reaches every node.
	opts.K = 5
	opts.Rand = rand.New(rand.NewSource(42))

	results := Search(g, 21, opts)
	if len(results) == 0 {
		t.Fatalf("Search returned no results")
	}
	if results[0].Node.Value != 20 {
		t.Errorf("closest match = %d, want 20", results[0].Node.Value)
	}
}

func TestSearchBudgetIsGraphSizeOverSpeedup(t *testing.T) {
	g := buildChainOf(t, 100)

	opts := DefaultSearchOptions()
	opts.K = 1
	opts.Speedup = 4.0
	opts.Rand = rand.New(rand.NewSource(7))
	opts.Stats = NewStatisticsContainer()

	// 100 nodes at speedup 4 gives a budget of 25 similarity evaluations;
	// the budget check only happens between descent steps, so a run can
	// overshoot it by a handful of comparisons, but it must stay far
	// short of visiting every node in the graph.
	results := Search(g, 20, opts)
	if len(results) == 0 {
		t.Fatalf("Search returned no results")
	}
	if got := opts.Stats.SearchSimilarities(); got < 25 || got > 35 {
		t.Errorf("SearchSimilarities() = %d, want roughly the n/Speedup budget (25)", got)
	}
}

func TestSearchFallsBackToExhaustiveWhenKCoversTheGraph(t *testing.T) {
	g := buildChainOf(t, 5)

	opts := DefaultSearchOptions()
	opts.K = 5
	opts.Stats = NewStatisticsContainer()

	results := Search(g, 20, opts)
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5 (exhaustive fallback covers every node)", len(results))
	}
	if got := opts.Stats.SearchSimilarities(); got != 5 {
		t.Errorf("SearchSimilarities() = %d, want 5 (one per node)", got)
	}
}

func TestSearchExhaustiveFindsExactTopK(t *testing.T) {
	g, err := NewGraph(3, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range []int{0, 10, 20, 30, 40} {
		g.AddNode(NodeID(string(rune('a'+i))), v)
	}

	stats := NewStatisticsContainer()
	results := SearchExhaustive(g, 20, 3, 2, stats)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Node.Value != 20 {
		t.Errorf("closest match = %d, want 20 (exact match)", results[0].Node.Value)
	}
	if stats.SearchSimilarities() != 5 {
		t.Errorf("SearchSimilarities() = %d, want 5 (one per node)", stats.SearchSimilarities())
	}
}

func TestSearchOnEmptyGraphReturnsNil(t *testing.T) {
	g, err := NewGraph(1, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	if got := Search(g, 5, DefaultSearchOptions()); got != nil {
		t.Errorf("Search on empty graph = %v, want nil", got)
	}
}
