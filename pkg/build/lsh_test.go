package build

import (
	"math/rand"
	"testing"

	"github.com/kgraph/kgraph/pkg/graph"
	"github.com/kgraph/kgraph/pkg/lsh"
)

func jaccardWords(a, b string) float64 {
	setA := map[rune]bool{}
	for _, r := range a {
		setA[r] = true
	}
	setB := map[rune]bool{}
	for _, r := range b {
		setB[r] = true
	}
	inter, union := 0, 0
	seen := map[rune]bool{}
	for r := range setA {
		seen[r] = true
		if setB[r] {
			inter++
		}
	}
	for r := range setB {
		if !seen[r] {
			seen[r] = true
		}
	}
	union = len(seen)
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func TestLSHPartitioningBuilderRequiresHashFamily(t *testing.T) {
	b := &LSHPartitioningBuilder[string]{K: 2}
	items := []Item[string]{{ID: "a", Value: "hello"}, {ID: "b", Value: "world"}}
	sim := graph.SimilarityFunc[string](jaccardWords)
	if _, err := b.Build(items, sim); err == nil {
		t.Errorf("Build() without a HashFamily should fail")
	}
}

func TestLSHPartitioningBuilderGroupsSimilarStrings(t *testing.T) {
	words := []string{"banana", "bananas", "cabana", "orange", "oranges", "tangerine"}
	items := make([]Item[string], len(words))
	for i, w := range words {
		items[i] = Item[string]{ID: graph.NodeID(string(rune('a' + i))), Value: w}
	}

	family := lsh.NewMinHashFamily(lsh.KShingling{Size: 2}, 4, 8, rand.New(rand.NewSource(3)))
	b := &LSHPartitioningBuilder[string]{
		K:          2,
		HashFamily: family,
		Stats:      graph.NewStatisticsContainer(),
	}

	sim := graph.SimilarityFunc[string](jaccardWords)
	g, err := b.Build(items, sim)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if g.Size() != len(words) {
		t.Fatalf("graph has %d nodes, want %d", g.Size(), len(words))
	}
	// At least one of the banana-family words should have found another
	// banana-family word as a neighbor somewhere across the hash stages.
	found := false
	for _, id := range []graph.NodeID{"a", "b", "c"} {
		nl, ok := g.Neighbors(id)
		if !ok {
			continue
		}
		for _, nb := range nl.ToSlice() {
			if nb.Node.ID == "a" || nb.Node.ID == "b" || nb.Node.ID == "c" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected at least one banana-family word to find another as a neighbor")
	}
}
