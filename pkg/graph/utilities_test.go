package graph

import (
	"sort"
	"testing"
)

func buildLineGraph(t *testing.T) *Graph[int] {
	t.Helper()
	g, err := NewGraph(1, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := g.AddNode(NodeID(id), 0); err != nil {
			t.Fatal(err)
		}
	}
	// a -> b -> c, d isolated
	link(g, "a", "b", 0.9)
	link(g, "b", "c", 0.8)
	return g
}

func link(g *Graph[int], from, to NodeID, sim float64) {
	nl, _ := g.Neighbors(from)
	target, _ := g.Node(to)
	nl.Add(Neighbor[int]{Node: target, Similarity: sim})
}

func TestPruneRemovesEdgesBelowThreshold(t *testing.T) {
	g := buildLineGraph(t)
	removed := Prune(g, 0.85)
	if removed != 1 {
		t.Fatalf("Prune removed %d edges, want 1", removed)
	}
	aList, _ := g.Neighbors("a")
	if aList.Size() != 1 {
		t.Errorf("a should still have its 0.9-similarity edge")
	}
	bList, _ := g.Neighbors("b")
	if bList.Size() != 0 {
		t.Errorf("b's 0.8-similarity edge should have been pruned")
	}
}

func TestWeaklyConnectedComponents(t *testing.T) {
	g := buildLineGraph(t)
	components := WeaklyConnectedComponents(g)
	if len(components) != 2 {
		t.Fatalf("got %d components, want 2 (abc, d)", len(components))
	}

	var sizes []int
	for _, c := range components {
		sizes = append(sizes, len(c))
	}
	sort.Ints(sizes)
	if sizes[0] != 1 || sizes[1] != 3 {
		t.Errorf("component sizes = %v, want [1 3]", sizes)
	}
}

func TestStronglyConnectedComponentsOnACycle(t *testing.T) {
	g, err := NewGraph(1, intSimilarity())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(NodeID(id), 0)
	}
	link(g, "a", "b", 1)
	link(g, "b", "c", 1)
	link(g, "c", "a", 1)

	components := StronglyConnectedComponents(g)
	if len(components) != 1 {
		t.Fatalf("got %d SCCs, want 1", len(components))
	}
	if len(components[0]) != 3 {
		t.Errorf("SCC has %d nodes, want 3", len(components[0]))
	}
}

func TestStronglyConnectedComponentsOnALine(t *testing.T) {
	g := buildLineGraph(t)
	components := StronglyConnectedComponents(g)
	if len(components) != 4 {
		t.Fatalf("got %d SCCs, want 4 (every node its own SCC)", len(components))
	}
}

func TestFindNeighborsRespectsDepth(t *testing.T) {
	g := buildLineGraph(t)

	depth1 := FindNeighbors(g, "a", 1)
	if len(depth1) != 1 || depth1[0] != "b" {
		t.Errorf("FindNeighbors(a, 1) = %v, want [b]", depth1)
	}

	depth2 := FindNeighbors(g, "a", 2)
	if len(depth2) != 2 {
		t.Errorf("FindNeighbors(a, 2) = %v, want 2 nodes (b, c)", depth2)
	}
}
