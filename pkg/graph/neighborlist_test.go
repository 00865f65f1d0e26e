package graph

import "testing"

func node(id string) *Node[int] {
	return &Node[int]{ID: NodeID(id), Value: 0}
}

func TestNeighborListInsertSequenceKeepsDescendingOrder(t *testing.T) {
	nl := NewNeighborList[int](3)

	nl.Add(Neighbor[int]{Node: node("a"), Similarity: 0.5})
	nl.Add(Neighbor[int]{Node: node("b"), Similarity: 0.9})
	nl.Add(Neighbor[int]{Node: node("c"), Similarity: 0.1})
	nl.Add(Neighbor[int]{Node: node("d"), Similarity: 0.7})

	entries := nl.ToSlice()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantOrder := []string{"b", "d", "a"}
	for i, id := range wantOrder {
		if string(entries[i].Node.ID) != id {
			t.Errorf("entry %d = %s, want %s", i, entries[i].Node.ID, id)
		}
	}
	if entries[len(entries)-1].Node.ID == "c" {
		t.Errorf("lowest-similarity candidate c should have been evicted")
	}
}

func TestNeighborListRejectsWorseThanFullList(t *testing.T) {
	nl := NewNeighborList[int](2)
	nl.Add(Neighbor[int]{Node: node("a"), Similarity: 0.8})
	nl.Add(Neighbor[int]{Node: node("b"), Similarity: 0.6})

	if nl.Add(Neighbor[int]{Node: node("c"), Similarity: 0.5}) {
		t.Errorf("Add should reject a candidate worse than the current worst entry")
	}
	if nl.Size() != 2 {
		t.Errorf("Size() = %d, want 2", nl.Size())
	}
}

func TestNeighborListNeverDuplicatesAnID(t *testing.T) {
	nl := NewNeighborList[int](4)
	a1 := node("a")
	a2 := node("a")

	nl.Add(Neighbor[int]{Node: a1, Similarity: 0.3})
	if !nl.Add(Neighbor[int]{Node: a2, Similarity: 0.9}) {
		t.Fatalf("Add should accept a higher-similarity replacement for an existing id")
	}
	if nl.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", nl.Size())
	}
	first, ok := nl.First()
	if !ok || first.Similarity != 0.9 {
		t.Errorf("First() = %+v, want similarity 0.9", first)
	}

	if nl.Add(Neighbor[int]{Node: node("a"), Similarity: 0.1}) {
		t.Errorf("Add should reject a lower-similarity duplicate")
	}
}

func TestNeighborListRemove(t *testing.T) {
	nl := NewNeighborList[int](3)
	nl.Add(Neighbor[int]{Node: node("a"), Similarity: 0.5})

	if !nl.Remove("a") {
		t.Errorf("Remove should report success for a present id")
	}
	if nl.Remove("a") {
		t.Errorf("Remove should report failure the second time")
	}
	if nl.Size() != 0 {
		t.Errorf("Size() = %d, want 0", nl.Size())
	}
}

func TestNeighborListCountCommon(t *testing.T) {
	a := NewNeighborList[int](3)
	b := NewNeighborList[int](3)

	for _, id := range []string{"x", "y", "z"} {
		a.Add(Neighbor[int]{Node: node(id), Similarity: 1})
	}
	for _, id := range []string{"y", "z", "w"} {
		b.Add(Neighbor[int]{Node: node(id), Similarity: 1})
	}

	if got := a.CountCommon(b); got != 2 {
		t.Errorf("CountCommon() = %d, want 2", got)
	}
}
