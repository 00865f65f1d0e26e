package graph

// Prune removes every edge whose similarity is below threshold, returning
// the number of edges removed. It never removes nodes, only neighbor-list
// entries, so the result can be a graph with nodes that have fewer than K
// neighbors (or none).
func Prune[T any](g *Graph[T], threshold float64) int {
	removed := 0
	for _, n := range g.Nodes() {
		nl, ok := g.Neighbors(n.ID)
		if !ok {
			continue
		}
		for _, nb := range nl.ToSlice() {
			if nb.Similarity < threshold {
				if nl.Remove(nb.Node.ID) {
					removed++
				}
			}
		}
	}
	return removed
}

// WeaklyConnectedComponents groups node ids into components reachable from
// one another while ignoring edge direction. A k-NN graph's neighbor lists
// are directed (a being in b's list does not imply b is in a's), so this
// treats the union of both directions as adjacency.
func WeaklyConnectedComponents[T any](g *Graph[T]) [][]NodeID {
	adjacency := undirectedAdjacency(g)

	visited := make(map[NodeID]bool, len(adjacency))
	var components [][]NodeID

	for _, n := range g.Nodes() {
		if visited[n.ID] {
			continue
		}
		var component []NodeID
		stack := []NodeID{n.ID}
		visited[n.ID] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, id)
			for _, next := range adjacency[id] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

func undirectedAdjacency[T any](g *Graph[T]) map[NodeID][]NodeID {
	adjacency := make(map[NodeID][]NodeID)
	for _, n := range g.Nodes() {
		if _, ok := adjacency[n.ID]; !ok {
			adjacency[n.ID] = nil
		}
		nl, ok := g.Neighbors(n.ID)
		if !ok {
			continue
		}
		for _, nb := range nl.ToSlice() {
			adjacency[n.ID] = append(adjacency[n.ID], nb.Node.ID)
			adjacency[nb.Node.ID] = append(adjacency[nb.Node.ID], n.ID)
		}
	}
	return adjacency
}

// tarjanState holds the bookkeeping Tarjan's algorithm needs per node. It
// is kept out of Node itself (a typed side-table, not an attribute map on
// the item) so the algorithm's scratch state never leaks into the graph.
type tarjanState struct {
	index   map[NodeID]int
	lowlink map[NodeID]int
	onStack map[NodeID]bool
	stack   []NodeID
	counter int
}

// StronglyConnectedComponents computes the strongly connected components
// of the directed neighbor-list graph using Tarjan's algorithm. The
// implementation is iterative with an explicit work stack, not recursive,
// so it does not blow the goroutine stack on a graph built from a long
// chain of fastAdd calls.
func StronglyConnectedComponents[T any](g *Graph[T]) [][]NodeID {
	st := &tarjanState{
		index:   make(map[NodeID]int),
		lowlink: make(map[NodeID]int),
		onStack: make(map[NodeID]bool),
	}
	var components [][]NodeID

	for _, n := range g.Nodes() {
		if _, seen := st.index[n.ID]; !seen {
			components = append(components, tarjanStrongConnect(g, st, n.ID)...)
		}
	}
	return components
}

type tarjanFrame struct {
	id       NodeID
	children []NodeID
	pos      int
}

func tarjanStrongConnect[T any](g *Graph[T], st *tarjanState, root NodeID) [][]NodeID {
	var components [][]NodeID
	frames := []*tarjanFrame{{id: root, children: successors(g, root)}}
	st.index[root] = st.counter
	st.lowlink[root] = st.counter
	st.counter++
	st.stack = append(st.stack, root)
	st.onStack[root] = true

	for len(frames) > 0 {
		f := frames[len(frames)-1]

		if f.pos < len(f.children) {
			child := f.children[f.pos]
			f.pos++

			if _, seen := st.index[child]; !seen {
				st.index[child] = st.counter
				st.lowlink[child] = st.counter
				st.counter++
				st.stack = append(st.stack, child)
				st.onStack[child] = true
				frames = append(frames, &tarjanFrame{id: child, children: successors(g, child)})
				continue
			}
			if st.onStack[child] {
				if st.index[child] < st.lowlink[f.id] {
					st.lowlink[f.id] = st.index[child]
				}
			}
			continue
		}

		// Done with f's children: propagate lowlink to parent, and if f is
		// a root of an SCC, pop the component off the stack.
		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := frames[len(frames)-1]
			if st.lowlink[f.id] < st.lowlink[parent.id] {
				st.lowlink[parent.id] = st.lowlink[f.id]
			}
		}

		if st.lowlink[f.id] == st.index[f.id] {
			var component []NodeID
			for {
				top := st.stack[len(st.stack)-1]
				st.stack = st.stack[:len(st.stack)-1]
				st.onStack[top] = false
				component = append(component, top)
				if top == f.id {
					break
				}
			}
			components = append(components, component)
		}
	}
	return components
}

func successors[T any](g *Graph[T], id NodeID) []NodeID {
	nl, ok := g.Neighbors(id)
	if !ok {
		return nil
	}
	entries := nl.ToSlice()
	out := make([]NodeID, len(entries))
	for i, e := range entries {
		out[i] = e.Node.ID
	}
	return out
}

// FindNeighbors returns every node reachable from id within depth hops
// along outgoing neighbor-list edges, not including id itself.
func FindNeighbors[T any](g *Graph[T], id NodeID, depth int) []NodeID {
	if depth <= 0 {
		return nil
	}
	visited := map[NodeID]bool{id: true}
	frontier := []NodeID{id}
	var result []NodeID

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []NodeID
		for _, cur := range frontier {
			for _, n := range successors(g, cur) {
				if !visited[n] {
					visited[n] = true
					result = append(result, n)
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return result
}
