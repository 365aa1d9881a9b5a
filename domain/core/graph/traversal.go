package graph

// Visitation states for depth-first search
const (
	white = iota // unvisited
	gray         // on the current DFS stack
	black        // fully explored
)

// Path is a walk through the graph. Labels[i] is the label of the edge
// from Vertices[i] to Vertices[i+1].
type Path[K comparable, L any] struct {
	Vertices []K
	Labels   []L
}

// Hops returns the number of edges in the path
func (p Path[K, L]) Hops() int { return len(p.Labels) }

func (p Path[K, L]) contains(k K) bool {
	for _, v := range p.Vertices {
		if v == k {
			return true
		}
	}
	return false
}

func (p Path[K, L]) extend(e Edge[K, L]) Path[K, L] {
	next := Path[K, L]{
		Vertices: make([]K, len(p.Vertices), len(p.Vertices)+1),
		Labels:   make([]L, len(p.Labels), len(p.Labels)+1),
	}
	copy(next.Vertices, p.Vertices)
	copy(next.Labels, p.Labels)
	next.Vertices = append(next.Vertices, e.To)
	next.Labels = append(next.Labels, e.Label)
	return next
}

// FindCycle runs a depth-first search with an on-stack marker and returns the
// first cycle reached through a back-edge, closed so that the first vertex is
// repeated at the end. Vertices are visited in insertion order, so the result
// is deterministic. O(V + E).
func (g *Digraph[K, L]) FindCycle() ([]K, bool) {
	state := make(map[K]int, len(g.order))
	stack := make([]K, 0, len(g.order))

	var visit func(v K) []K
	visit = func(v K) []K {
		state[v] = gray
		stack = append(stack, v)

		for _, e := range g.out[v] {
			switch state[e.To] {
			case white:
				if cycle := visit(e.To); cycle != nil {
					return cycle
				}
			case gray:
				return closeCycle(stack, e.To)
			}
		}

		stack = stack[:len(stack)-1]
		state[v] = black
		return nil
	}

	for _, v := range g.order {
		if state[v] != white {
			continue
		}
		if cycle := visit(v); cycle != nil {
			return cycle, true
		}
	}
	return nil, false
}

// closeCycle extracts the stack segment starting at start and closes it
func closeCycle[K comparable](stack []K, start K) []K {
	idx := 0
	for i, v := range stack {
		if v == start {
			idx = i
			break
		}
	}
	cycle := append([]K(nil), stack[idx:]...)
	return append(cycle, start)
}

// ShortestPath finds the fewest-hop path from one vertex to another using BFS.
// A vertex keeps the parent that discovered it first, so among equally short
// paths the one whose edges were explored first wins. maxDepth <= 0 means unbounded;
// otherwise vertices further than maxDepth hops are never expanded.
func (g *Digraph[K, L]) ShortestPath(from, to K, maxDepth int) (Path[K, L], bool) {
	if !g.HasVertex(from) || !g.HasVertex(to) {
		return Path[K, L]{}, false
	}
	if from == to {
		return Path[K, L]{Vertices: []K{from}}, true
	}

	parent := make(map[K]Edge[K, L])
	depth := map[K]int{from: 0}
	queue := []K{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && depth[current] >= maxDepth {
			continue
		}

		for _, e := range g.out[current] {
			if _, seen := depth[e.To]; seen {
				continue
			}
			depth[e.To] = depth[current] + 1
			parent[e.To] = e
			if e.To == to {
				return reconstructPath(parent, from, to), true
			}
			queue = append(queue, e.To)
		}
	}
	return Path[K, L]{}, false
}

func reconstructPath[K comparable, L any](parent map[K]Edge[K, L], from, to K) Path[K, L] {
	var edges []Edge[K, L]
	for v := to; v != from; {
		e := parent[v]
		edges = append(edges, e)
		v = e.From
	}

	p := Path[K, L]{
		Vertices: make([]K, 0, len(edges)+1),
		Labels:   make([]L, 0, len(edges)),
	}
	p.Vertices = append(p.Vertices, from)
	for i := len(edges) - 1; i >= 0; i-- {
		p.Vertices = append(p.Vertices, edges[i].To)
		p.Labels = append(p.Labels, edges[i].Label)
	}
	return p
}

// AllPaths enumerates every simple path leaving from, in breadth-first order
// (all 1-hop paths, then 2-hop paths, and so on). Paths at maxDepth hops are
// not extended, so the frontier itself is bounded. maxDepth <= 0 means unbounded.
// limit > 0 stops after that many paths.
func (g *Digraph[K, L]) AllPaths(from K, maxDepth, limit int) []Path[K, L] {
	if !g.HasVertex(from) {
		return nil
	}

	var results []Path[K, L]
	queue := []Path[K, L]{{Vertices: []K{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && current.Hops() >= maxDepth {
			continue
		}

		tail := current.Vertices[len(current.Vertices)-1]
		for _, e := range g.out[tail] {
			if current.contains(e.To) {
				continue
			}
			next := current.extend(e)
			results = append(results, next)
			if limit > 0 && len(results) >= limit {
				return results
			}
			queue = append(queue, next)
		}
	}
	return results
}

// Reachable returns every vertex reachable from start, excluding start itself
// unless it lies on a cycle, in BFS discovery order.
func (g *Digraph[K, L]) Reachable(start K) []K {
	seen := make(map[K]bool)
	var order []K
	queue := []K{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.out[current] {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			order = append(order, e.To)
			queue = append(queue, e.To)
		}
	}
	return order
}
