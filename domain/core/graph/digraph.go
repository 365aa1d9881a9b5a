// Package graph provides a small ordered directed graph used for structural
// analysis of proofs. Vertices and edges iterate in insertion order so every
// traversal is deterministic.
package graph

// Edge is a labelled directed edge
type Edge[K comparable, L any] struct {
	From  K
	To    K
	Label L
}

// Digraph is a directed graph whose vertices are identified by K and whose
// edges carry a label of type L. It is not safe for concurrent mutation;
// build it once and share it read-only.
type Digraph[K comparable, L any] struct {
	order []K
	index map[K]int
	out   map[K][]Edge[K, L]
	in    map[K]int
	edges int
}

// New creates an empty graph
func New[K comparable, L any]() *Digraph[K, L] {
	return &Digraph[K, L]{
		index: make(map[K]int),
		out:   make(map[K][]Edge[K, L]),
		in:    make(map[K]int),
	}
}

// AddVertex adds k if it is not already present
func (g *Digraph[K, L]) AddVertex(k K) {
	if _, ok := g.index[k]; ok {
		return
	}
	g.index[k] = len(g.order)
	g.order = append(g.order, k)
}

// AddEdge adds a directed edge, creating missing endpoints
func (g *Digraph[K, L]) AddEdge(from, to K, label L) {
	g.AddVertex(from)
	g.AddVertex(to)
	g.out[from] = append(g.out[from], Edge[K, L]{From: from, To: to, Label: label})
	g.in[to]++
	g.edges++
}

// HasVertex reports whether k is in the graph
func (g *Digraph[K, L]) HasVertex(k K) bool {
	_, ok := g.index[k]
	return ok
}

// Vertices returns all vertices in insertion order
func (g *Digraph[K, L]) Vertices() []K {
	return append([]K(nil), g.order...)
}

// Successors returns the outgoing edges of k in insertion order
func (g *Digraph[K, L]) Successors(k K) []Edge[K, L] {
	return append([]Edge[K, L](nil), g.out[k]...)
}

func (g *Digraph[K, L]) VertexCount() int  { return len(g.order) }
func (g *Digraph[K, L]) EdgeCount() int    { return g.edges }
func (g *Digraph[K, L]) OutDegree(k K) int { return len(g.out[k]) }
func (g *Digraph[K, L]) InDegree(k K) int  { return g.in[k] }

// Clone returns an independent copy that can be extended without touching g
func (g *Digraph[K, L]) Clone() *Digraph[K, L] {
	c := New[K, L]()
	for _, v := range g.order {
		c.AddVertex(v)
	}
	for _, v := range g.order {
		for _, e := range g.out[v] {
			c.AddEdge(e.From, e.To, e.Label)
		}
	}
	return c
}
