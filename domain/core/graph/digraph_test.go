package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(edges ...[2]string) *Digraph[string, string] {
	g := New[string, string]()
	for _, e := range edges {
		g.AddEdge(e[0], e[1], e[0]+e[1])
	}
	return g
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []string
		edges     [][2]string
		wantCycle []string
	}{
		{
			name:  "empty graph",
			edges: nil,
		},
		{
			name:     "isolated vertices",
			vertices: []string{"a", "b"},
		},
		{
			name:  "chain",
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
		},
		{
			name:  "diamond is not a cycle",
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
		},
		{
			name:      "two cycle",
			edges:     [][2]string{{"a", "b"}, {"b", "a"}},
			wantCycle: []string{"a", "b", "a"},
		},
		{
			name:      "cycle reached through a tail",
			edges:     [][2]string{{"x", "a"}, {"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantCycle: []string{"a", "b", "c", "a"},
		},
		{
			name:      "self loop",
			edges:     [][2]string{{"a", "a"}},
			wantCycle: []string{"a", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(tt.edges...)
			for _, v := range tt.vertices {
				g.AddVertex(v)
			}

			cycle, found := g.FindCycle()

			if tt.wantCycle == nil {
				assert.False(t, found)
				assert.Nil(t, cycle)
				return
			}
			require.True(t, found)
			assert.Equal(t, tt.wantCycle, cycle)
		})
	}
}

func TestFindCycle_DeepChainDoesNotFalsePositive(t *testing.T) {
	g := New[int, struct{}]()
	for i := 0; i < 2000; i++ {
		g.AddEdge(i, i+1, struct{}{})
	}
	_, found := g.FindCycle()
	assert.False(t, found)

	g.AddEdge(2000, 0, struct{}{})
	cycle, found := g.FindCycle()
	require.True(t, found)
	assert.Len(t, cycle, 2002)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
}

func TestShortestPath(t *testing.T) {
	// a -> b -> d
	// a -> c -> d
	// d -> e
	g := buildGraph([2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "d"}, [2]string{"c", "d"}, [2]string{"d", "e"})

	t.Run("tie broken by exploration order", func(t *testing.T) {
		path, ok := g.ShortestPath("a", "d", 0)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b", "d"}, path.Vertices)
		assert.Equal(t, []string{"ab", "bd"}, path.Labels)
		assert.Equal(t, 2, path.Hops())
	})

	t.Run("depth bound prunes", func(t *testing.T) {
		_, ok := g.ShortestPath("a", "e", 2)
		assert.False(t, ok)

		path, ok := g.ShortestPath("a", "e", 3)
		require.True(t, ok)
		assert.Equal(t, 3, path.Hops())
	})

	t.Run("unreachable", func(t *testing.T) {
		_, ok := g.ShortestPath("e", "a", 0)
		assert.False(t, ok)
	})

	t.Run("unknown vertex", func(t *testing.T) {
		_, ok := g.ShortestPath("a", "zzz", 0)
		assert.False(t, ok)
	})

	t.Run("same vertex", func(t *testing.T) {
		path, ok := g.ShortestPath("a", "a", 0)
		require.True(t, ok)
		assert.Equal(t, 0, path.Hops())
		assert.Equal(t, []string{"a"}, path.Vertices)
	})
}

func TestAllPaths(t *testing.T) {
	g := buildGraph([2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "d"}, [2]string{"c", "d"}, [2]string{"d", "a"})

	t.Run("breadth first and simple", func(t *testing.T) {
		paths := g.AllPaths("a", 0, 0)

		var got [][]string
		for _, p := range paths {
			got = append(got, p.Vertices)
		}
		assert.Equal(t, [][]string{
			{"a", "b"},
			{"a", "c"},
			{"a", "b", "d"},
			{"a", "c", "d"},
		}, got)
	})

	t.Run("depth bound", func(t *testing.T) {
		paths := g.AllPaths("a", 1, 0)
		require.Len(t, paths, 2)
		for _, p := range paths {
			assert.Equal(t, 1, p.Hops())
		}
	})

	t.Run("result limit", func(t *testing.T) {
		assert.Len(t, g.AllPaths("a", 0, 3), 3)
	})

	t.Run("unknown start", func(t *testing.T) {
		assert.Empty(t, g.AllPaths("zzz", 0, 0))
	})
}

func TestDigraph_Degrees(t *testing.T) {
	g := buildGraph([2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"c", "b"})

	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 2, g.OutDegree("a"))
	assert.Equal(t, 2, g.InDegree("b"))
	assert.Equal(t, []string{"a", "b", "c"}, g.Vertices())
	assert.Equal(t, []string{"b", "c"}, g.Reachable("a"))

	clone := g.Clone()
	clone.AddEdge("b", "a", "ba")
	assert.Equal(t, 3, g.EdgeCount())
	_, found := g.FindCycle()
	assert.False(t, found)
	_, found = clone.FindCycle()
	assert.True(t, found)
}
