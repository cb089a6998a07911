package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndContains(t *testing.T) {
	g := New[string]()
	g.Add("a")
	assert.True(t, g.Contains("a"))
	assert.False(t, g.Contains("b"))

	// Re-adding is a no-op.
	g.Add("a")
	assert.True(t, g.IsStart("a"))
	assert.True(t, g.IsEnd("a"))
}

func TestAddEdgeRejectsCycle(t *testing.T) {
	g := New[string]()
	g.Add("a")
	g.Add("b")
	g.AddEdge("a", "b")

	assert.Panics(t, func() { g.AddEdge("b", "a") })
	// Graph is unchanged after the rejected edge.
	assert.True(t, g.IsAnyNextOf("a", "b"))
	assert.False(t, g.IsAnyNextOf("b", "a"))
}

func TestAddEdgeRejectsSelfEdge(t *testing.T) {
	g := New[string]()
	g.Add("a")
	assert.Panics(t, func() { g.AddEdge("a", "a") })
}

func TestRemoveEdgeRequiresExistence(t *testing.T) {
	g := New[string]()
	g.Add("a")
	g.Add("b")
	assert.Panics(t, func() { g.RemoveEdge("a", "b") })

	g.AddEdge("a", "b")
	g.RemoveEdge("a", "b")
	assert.False(t, g.IsAnyNextOf("a", "b"))
}

func TestRemoveDropsIncidentEdges(t *testing.T) {
	g := New[string]()
	g.Add("a")
	g.Add("b")
	g.Add("c")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	g.Remove("b")
	require.False(t, g.Contains("b"))
	assert.True(t, g.IsStart("a"))
	assert.True(t, g.IsEnd("c"))
}

func TestTransitiveClosures(t *testing.T) {
	g := New[string]()
	for _, v := range []string{"R", "P", "D", "G", "S", "M"} {
		g.Add(v)
	}
	g.AddEdge("R", "D")
	g.AddEdge("R", "G")
	g.AddEdge("P", "G")
	g.AddEdge("R", "S")
	g.AddEdge("P", "S")
	g.AddEdge("G", "S")
	g.AddEdge("R", "M")
	g.AddEdge("P", "M")
	g.AddEdge("G", "M")
	g.AddEdge("S", "M")

	assert.ElementsMatch(t, []string{"G", "S", "M"}, g.AllNextsOf("P"))
	assert.ElementsMatch(t, []string{"R", "P", "G", "S"}, g.AllPrevsOf("M"))
}

func TestAllNodesFromVToEnd(t *testing.T) {
	g := New[string]()
	for _, v := range []string{"R", "P", "D", "G", "S", "M"} {
		g.Add(v)
	}
	g.AddEdge("R", "D")
	g.AddEdge("R", "G")
	g.AddEdge("P", "G")
	g.AddEdge("R", "S")
	g.AddEdge("P", "S")
	g.AddEdge("G", "S")
	g.AddEdge("R", "M")
	g.AddEdge("P", "M")
	g.AddEdge("G", "M")
	g.AddEdge("S", "M")

	assert.Equal(t, []string{"P", "G", "S", "M"}, g.AllNodesFromVToEnd("P"))
}

func TestAllNodesStartToEndVisitsEachOnceInOrder(t *testing.T) {
	g := New[int]()
	for _, v := range []int{1, 2, 3, 4} {
		g.Add(v)
	}
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(1, 4)
	g.AddEdge(4, 3)

	order := g.AllNodesStartToEnd()
	require.Len(t, order, 4)
	pos := make(map[int]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	assert.Less(t, pos[1], pos[2])
	assert.Less(t, pos[2], pos[3])
	assert.Less(t, pos[1], pos[4])
	assert.Less(t, pos[4], pos[3])
}

func TestMaxDistance(t *testing.T) {
	g := New[string]()
	for _, v := range []string{"a", "b", "c"} {
		g.Add(v)
	}
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	assert.Equal(t, 0, g.MaxDistanceFromStart("a"))
	assert.Equal(t, 1, g.MaxDistanceFromStart("b"))
	assert.Equal(t, 2, g.MaxDistanceFromStart("c"))
	assert.Equal(t, 0, g.MaxDistanceFromEnd("c"))
	assert.Equal(t, 2, g.MaxDistanceFromEnd("a"))
}

func TestQueryOnMissingNodePanics(t *testing.T) {
	g := New[string]()
	assert.Panics(t, func() { g.IsStart("ghost") })
	assert.Panics(t, func() { g.AllPrevsOf("ghost") })
}
