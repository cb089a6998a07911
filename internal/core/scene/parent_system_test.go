package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corelith/internal/core/ecs"
)

func setupScene(t *testing.T) *ecs.EntityManager {
	t.Helper()
	ecs.RegisterStandardComponents()
	RegisterComponents()
	return ecs.NewEntityManager()
}

func TestParentSystemRebuildsChildren(t *testing.T) {
	m := setupScene(t)
	parent := m.CreateWith(ecs.Position{})
	child := m.CreateWith(ecs.Position{}, ecs.Parent{Entity: parent})

	NewParentSystem(m).Update(0)

	children, ok := ecs.Get[ecs.Children](m, parent)
	require.True(t, ok)
	assert.Equal(t, []ecs.EntityID{child}, children.Entities)
}

func TestParentSystemDestroysChildrenOfDestroyedParent(t *testing.T) {
	m := setupScene(t)
	parent := m.CreateWith(ecs.Position{})
	child := m.CreateWith(ecs.Position{}, ecs.Parent{Entity: parent})
	m.Destroy(parent)

	NewParentSystem(m).Update(0)

	assert.False(t, m.IsAlive(child), "child must be marked dead in the same frame its parent is destroyed")
	assert.True(t, m.Exists(child), "but it stays indexed until end-of-frame cleanup")

	m.Cleanup()
	assert.False(t, m.Exists(child))
}

func TestParentSystemBreaksCycles(t *testing.T) {
	m := setupScene(t)
	a := m.CreateWith(ecs.Position{})
	b := m.CreateWith(ecs.Position{}, ecs.Parent{Entity: a})
	ecs.Add(m, a, ecs.Parent{Entity: b})

	assert.NotPanics(t, func() { NewParentSystem(m).Update(0) })
}

func TestParentSystemRemovesChildrenWhenNoLongerParent(t *testing.T) {
	m := setupScene(t)
	parent := m.CreateWith(ecs.Position{})
	child := m.CreateWith(ecs.Position{}, ecs.Parent{Entity: parent})
	NewParentSystem(m).Update(0)

	ecs.Remove[ecs.Parent](m, child)
	NewParentSystem(m).Update(0)

	_, ok := ecs.Get[ecs.Children](m, parent)
	assert.False(t, ok)
}
