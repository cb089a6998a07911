package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corelith/internal/core/ecs"
)

func TestTransformPropagationComposesWithParent(t *testing.T) {
	m := setupScene(t)
	parent := m.CreateWith(ecs.Position{X: 10}, ecs.IdentityRotation)
	child := m.CreateWith(ecs.Position{X: 1}, ecs.IdentityRotation, ecs.Parent{Entity: parent})

	NewTransformPropagationSystem(m).Update(0)

	wt, ok := ecs.Get[WorldTransform](m, child)
	require.True(t, ok)
	assert.Equal(t, 11.0, wt.Position.X)
}

func TestTransformPropagationRootEqualsLocal(t *testing.T) {
	m := setupScene(t)
	root := m.CreateWith(ecs.Position{X: 3, Y: 4}, ecs.IdentityRotation)

	NewTransformPropagationSystem(m).Update(0)

	wt, ok := ecs.Get[WorldTransform](m, root)
	require.True(t, ok)
	assert.Equal(t, ecs.Position{X: 3, Y: 4}, wt.Position)
}

func TestTransformPropagationChainsThroughGrandparent(t *testing.T) {
	m := setupScene(t)
	grandparent := m.CreateWith(ecs.Position{X: 1}, ecs.IdentityRotation)
	parent := m.CreateWith(ecs.Position{X: 1}, ecs.IdentityRotation, ecs.Parent{Entity: grandparent})
	child := m.CreateWith(ecs.Position{X: 1}, ecs.IdentityRotation, ecs.Parent{Entity: parent})

	NewTransformPropagationSystem(m).Update(0)

	wt, ok := ecs.Get[WorldTransform](m, child)
	require.True(t, ok)
	assert.Equal(t, 3.0, wt.Position.X)
}

func TestTransformPropagationMarksDescendantsOfDisabledAncestor(t *testing.T) {
	m := setupScene(t)
	root := m.CreateWith(ecs.Position{}, ecs.IdentityRotation, ecs.DisabledTag{})
	child := m.CreateWith(ecs.Position{}, ecs.IdentityRotation, ecs.Parent{Entity: root})
	grandchild := m.CreateWith(ecs.Position{}, ecs.IdentityRotation, ecs.Parent{Entity: child})
	unrelated := m.CreateWith(ecs.Position{}, ecs.IdentityRotation)

	NewTransformPropagationSystem(m).Update(0)

	assert.True(t, m.Has(root, ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID), "a directly-disabled entity carries IndirectlyDisabledTag as well as DisabledTag")
	assert.True(t, m.Has(child, ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID))
	assert.True(t, m.Has(grandchild, ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID))
	assert.False(t, m.Has(unrelated, ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID))

	var active []ecs.EntityID
	m.QueryActive(ecs.Each(ecs.DescriptorOf[ecs.Position]().TypeID), func(e ecs.EntityID, c *ecs.EntityChunk, row int) {
		active = append(active, e)
	})
	assert.ElementsMatch(t, []ecs.EntityID{unrelated}, active, "QueryActive must exclude the directly-disabled root and its whole subtree but keep anything unrelated")
}

func TestTransformPropagationClearsIndirectTagWhenNoLongerDisabled(t *testing.T) {
	m := setupScene(t)
	root := m.CreateWith(ecs.Position{}, ecs.IdentityRotation, ecs.DisabledTag{})
	child := m.CreateWith(ecs.Position{}, ecs.IdentityRotation, ecs.Parent{Entity: root})
	NewTransformPropagationSystem(m).Update(0)
	require.True(t, m.Has(child, ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID))

	ecs.Remove[ecs.DisabledTag](m, root)
	NewTransformPropagationSystem(m).Update(0)

	assert.False(t, m.Has(child, ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID))
}
