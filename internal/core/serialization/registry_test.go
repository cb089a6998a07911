package serialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corelith/internal/core/ecs"
)

func TestRegistryRegisterAndTryGet(t *testing.T) {
	reg := NewRegistry()
	s := ComponentSerializer{
		Encode: func(v any) *SerializedObject { return NewBool("v", v.(bool)) },
		Decode: func(o *SerializedObject) (any, bool) { return o.AsBool() },
	}
	reg.Register(ecs.ComponentTypeID(1), s)

	got, ok := reg.TryGet(ecs.ComponentTypeID(1))
	require.True(t, ok)
	obj := got.Encode(true)
	val, ok := obj.AsBool()
	require.True(t, ok)
	assert.True(t, val)
}

func TestRegistryTryGetMissingReturnsFalse(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.TryGet(ecs.ComponentTypeID(99))
	assert.False(t, ok)
}

func TestRegistryDeregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ecs.ComponentTypeID(1), ComponentSerializer{})
	reg.Deregister(ecs.ComponentTypeID(1))
	_, ok := reg.TryGet(ecs.ComponentTypeID(1))
	assert.False(t, ok)
}

func TestRegistryRegisteredTypes(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ecs.ComponentTypeID(1), ComponentSerializer{})
	reg.Register(ecs.ComponentTypeID(2), ComponentSerializer{})
	assert.ElementsMatch(t, []ecs.ComponentTypeID{1, 2}, reg.RegisteredTypes())
}
