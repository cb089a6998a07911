package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drWidget struct{ N int }
type drGadget struct{ N int }

func TestRegisterComponentAssignsDenseIndex(t *testing.T) {
	resetComponentRegistryForTest()
	d1 := RegisterComponent[drWidget]()
	d2 := RegisterComponent[drGadget]()

	assert.Equal(t, 0, d1.Index)
	assert.Equal(t, 1, d2.Index)
	assert.NotEqual(t, d1.TypeID, d2.TypeID)
}

func TestRegisterComponentRejectsDoubleRegistration(t *testing.T) {
	resetComponentRegistryForTest()
	RegisterComponent[drWidget]()
	assert.Panics(t, func() { RegisterComponent[drWidget]() })
}

func TestDescriptorLookups(t *testing.T) {
	resetComponentRegistryForTest()
	d := RegisterComponent[drWidget]()

	byID, ok := DescriptorByTypeID(d.TypeID)
	require.True(t, ok)
	assert.Same(t, d, byID)

	byHash, ok := DescriptorByPortableHash(d.PortableHash)
	require.True(t, ok)
	assert.Same(t, d, byHash)

	byName, ok := DescriptorByName(d.Name)
	require.True(t, ok)
	assert.Same(t, d, byName)
}

func TestDescriptorOfPanicsWhenUnregistered(t *testing.T) {
	resetComponentRegistryForTest()
	assert.Panics(t, func() { DescriptorOf[drWidget]() })
}

func TestSignatureOfConvertsSet(t *testing.T) {
	resetComponentRegistryForTest()
	d1 := RegisterComponent[drWidget]()
	d2 := RegisterComponent[drGadget]()

	set := NewSignatureSet(d1.TypeID, d2.TypeID)
	sig := SignatureOf(set)

	assert.True(t, sig.Has(d1.Index))
	assert.True(t, sig.Has(d2.Index))
}

func TestPortableHashStableAcrossLookup(t *testing.T) {
	resetComponentRegistryForTest()
	d := RegisterComponent[drWidget]()
	h1 := portableHashOf(d.ReflectType)
	assert.Equal(t, d.PortableHash, h1)
}
