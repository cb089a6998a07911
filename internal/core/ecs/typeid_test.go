package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tidAlpha struct{ V int }
type tidBeta struct{ V int }

func TestTypeIDOfIsStablePerType(t *testing.T) {
	resetComponentRegistryForTest()
	a1 := TypeIDOf[tidAlpha]()
	a2 := TypeIDOf[tidAlpha]()
	b := TypeIDOf[tidBeta]()

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}

func TestPortableHashDependsOnlyOnTypeName(t *testing.T) {
	resetComponentRegistryForTest()
	TypeIDOf[tidAlpha]()
	TypeIDOf[tidBeta]()

	h1 := globalTypeRegistry.hashes[0]
	h2 := portableHashOf(globalTypeRegistry.rtypes[0])
	assert.Equal(t, h1, h2)
}
