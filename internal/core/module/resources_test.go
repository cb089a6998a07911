package module

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corelith/internal/core/subcontext"
	"corelith/internal/core/systems"
)

func TestModuleResourcesRejectsRegistrationOutsideInitializing(t *testing.T) {
	subcontext.ResetForTest()
	res := NewModuleResources(subcontext.Get(), systems.NewRegistry(), nil)
	assert.Panics(t, func() { res.RegisterSystemsGroup("physics") })
}

func TestModuleResourcesAllowsRegistrationWhileInitializing(t *testing.T) {
	subcontext.ResetForTest()
	res := NewModuleResources(subcontext.Get(), systems.NewRegistry(), nil)
	res.status = Initializing
	assert.NotPanics(t, func() { res.RegisterSystemsGroup("physics") })
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "initializing", Initializing.String())
	assert.Equal(t, "initialized", Initialized.String())
}
