package engine

import (
	"corelith/internal/core/ecs"
	"corelith/internal/core/scene"
	"corelith/internal/core/systems"
)

// transformsGroup is the name of the systems-group the bootstrap
// resource registers the scene-graph systems into.
const transformsGroup = "Transforms"

// bootstrapResource registers the standard components and the
// scene-graph systems before any discovered module is loaded, so a
// module's own init function can always assume Position, Rotation,
// Parent, Children, and WorldTransform already exist. It is not a
// module resource — it never goes through a
// ModuleResources, since nothing should be able to unload it out from
// under a running engine.
type bootstrapResource struct {
	systems  *systems.Registry
	entities *ecs.EntityManager
}

func newBootstrapResource(sysReg *systems.Registry, entities *ecs.EntityManager) *bootstrapResource {
	return &bootstrapResource{systems: sysReg, entities: entities}
}

func (b *bootstrapResource) Priority() int { return 0 }

func (b *bootstrapResource) OnLoad() {
	ecs.RegisterStandardComponents()
	scene.RegisterComponents()
	b.systems.RegisterGroup(transformsGroup)
}

func (b *bootstrapResource) OnInitializeAfterLoad() {
	parentSys := scene.NewParentSystem(b.entities)
	propagationSys := scene.NewTransformPropagationSystem(b.entities)
	b.systems.RegisterSystem(transformsGroup, parentSys)
	b.systems.RegisterSystem(transformsGroup, propagationSys)
	if g, ok := b.systems.Group(transformsGroup); ok {
		g.ExecuteBefore(parentSys, propagationSys)
	}
}

func (b *bootstrapResource) OnShutdownBeforeUnload() {}

func (b *bootstrapResource) OnUnload() {
	b.systems.DeregisterGroup(transformsGroup)
}
