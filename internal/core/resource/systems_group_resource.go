package resource

import "corelith/internal/core/systems"

// SystemsGroupPriority is the standard priority for SystemsGroupResource.
const SystemsGroupPriority = 2

// SystemsGroupResource registers a named SystemsGroup into the global
// systems Registry.
type SystemsGroupResource struct {
	registry *systems.Registry
	name     string
	group    *systems.Group
}

// NewSystemsGroupResource wraps a group named name, to be registered
// into registry at load time.
func NewSystemsGroupResource(registry *systems.Registry, name string) *SystemsGroupResource {
	return &SystemsGroupResource{registry: registry, name: name}
}

// Group returns the registered group, valid after OnLoad has run.
func (r *SystemsGroupResource) Group() *systems.Group {
	return r.group
}

func (r *SystemsGroupResource) Priority() int { return SystemsGroupPriority }

func (r *SystemsGroupResource) OnLoad() {
	r.group = r.registry.RegisterGroup(r.name)
}

func (r *SystemsGroupResource) OnInitializeAfterLoad()  {}
func (r *SystemsGroupResource) OnShutdownBeforeUnload() {}

func (r *SystemsGroupResource) OnUnload() {
	r.registry.DeregisterGroup(r.name)
}
