package module

import (
	"corelith/internal/core/ecs"
	"corelith/internal/core/resource"
	"corelith/internal/core/serialization"
	"corelith/internal/core/subcontext"
	"corelith/internal/core/systems"
)

// Status tracks where a Module is in its load/unload lifecycle.
type Status int

const (
	Uninitialized Status = iota
	Initializing
	Initialized
	ShuttingDown
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Initialized:
		return "initialized"
	case ShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// ModuleResources is the mutable handle a module's init function
// receives: every register* call attaches a Resource to this module's
// own Set, to be loaded and shut down alongside it. Registration is only
// legal while the module is Initializing; calling it at any other
// time is a programmer error in the module's own init code.
type ModuleResources struct {
	status Status
	set    *resource.Set

	ctx         *subcontext.Context
	systems     *systems.Registry
	serializers *serialization.Registry
}

// NewModuleResources creates an empty handle bound to the process-wide
// registries a module's resources will register into.
func NewModuleResources(ctx *subcontext.Context, sysReg *systems.Registry, serReg *serialization.Registry) *ModuleResources {
	return &ModuleResources{
		status:      Uninitialized,
		set:         resource.NewSet(),
		ctx:         ctx,
		systems:     sysReg,
		serializers: serReg,
	}
}

// Status reports the module's current lifecycle state.
func (r *ModuleResources) Status() Status { return r.status }

func (r *ModuleResources) requireInitializing(op string) {
	if r.status != Initializing {
		fail(op, "registration is only allowed while the module is initializing, current status is %s", r.status)
	}
}

// RegisterSubcontext attaches sc to the process Context for the
// lifetime of this module.
func (r *ModuleResources) RegisterSubcontext(sc subcontext.Subcontext) {
	r.requireInitializing("RegisterSubcontext")
	r.set.Register(resource.NewSubcontextResource(r.ctx, sc))
}

// RegisterComponents attaches one or more component-registration
// closures, typically `func() { ecs.RegisterComponent[T]() }`.
func (r *ModuleResources) RegisterComponents(registerFns ...func()) {
	r.requireInitializing("RegisterComponents")
	r.set.Register(resource.NewComponentResource(registerFns...))
}

// RegisterSystemsGroup attaches a new named systems group.
func (r *ModuleResources) RegisterSystemsGroup(name string) *resource.SystemsGroupResource {
	r.requireInitializing("RegisterSystemsGroup")
	res := resource.NewSystemsGroupResource(r.systems, name)
	r.set.Register(res)
	return res
}

// RegisterSystem attaches sys into the named group.
func (r *ModuleResources) RegisterSystem(group string, sys systems.System) *resource.SystemResource {
	r.requireInitializing("RegisterSystem")
	res := resource.NewSystemResource(r.systems, group, sys)
	r.set.Register(res)
	return res
}

// RegisterSerializer attaches a DynamicSerializer for the component type
// resolved by componentID at load time.
func (r *ModuleResources) RegisterSerializer(componentID func() ecs.ComponentTypeID, s serialization.ComponentSerializer) {
	r.requireInitializing("RegisterSerializer")
	r.set.Register(resource.NewSerializerResource(r.serializers, componentID, s))
}

// Register attaches an arbitrary Resource, the escape hatch for module
// code with needs the typed helpers above don't cover.
func (r *ModuleResources) Register(res resource.Resource) {
	r.requireInitializing("Register")
	r.set.Register(res)
}
