package resource

import (
	"corelith/internal/core/ecs"
	"corelith/internal/core/serialization"
)

// SerializerPriority is the standard priority for SerializerResource. It
// shares a priority with SystemsGroupResource: neither depends on the
// other, and both must be up before the systems that touch a
// serialized component type can load.
const SerializerPriority = 2

// SerializerResource registers a DynamicSerializer for one component
// type into the shared serialization Registry. The component's type
// handle is resolved lazily at OnLoad time (typically
// `func() ecs.ComponentTypeID { return ecs.DescriptorOf[T]().TypeID }`)
// so the resource can be constructed before its ComponentResource has
// run.
type SerializerResource struct {
	registry    *serialization.Registry
	componentID func() ecs.ComponentTypeID
	serializer  serialization.ComponentSerializer
	resolvedID  ecs.ComponentTypeID
}

// NewSerializerResource wraps s for registration of the component type
// resolved by componentID.
func NewSerializerResource(registry *serialization.Registry, componentID func() ecs.ComponentTypeID, s serialization.ComponentSerializer) *SerializerResource {
	return &SerializerResource{registry: registry, componentID: componentID, serializer: s}
}

func (r *SerializerResource) Priority() int { return SerializerPriority }

func (r *SerializerResource) OnLoad() {
	r.resolvedID = r.componentID()
	r.registry.Register(r.resolvedID, r.serializer)
}

func (r *SerializerResource) OnInitializeAfterLoad()  {}
func (r *SerializerResource) OnShutdownBeforeUnload() {}

func (r *SerializerResource) OnUnload() {
	r.registry.Deregister(r.resolvedID)
}
