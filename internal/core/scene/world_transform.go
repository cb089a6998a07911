// Package scene provides the standard scene-graph systems: rebuilding
// parent/child relationships and propagating local transforms into
// world space, one system per concern.
package scene

import "corelith/internal/core/ecs"

// WorldTransform is the composed position and rotation
// TransformPropagationSystem writes for every entity with a local
// Position/Rotation, root or not. For a root entity (no Parent) it
// equals the local values; for a child it is the parent's
// WorldTransform composed with the child's local one.
type WorldTransform struct {
	Position ecs.Position
	Rotation ecs.Rotation
}

// RegisterComponents registers WorldTransform, the one component this
// package introduces beyond the core's standard six.
func RegisterComponents() {
	if _, ok := ecs.DescriptorByTypeID(ecs.TypeIDOf[WorldTransform]()); ok {
		return
	}
	ecs.RegisterComponent[WorldTransform]()
}
