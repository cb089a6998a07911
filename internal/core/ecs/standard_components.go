package ecs

// Position is a world- or parent-relative translation, depending on
// whether the entity carries a Parent.
type Position struct {
	X, Y, Z float64
}

// Rotation is a unit quaternion. The zero value has W at zero rather
// than one, so it is not the identity rotation; IdentityRotation is.
type Rotation struct {
	X, Y, Z, W float64
}

// IdentityRotation is the no-op quaternion.
var IdentityRotation = Rotation{W: 1}

// Parent names the entity this entity is attached beneath. An entity
// with no Parent component is a scene root.
type Parent struct {
	Entity EntityID
}

// Children is rebuilt every frame by ParentSystem from the Parent
// components it finds; callers should treat it as read-only.
type Children struct {
	Entities []EntityID
}

// DisabledTag marks an entity as directly disabled. A system that cares
// about the whole hierarchy's effective state should query against
// IndirectlyDisabledTag instead, which also accounts for a disabled
// ancestor.
type DisabledTag struct{}

// IndirectlyDisabledTag marks an entity as disabled because it carries
// DisabledTag itself or an ancestor does; TransformPropagationSystem
// recomputes it every frame as it walks the scene graph top-down.
// QueryActive excludes entities carrying it.
type IndirectlyDisabledTag struct{}

// RegisterStandardComponents registers the component types the core
// itself depends on, so Prefab.InstantiateAt and the scene graph systems
// never need to special-case an unregistered type. It is idempotent:
// calling it twice registers nothing the second time. The bootstrap
// resource calls this before any discovered module is loaded.
func RegisterStandardComponents() {
	registerOnce[Position]()
	registerOnce[Rotation]()
	registerOnce[Parent]()
	registerOnce[Children]()
	registerOnce[DisabledTag]()
	registerOnce[IndirectlyDisabledTag]()
}

func registerOnce[T any]() {
	if _, ok := DescriptorByTypeID(TypeIDOf[T]()); ok {
		return
	}
	RegisterComponent[T]()
}
