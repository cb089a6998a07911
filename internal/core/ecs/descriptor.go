package ecs

import (
	"reflect"
	"sync"
)

// ComponentDescriptor is everything the store needs to manage a component
// type without referring to it by its concrete Go type: its registry
// handle, a stable cross-plugin name, its storage footprint, and the
// dense index used to address it in a Signature.
type ComponentDescriptor struct {
	TypeID       ComponentTypeID
	PortableHash PortableHash
	Name         string
	ReflectType  reflect.Type
	Size         uintptr
	Index        int

	// New returns a zero value of the component type, boxed in an any.
	New func() any

	// Destructor runs on a component's value right before its row is
	// finalized by end-of-frame cleanup. Left nil for the common case of
	// a component with nothing to release; set for one that holds an
	// external resource or a manually tracked reference count.
	Destructor func(value any)

	// Copy duplicates a component's value for a row copy, such as the
	// one a cross-chunk migration performs. Left nil means a plain Go
	// assignment is sufficient, which is true for the large majority of
	// components.
	Copy func(value any) any

	// Box and Unbox convert a component's value to and from its
	// serialization-tree form. A component is Serializable iff both are
	// set.
	Box   func(value any) any
	Unbox func(boxed any) (any, bool)
}

// Serializable reports whether d carries both halves of the box/unbox
// conversion.
func (d *ComponentDescriptor) Serializable() bool {
	return d.Box != nil && d.Unbox != nil
}

// ComponentOption customizes a descriptor at registration time with one
// of the hooks most component types don't need.
type ComponentOption[T any] func(*ComponentDescriptor)

// WithDestructor installs fn as d's Destructor, called with the
// component's own value right before its row is finalized.
func WithDestructor[T any](fn func(*T)) ComponentOption[T] {
	return func(d *ComponentDescriptor) {
		d.Destructor = func(value any) {
			v := value.(T)
			fn(&v)
		}
	}
}

// WithCopy installs fn as d's Copy, for a component a plain Go
// assignment can't safely duplicate.
func WithCopy[T any](fn func(T) T) ComponentOption[T] {
	return func(d *ComponentDescriptor) {
		d.Copy = func(value any) any {
			return fn(value.(T))
		}
	}
}

// WithBoxUnbox marks T serializable by installing its conversion to and
// from a serialization-tree value.
func WithBoxUnbox[T any](box func(T) any, unbox func(any) (T, bool)) ComponentOption[T] {
	return func(d *ComponentDescriptor) {
		d.Box = func(value any) any { return box(value.(T)) }
		d.Unbox = func(boxed any) (any, bool) { return unbox(boxed) }
	}
}

// componentRegistry assigns dense indices to component types and is the
// lookup surface a chunk or query filter uses to go from a type handle to
// its descriptor. Like the type registry it wraps, it is process-wide.
type componentRegistry struct {
	mu        sync.RWMutex
	byTypeID  map[ComponentTypeID]*ComponentDescriptor
	byIndex   []*ComponentDescriptor
	byName    map[string]*ComponentDescriptor
	nextIndex int
}

var globalComponents = &componentRegistry{
	byTypeID: make(map[ComponentTypeID]*ComponentDescriptor),
	byName:   make(map[string]*ComponentDescriptor),
}

// RegisterComponent registers T as a component type, assigning it a dense
// index. Registering the same type twice is a programmer error: component
// types are meant to be registered once, at module load time. opts
// installs any of the destructor/copy/box/unbox hooks T needs.
func RegisterComponent[T any](opts ...ComponentOption[T]) *ComponentDescriptor {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	id := typeIDFor(rt)

	globalComponents.mu.Lock()
	defer globalComponents.mu.Unlock()

	if d, ok := globalComponents.byTypeID[id]; ok {
		fail("RegisterComponent", "component type %s is already registered", rt)
		return d
	}

	if globalComponents.nextIndex >= MaxComponentTypes {
		fail("RegisterComponent", "component type limit of %d reached registering %s", MaxComponentTypes, rt)
	}

	name := qualifiedName(rt)
	d := &ComponentDescriptor{
		TypeID:       id,
		PortableHash: portableHashOf(rt),
		Name:         name,
		ReflectType:  rt,
		Size:         rt.Size(),
		Index:        globalComponents.nextIndex,
		New: func() any {
			return reflect.New(rt).Elem().Interface()
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	globalComponents.nextIndex++
	globalComponents.byTypeID[id] = d
	globalComponents.byIndex = append(globalComponents.byIndex, d)
	globalComponents.byName[name] = d
	return d
}

func qualifiedName(rt reflect.Type) string {
	if rt.PkgPath() == "" {
		return rt.Name()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// DescriptorOf returns the descriptor T was registered under. It panics if
// T has not been registered: callers are expected to register every
// component type their module uses during the component-resource load
// step, before any system can reach it.
func DescriptorOf[T any]() *ComponentDescriptor {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	id := typeIDFor(rt)

	globalComponents.mu.RLock()
	d, ok := globalComponents.byTypeID[id]
	globalComponents.mu.RUnlock()
	if !ok {
		fail("DescriptorOf", "component type %s has not been registered", rt)
	}
	return d
}

// DescriptorByTypeID looks up a descriptor by its process-local handle.
func DescriptorByTypeID(id ComponentTypeID) (*ComponentDescriptor, bool) {
	globalComponents.mu.RLock()
	defer globalComponents.mu.RUnlock()
	d, ok := globalComponents.byTypeID[id]
	return d, ok
}

// DescriptorByName looks up a descriptor by its package-qualified name,
// the form an entity snapshot records for each of its components.
func DescriptorByName(name string) (*ComponentDescriptor, bool) {
	globalComponents.mu.RLock()
	defer globalComponents.mu.RUnlock()
	d, ok := globalComponents.byName[name]
	return d, ok
}

// DescriptorByPortableHash looks up a descriptor by the hash stable across
// a dynamically loaded module's own process image. Dynamically loaded
// code must never compare ComponentTypeID or reflect.Type values it
// receives from the host process against ones minted in its own image;
// this is the bridge between the two.
func DescriptorByPortableHash(h PortableHash) (*ComponentDescriptor, bool) {
	globalComponents.mu.RLock()
	defer globalComponents.mu.RUnlock()
	for _, d := range globalComponents.byIndex {
		if d.PortableHash == h {
			return d, true
		}
	}
	return nil, false
}

// SignatureOf converts a SignatureSet to its Signature bitset form by
// OR-ing in the dense index assigned to each registered member. Members
// with no registered descriptor are silently skipped: a signature query
// built against types from an unloaded module should simply never match
// rather than panic.
func SignatureOf(set SignatureSet) Signature {
	var sig Signature
	globalComponents.mu.RLock()
	defer globalComponents.mu.RUnlock()
	for t := range set {
		if d, ok := globalComponents.byTypeID[t]; ok {
			sig = sigWithBit(sig, d.Index)
		}
	}
	return sig
}

// descriptorsForSignature returns the descriptors whose dense index is
// set in sig, in index order. A chunk built from it lays out its columns
// in the same deterministic order every time.
func descriptorsForSignature(sig Signature) []*ComponentDescriptor {
	globalComponents.mu.RLock()
	defer globalComponents.mu.RUnlock()
	out := make([]*ComponentDescriptor, 0, len(globalComponents.byIndex))
	for _, d := range globalComponents.byIndex {
		if sig.Has(d.Index) {
			out = append(out, d)
		}
	}
	return out
}

// ComponentsOf returns the descriptors of every component type set in
// sig, in index order. An entity snapshot walks this list to decide
// which serializers to try, rather than needing to know its component
// types up front.
func ComponentsOf(sig Signature) []*ComponentDescriptor {
	return descriptorsForSignature(sig)
}

// resetComponentRegistryForTest clears all registered components. It
// exists only so package tests can run in isolation from one another;
// production code never calls it, since component types are meant to
// live for the process lifetime.
func resetComponentRegistryForTest() {
	globalComponents.mu.Lock()
	defer globalComponents.mu.Unlock()
	globalComponents.byTypeID = make(map[ComponentTypeID]*ComponentDescriptor)
	globalComponents.byName = make(map[string]*ComponentDescriptor)
	globalComponents.byIndex = nil
	globalComponents.nextIndex = 0

	globalTypeRegistry.mu.Lock()
	defer globalTypeRegistry.mu.Unlock()
	globalTypeRegistry.byType = make(map[reflect.Type]ComponentTypeID)
	globalTypeRegistry.nextID = 0
	globalTypeRegistry.hashes = nil
	globalTypeRegistry.rtypes = nil
}
