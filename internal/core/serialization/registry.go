package serialization

import (
	"sync"

	"corelith/internal/core/ecs"
)

// ComponentSerializer converts one component type to and from its
// serialization-tree form. Encode never fails: a component either has a
// value to describe or it doesn't exist on the entity, and the caller
// only invokes Encode when it does. Decode is fallible — a malformed or
// schema-mismatched node yields ok=false rather than aborting the load
// of everything else in the file.
type ComponentSerializer struct {
	Encode func(value any) *SerializedObject
	Decode func(obj *SerializedObject) (value any, ok bool)
}

// Registry maps component types to the functions that know how to turn
// their values into SerializedObject trees and back, so that generic
// entity-snapshot code never needs to import concrete component types.
type Registry struct {
	mu     sync.RWMutex
	byType map[ecs.ComponentTypeID]ComponentSerializer
}

// NewRegistry creates an empty DynamicSerializer registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[ecs.ComponentTypeID]ComponentSerializer)}
}

// Register installs the serializer for id, replacing any prior entry.
func (r *Registry) Register(id ecs.ComponentTypeID, s ComponentSerializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[id] = s
}

// Deregister removes the serializer for id, if any.
func (r *Registry) Deregister(id ecs.ComponentTypeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byType, id)
}

// TryGet looks up the serializer for id.
func (r *Registry) TryGet(id ecs.ComponentTypeID) (ComponentSerializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byType[id]
	return s, ok
}

// RegisteredTypes returns the component types with a serializer, in no
// particular order.
func (r *Registry) RegisteredTypes() []ecs.ComponentTypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ecs.ComponentTypeID, 0, len(r.byType))
	for id := range r.byType {
		out = append(out, id)
	}
	return out
}
