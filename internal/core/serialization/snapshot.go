package serialization

import (
	"corelith/internal/core/ecs"
)

// EncodeEntity walks e's live components, asks the registry for a
// serializer for each one that has one, and collects the results into
// the snapshot's Components, each named after the component's qualified
// name.
// Components with no registered serializer are silently skipped: an
// entity snapshot is best-effort, not a promise that every attached
// component type round-trips.
func EncodeEntity(reg *Registry, m *ecs.EntityManager, e ecs.EntityID) (*EntitySnapshot, bool) {
	sig, ok := m.SignatureOf(e)
	if !ok {
		return nil, false
	}
	snap := &EntitySnapshot{Entity: e}
	for _, d := range ecs.ComponentsOf(sig) {
		s, ok := reg.TryGet(d.TypeID)
		if !ok {
			continue
		}
		value, ok := ecs.GetDynamic(m, e, d.TypeID)
		if !ok {
			continue
		}
		obj := s.Encode(value)
		obj.Name = d.Name
		snap.Components = append(snap.Components, obj)
	}
	return snap, true
}

// DecodeEntity creates a fresh entity and restores every component in
// snap for which both a descriptor and a serializer are registered. It
// reports the names of the components it could not restore rather than
// aborting: a snapshot written by a build carrying a module the current
// process doesn't have should still restore what it can.
func DecodeEntity(reg *Registry, m *ecs.EntityManager, snap *EntitySnapshot) (ecs.EntityID, []string) {
	e := m.Create()
	var skipped []string
	for _, obj := range snap.Components {
		d, ok := ecs.DescriptorByName(obj.Name)
		if !ok {
			skipped = append(skipped, obj.Name)
			continue
		}
		s, ok := reg.TryGet(d.TypeID)
		if !ok {
			skipped = append(skipped, obj.Name)
			continue
		}
		value, ok := s.Decode(obj)
		if !ok {
			skipped = append(skipped, obj.Name)
			continue
		}
		ecs.SetDynamic(m, e, d, value)
	}
	return e, skipped
}
