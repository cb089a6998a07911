package ecs

import "reflect"

// Prefab is a reusable template: a signature plus one value per
// component type in it, ready to stamp out new entities without
// re-deriving the signature or re-typing the values each time.
type Prefab struct {
	signature Signature
	typeIDs   []ComponentTypeID
	values    []any
}

// NewPrefab builds a prefab from an explicit set of component values.
// Passing the same component type twice is a programmer error, the same
// as EntityManager.CreateWith.
func NewPrefab(values ...any) *Prefab {
	var sig Signature
	typeIDs := make([]ComponentTypeID, len(values))
	for i, v := range values {
		rt := reflect.TypeOf(v)
		tid := typeIDFor(rt)
		d, ok := DescriptorByTypeID(tid)
		if !ok {
			fail("NewPrefab", "component type %s has not been registered", rt)
		}
		if sig.Has(d.Index) {
			fail("NewPrefab", "component type %s passed more than once", rt)
		}
		sig = sigWithBit(sig, d.Index)
		typeIDs[i] = tid
	}
	return &Prefab{signature: sig, typeIDs: typeIDs, values: values}
}

// PrefabFromEntity deep-copies e's current components into a new prefab.
func PrefabFromEntity(m *EntityManager, e EntityID) *Prefab {
	sig, ok := m.SignatureOf(e)
	if !ok {
		fail("PrefabFromEntity", "entity %d does not exist", e)
	}
	loc := m.locations[e]
	descs := descriptorsForSignature(sig)
	typeIDs := make([]ComponentTypeID, len(descs))
	values := make([]any, len(descs))
	for i, d := range descs {
		col := loc.chunk.columns[d.TypeID]
		v := col.values.Index(loc.row).Interface()
		if d.Copy != nil {
			v = d.Copy(v)
		}
		values[i] = v
		typeIDs[i] = d.TypeID
	}
	return &Prefab{signature: sig, typeIDs: typeIDs, values: values}
}

// Signature reports the component signature the prefab instantiates.
func (p *Prefab) Signature() Signature { return p.signature }

// Instantiate creates a fresh entity in a chunk matching the prefab's
// signature, with every component copied from the template. The prefab
// is left unchanged and may be instantiated again.
func (p *Prefab) Instantiate(m *EntityManager) EntityID {
	m.requireNotIterating("Prefab.Instantiate")
	id := m.nextID
	m.nextID++
	values := make([]any, len(p.values))
	for i, v := range p.values {
		if d, ok := DescriptorByTypeID(p.typeIDs[i]); ok && d.Copy != nil {
			v = d.Copy(v)
		}
		values[i] = v
	}
	m.place(id, p.signature, p.typeIDs, values)
	return id
}

// InstantiateAt instantiates the prefab and then adds or overwrites its
// Position and Rotation components with the given values.
func (p *Prefab) InstantiateAt(m *EntityManager, pos Position, rot Rotation) EntityID {
	e := p.Instantiate(m)
	Add(m, e, pos)
	Add(m, e, rot)
	return e
}
