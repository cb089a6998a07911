package ecs

import "reflect"

type location struct {
	chunk *EntityChunk
	row   int
}

// EntityManager owns every live entity and the chunks that store their
// components. Structural mutation (add, remove, destroy) runs
// immediately unless a query is in progress, in which case it is queued
// and replayed once the outermost query finishes iterating.
type EntityManager struct {
	nextID    EntityID
	locations map[EntityID]location
	chunks    map[Signature][]*EntityChunk
	iterDepth int
	deferred  []func()
}

// NewEntityManager returns an empty manager, ready to create entities.
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:    InvalidEntity + 1,
		locations: make(map[EntityID]location),
		chunks:    make(map[Signature][]*EntityChunk),
	}
}

// Exists reports whether e is indexed by this manager, including an
// entity destroyed this frame whose row is marked dead but not yet
// finalized by Cleanup. Code that must tell the two apart uses IsAlive.
func (m *EntityManager) Exists(e EntityID) bool {
	_, ok := m.locations[e]
	return ok
}

// IsAlive reports whether e occupies a live row right now. Unlike
// Exists, it is false for an entity that has been destroyed but not yet
// finalized by the end-of-frame Cleanup.
func (m *EntityManager) IsAlive(e EntityID) bool {
	loc, ok := m.locations[e]
	if !ok {
		return false
	}
	return loc.row < loc.chunk.aliveCount
}

// SignatureOf returns the current component signature of e.
func (m *EntityManager) SignatureOf(e EntityID) (Signature, bool) {
	loc, ok := m.locations[e]
	if !ok {
		return Signature{}, false
	}
	return loc.chunk.Signature(), true
}

func (m *EntityManager) requireNotIterating(op string) {
	if m.iterDepth > 0 {
		fail(op, "structural mutation attempted while a query is iterating; route it through Defer")
	}
}

// Defer runs fn immediately if no query is currently iterating, or queues
// it to run, in submission order, right after the outermost query's last
// row if one is. Systems that need to destroy or restructure the entity
// they're currently visiting call this instead of mutating directly.
func (m *EntityManager) Defer(fn func()) {
	if m.iterDepth == 0 {
		fn()
		return
	}
	m.deferred = append(m.deferred, fn)
}

func (m *EntityManager) beginIteration() {
	m.iterDepth++
}

func (m *EntityManager) endIteration() {
	m.iterDepth--
	if m.iterDepth > 0 {
		return
	}
	for len(m.deferred) > 0 {
		pending := m.deferred
		m.deferred = nil
		for _, fn := range pending {
			fn()
		}
	}
}

// chunkFor returns a chunk for sig with room for at least one more
// entity, allocating a new one if every existing chunk for sig is full.
func (m *EntityManager) chunkFor(sig Signature) *EntityChunk {
	for _, c := range m.chunks[sig] {
		if !c.IsFull() {
			return c
		}
	}
	c := newEntityChunk(sig, descriptorsForSignature(sig))
	m.chunks[sig] = append(m.chunks[sig], c)
	return c
}

func (m *EntityManager) place(id EntityID, sig Signature, typeIDs []ComponentTypeID, values []any) {
	chunk := m.chunkFor(sig)
	row, displaced := chunk.allocate(id)
	if displaced != nil {
		m.locations[displaced.Entity] = location{chunk: chunk, row: displaced.NewRow}
	}
	for i, tid := range typeIDs {
		setColumnDynamic(chunk, tid, row, values[i])
	}
	m.locations[id] = location{chunk: chunk, row: row}
}

// Create yields a new entity with no components, placed in the
// empty-signature chunk.
func (m *EntityManager) Create() EntityID {
	m.requireNotIterating("EntityManager.Create")
	id := m.nextID
	m.nextID++
	m.place(id, Signature{}, nil, nil)
	return id
}

// CreateWith atomically places a new entity in the chunk matching the
// union of the given components' types, with each value moved in.
// Passing the same component type twice is a programmer error.
func (m *EntityManager) CreateWith(values ...any) EntityID {
	m.requireNotIterating("EntityManager.CreateWith")
	var sig Signature
	typeIDs := make([]ComponentTypeID, len(values))
	for i, v := range values {
		rt := reflect.TypeOf(v)
		tid := typeIDFor(rt)
		d, ok := DescriptorByTypeID(tid)
		if !ok {
			fail("EntityManager.CreateWith", "component type %s has not been registered", rt)
		}
		if sig.Has(d.Index) {
			fail("EntityManager.CreateWith", "component type %s passed more than once", rt)
		}
		sig = sigWithBit(sig, d.Index)
		typeIDs[i] = tid
	}
	id := m.nextID
	m.nextID++
	m.place(id, sig, typeIDs, values)
	return id
}

// CreateWithSignature creates a new entity in the chunk for sig with
// every component zero-valued, for callers that want to fill components
// in afterward rather than supply values up front.
func (m *EntityManager) CreateWithSignature(sig Signature) EntityID {
	m.requireNotIterating("EntityManager.CreateWithSignature")
	id := m.nextID
	m.nextID++
	m.place(id, sig, nil, nil)
	return id
}

// freeRowImmediately evicts row from c for a cross-chunk migration,
// applying every relocation the chunk reports back to the location
// index.
func (m *EntityManager) freeRowImmediately(c *EntityChunk, row int) {
	for _, mv := range c.freeImmediately(row) {
		m.locations[mv.Entity] = location{chunk: c, row: mv.NewRow}
	}
}

// migrate moves e from its current chunk to the chunk for newSig,
// copying every column the two chunks have in common, and updates the
// location index (including any entity swapped into the vacated row).
// It always evicts the source row immediately: migration hands the
// value off to the destination chunk rather than destroying it.
func (m *EntityManager) migrate(e EntityID, newSig Signature) (dst *EntityChunk, dstRow int) {
	loc := m.locations[e]
	dst = m.chunkFor(newSig)
	dstRow, displaced := dst.allocate(e)
	if displaced != nil {
		m.locations[displaced.Entity] = location{chunk: dst, row: displaced.NewRow}
	}
	copyRow(dst, loc.chunk, dstRow, loc.row)
	m.freeRowImmediately(loc.chunk, loc.row)
	m.locations[e] = location{chunk: dst, row: dstRow}
	return dst, dstRow
}

// Destroy removes e and all of its components.
func (m *EntityManager) Destroy(e EntityID) {
	if m.iterDepth > 0 {
		m.deferred = append(m.deferred, func() { m.destroyNow(e) })
		return
	}
	m.destroyNow(e)
}

// destroyNow marks e's row dead rather than erasing it: e stays indexed
// and its components stay readable until Cleanup finalizes the row at
// end-of-frame, matching the lifecycle every entity goes through
// regardless of whether the destroy call itself was deferred behind an
// active query.
func (m *EntityManager) destroyNow(e EntityID) {
	loc, ok := m.locations[e]
	if !ok {
		fail("EntityManager.Destroy", "entity %d does not exist", e)
	}
	newRow, displaced := loc.chunk.freeDeferred(loc.row)
	if displaced != nil {
		m.locations[displaced.Entity] = location{chunk: loc.chunk, row: displaced.NewRow}
	}
	m.locations[e] = location{chunk: loc.chunk, row: newRow}
}

// Has reports whether e currently carries every one of the given
// component types. An entity that does not exist has none.
func (m *EntityManager) Has(e EntityID, types ...ComponentTypeID) bool {
	sig, ok := m.SignatureOf(e)
	if !ok {
		return false
	}
	for _, t := range types {
		d, ok := DescriptorByTypeID(t)
		if !ok || !sig.Has(d.Index) {
			return false
		}
	}
	return true
}

// cleanup finalizes every chunk's dead rows, invoking each component's
// Destructor hook and erasing the finalized entities from the location
// index, then drops any chunk left with zero occupied rows. It is called
// once per frame by the engine, after systems have finished running.
func (m *EntityManager) cleanup() {
	for sig, list := range m.chunks {
		kept := list[:0]
		for _, c := range list {
			for _, e := range c.FinalizeDeadRows() {
				delete(m.locations, e)
			}
			if !c.IsEmpty() {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(m.chunks, sig)
		} else {
			m.chunks[sig] = kept
		}
	}
}

// Cleanup is cleanup's exported form, for the engine's end-of-frame
// hook.
func (m *EntityManager) Cleanup() {
	m.requireNotIterating("Cleanup")
	m.cleanup()
}

// Reset destroys every entity, dropping every chunk. It is the coarse
// policy the module manager applies around an unload: rather than
// tracking which entities belong to the unloading module's component
// types, it wipes the whole world and relies on modules that stay
// loaded to recreate what they need on their next load notification.
func (m *EntityManager) Reset() {
	m.requireNotIterating("Reset")
	m.locations = make(map[EntityID]location)
	m.chunks = make(map[Signature][]*EntityChunk)
}

// Add attaches value to e, migrating it to the chunk for its union
// signature if it doesn't already carry T. If e already has T, its value
// is overwritten in place with no migration.
func Add[T any](m *EntityManager, e EntityID, value T) {
	if m.iterDepth > 0 {
		m.deferred = append(m.deferred, func() { addNow(m, e, value) })
		return
	}
	addNow(m, e, value)
}

func addNow[T any](m *EntityManager, e EntityID, value T) {
	loc, ok := m.locations[e]
	if !ok {
		fail("Add", "entity %d does not exist", e)
	}
	d := DescriptorOf[T]()
	oldSig := loc.chunk.Signature()
	if oldSig.Has(d.Index) {
		setColumn[T](loc.chunk, d.TypeID, loc.row, value)
		return
	}
	newSig := sigWithBit(oldSig, d.Index)
	dst, dstRow := m.migrate(e, newSig)
	setColumn[T](dst, d.TypeID, dstRow, value)
}

// Remove detaches T from e, migrating it to the chunk for its difference
// signature. Called during an active query, it queues the removal for
// after iteration and reports only whether T is present right now.
func Remove[T any](m *EntityManager, e EntityID) bool {
	d := DescriptorOf[T]()
	if m.iterDepth > 0 {
		present := m.Has(e, d.TypeID)
		m.deferred = append(m.deferred, func() { removeNow[T](m, e) })
		return present
	}
	return removeNow[T](m, e)
}

func removeNow[T any](m *EntityManager, e EntityID) bool {
	loc, ok := m.locations[e]
	if !ok {
		fail("Remove", "entity %d does not exist", e)
	}
	d := DescriptorOf[T]()
	oldSig := loc.chunk.Signature()
	if !oldSig.Has(d.Index) {
		return false
	}
	newSig := sigWithoutBit(oldSig, d.Index)
	m.migrate(e, newSig)
	return true
}

// GetDynamic returns e's value for the component type id, boxed as any,
// if present. It exists alongside the generic Get for callers such as
// the serialization registry that only know a component's type handle
// at run time.
func GetDynamic(m *EntityManager, e EntityID, id ComponentTypeID) (any, bool) {
	loc, ok := m.locations[e]
	if !ok {
		return nil, false
	}
	return getColumnDynamic(loc.chunk, id, loc.row)
}

// SetDynamic attaches value, boxed as any, to e under the component type
// id, migrating it to the chunk for its union signature if needed. It is
// the run-time-type-handle counterpart of Add, used when restoring an
// entity snapshot whose component types are only known by descriptor.
func SetDynamic(m *EntityManager, e EntityID, d *ComponentDescriptor, value any) {
	if m.iterDepth > 0 {
		m.deferred = append(m.deferred, func() { setDynamicNow(m, e, d, value) })
		return
	}
	setDynamicNow(m, e, d, value)
}

func setDynamicNow(m *EntityManager, e EntityID, d *ComponentDescriptor, value any) {
	loc, ok := m.locations[e]
	if !ok {
		fail("SetDynamic", "entity %d does not exist", e)
	}
	oldSig := loc.chunk.Signature()
	if oldSig.Has(d.Index) {
		setColumnDynamic(loc.chunk, d.TypeID, loc.row, value)
		return
	}
	newSig := sigWithBit(oldSig, d.Index)
	dst, dstRow := m.migrate(e, newSig)
	setColumnDynamic(dst, d.TypeID, dstRow, value)
}

// Get returns e's component value of type T, if present.
func Get[T any](m *EntityManager, e EntityID) (T, bool) {
	loc, ok := m.locations[e]
	if !ok {
		var zero T
		return zero, false
	}
	d := DescriptorOf[T]()
	return getColumn[T](loc.chunk, d.TypeID, loc.row)
}
