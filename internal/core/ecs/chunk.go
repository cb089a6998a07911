package ecs

import (
	"reflect"
)

// chunkByteBudget is the target size of one EntityChunk slab. Capacity is
// derived from it and the per-entity row width of the chunk's signature,
// sizing each chunk's pool from a byte budget rather than a fixed entity
// count.
const chunkByteBudget = 16 * 1024

type chunkColumn struct {
	descriptor *ComponentDescriptor
	values     reflect.Value // slice of descriptor.ReflectType, len == capacity
}

// EntityChunk is a fixed-capacity, struct-of-arrays block of entities that
// all share the same Signature. Rows split into two dense runs: the first
// aliveCount rows are live, the next deadCount rows have been destroyed
// this frame but are still addressable until FinalizeDeadRows runs, and
// the remainder of capacity is unused.
type EntityChunk struct {
	signature  Signature
	capacity   int
	entities   []EntityID
	aliveCount int
	deadCount  int
	columns    map[ComponentTypeID]*chunkColumn
}

// RowMove describes an entity that was relocated to a new row as a side
// effect of another row being freed or allocated over. Callers that track
// entity locations (the Entity Manager) must apply these before trusting
// any row index.
type RowMove struct {
	Entity EntityID
	NewRow int
}

func newEntityChunk(sig Signature, descriptors []*ComponentDescriptor) *EntityChunk {
	rowWidth := uintptr(4) // EntityID itself
	for _, d := range descriptors {
		rowWidth += d.Size
	}

	// One slot less than the raw division affords: there must be room
	// for at least two entities, so a chunk whose signature is too wide
	// refuses to exist rather than silently thrashing one row at a time.
	capacity := int(chunkByteBudget/rowWidth) - 1
	if capacity < 2 {
		fail("newEntityChunk", "signature with %d-byte rows leaves no room for at least 2 entities in a %d-byte chunk", rowWidth, chunkByteBudget)
	}

	columns := make(map[ComponentTypeID]*chunkColumn, len(descriptors))
	for _, d := range descriptors {
		columns[d.TypeID] = &chunkColumn{
			descriptor: d,
			values:     reflect.MakeSlice(reflect.SliceOf(d.ReflectType), capacity, capacity),
		}
	}

	return &EntityChunk{
		signature: sig,
		capacity:  capacity,
		entities:  make([]EntityID, 0, capacity),
		columns:   columns,
	}
}

func (c *EntityChunk) Signature() Signature { return c.signature }

// Count returns the number of alive rows, the range a query visits.
func (c *EntityChunk) Count() int { return c.aliveCount }

// occupied returns the number of rows actually holding data, alive or
// dead, which is the quantity capacity bounds.
func (c *EntityChunk) occupied() int { return c.aliveCount + c.deadCount }

func (c *EntityChunk) Capacity() int { return c.capacity }
func (c *EntityChunk) IsFull() bool  { return c.occupied() >= c.capacity }
func (c *EntityChunk) IsEmpty() bool { return c.occupied() == 0 }

func (c *EntityChunk) HasColumn(id ComponentTypeID) bool {
	_, ok := c.columns[id]
	return ok
}

// EntityAt returns the entity occupying row. Callers index by a row they
// themselves obtained from allocate, query iteration, or a RowMove; an
// out-of-range row is a programmer error.
func (c *EntityChunk) EntityAt(row int) EntityID {
	if row < 0 || row >= c.occupied() {
		fail("EntityChunk.EntityAt", "row %d out of range [0,%d)", row, c.occupied())
	}
	return c.entities[row]
}

// swapRows exchanges the entity id and every column's value between rows
// a and b in place, using a scratch value as the temporary each column's
// swap needs.
func (c *EntityChunk) swapRows(a, b int) {
	if a == b {
		return
	}
	c.entities[a], c.entities[b] = c.entities[b], c.entities[a]
	for _, col := range c.columns {
		tmp := reflect.New(col.descriptor.ReflectType).Elem()
		tmp.Set(col.values.Index(a))
		col.values.Index(a).Set(col.values.Index(b))
		col.values.Index(b).Set(tmp)
	}
}

// allocate appends id as a new row at the end of the alive region and
// returns its index. If dead rows are pending finalization, the one
// occupying that slot is relocated to the new end of the occupied range
// first, so FinalizeDeadRows still finds every dead row in one
// contiguous run.
func (c *EntityChunk) allocate(id EntityID) (row int, displaced *RowMove) {
	if c.IsFull() {
		fail("EntityChunk.allocate", "chunk at capacity %d", c.capacity)
	}
	row = c.aliveCount
	c.entities = append(c.entities, InvalidEntity)
	last := len(c.entities) - 1
	if row != last {
		c.entities[last] = c.entities[row]
		for _, col := range c.columns {
			col.values.Index(last).Set(col.values.Index(row))
		}
		displaced = &RowMove{Entity: c.entities[last], NewRow: last}
	}
	c.entities[row] = id
	for _, col := range c.columns {
		col.values.Index(row).Set(reflect.Zero(col.descriptor.ReflectType))
	}
	c.aliveCount++
	return row, displaced
}

// freeImmediately removes the alive row at row by swapping it to the end
// of the alive region, used only by cross-chunk migration where the
// destination chunk already owns the values. If dead rows are pending in
// this chunk, the one now sitting at the vacated boundary slot is swapped
// in from the end of the occupied range to keep the dead run contiguous.
// It reports every entity that ended up at a different row.
func (c *EntityChunk) freeImmediately(row int) []RowMove {
	if row < 0 || row >= c.aliveCount {
		fail("EntityChunk.freeImmediately", "row %d out of range [0,%d)", row, c.aliveCount)
	}
	var moves []RowMove
	oldAliveCount := c.aliveCount
	lastAlive := oldAliveCount - 1
	if row != lastAlive {
		c.swapRows(row, lastAlive)
		moves = append(moves, RowMove{Entity: c.entities[row], NewRow: row})
	}
	c.aliveCount--

	gap := c.aliveCount // == lastAlive, the slot just vacated
	if c.deadCount > 0 {
		lastOccupied := oldAliveCount + c.deadCount - 1
		if gap != lastOccupied {
			c.swapRows(gap, lastOccupied)
			moves = append(moves, RowMove{Entity: c.entities[gap], NewRow: gap})
		}
	}
	c.entities = c.entities[:oldAliveCount+c.deadCount-1]
	return moves
}

// freeDeferred marks the alive row at row dead: it swaps to the end of
// the alive region and folds into the dead run, without erasing the
// entity from the caller's index. It reports the row the freed entity
// itself now occupies, plus any other entity displaced by the swap.
func (c *EntityChunk) freeDeferred(row int) (newRow int, displaced *RowMove) {
	if row < 0 || row >= c.aliveCount {
		fail("EntityChunk.freeDeferred", "row %d out of range [0,%d)", row, c.aliveCount)
	}
	lastAlive := c.aliveCount - 1
	if row != lastAlive {
		c.swapRows(row, lastAlive)
		displaced = &RowMove{Entity: c.entities[row], NewRow: row}
	}
	c.aliveCount--
	c.deadCount++
	return lastAlive, displaced
}

// FinalizeDeadRows invokes each column's Destructor hook, if any, on
// every dead row, drops them, and returns the entities that were
// finalized so the caller can erase them from its own index. Called once
// per frame, after systems have finished running.
func (c *EntityChunk) FinalizeDeadRows() []EntityID {
	if c.deadCount == 0 {
		return nil
	}
	finalized := make([]EntityID, c.deadCount)
	for i := 0; i < c.deadCount; i++ {
		row := c.aliveCount + i
		finalized[i] = c.entities[row]
		for _, col := range c.columns {
			if col.descriptor.Destructor != nil {
				col.descriptor.Destructor(col.values.Index(row).Interface())
			}
		}
	}
	c.entities = c.entities[:c.aliveCount]
	c.deadCount = 0
	return finalized
}

// getColumn reads the component value of type T at row.
func getColumn[T any](c *EntityChunk, id ComponentTypeID, row int) (T, bool) {
	col, ok := c.columns[id]
	if !ok {
		var zero T
		return zero, false
	}
	return col.values.Index(row).Interface().(T), true
}

// getColumnDynamic reads the component value at row, boxed as any. It is
// the path used when the caller only knows the component's type handle
// at run time, such as a serializer walking an entity's full signature.
func getColumnDynamic(c *EntityChunk, id ComponentTypeID, row int) (any, bool) {
	col, ok := c.columns[id]
	if !ok {
		return nil, false
	}
	return col.values.Index(row).Interface(), true
}

// setColumn writes the component value of type T at row.
func setColumn[T any](c *EntityChunk, id ComponentTypeID, row int, value T) {
	setColumnDynamic(c, id, row, value)
}

// setColumnDynamic writes value, boxed as any, into row. It is the path
// used when the caller only knows the component's type handle at run
// time, such as CreateWith or Prefab instantiation.
func setColumnDynamic(c *EntityChunk, id ComponentTypeID, row int, value any) {
	col, ok := c.columns[id]
	if !ok {
		fail("EntityChunk.set", "chunk has no column for component type %d", id)
	}
	col.values.Index(row).Set(reflect.ValueOf(value))
}

// copyRow copies every column dst and src have in common from srcRow to
// dstRow, used when an entity migrates from one archetype chunk to
// another after a structural change. A column whose descriptor carries a
// Copy hook uses it instead of a plain value assignment.
func copyRow(dst, src *EntityChunk, dstRow, srcRow int) {
	for id, srcCol := range src.columns {
		dstCol, ok := dst.columns[id]
		if !ok {
			continue
		}
		if srcCol.descriptor.Copy != nil {
			copied := srcCol.descriptor.Copy(srcCol.values.Index(srcRow).Interface())
			dstCol.values.Index(dstRow).Set(reflect.ValueOf(copied))
			continue
		}
		dstCol.values.Index(dstRow).Set(srcCol.values.Index(srcRow))
	}
}
