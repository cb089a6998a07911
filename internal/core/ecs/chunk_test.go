package ecs

import (
	"testing"
)

type tcPosition struct{ X, Y float64 }
type tcVelocity struct{ X, Y float64 }

func newTestChunk(t *testing.T, descriptors ...*ComponentDescriptor) *EntityChunk {
	t.Helper()
	var sig Signature
	for _, d := range descriptors {
		sig = sigWithBit(sig, d.Index)
	}
	return newEntityChunk(sig, descriptors)
}

func TestChunkAllocateAndFreeImmediately(t *testing.T) {
	resetComponentRegistryForTest()
	dp := RegisterComponent[tcPosition]()
	dv := RegisterComponent[tcVelocity]()
	c := newTestChunk(t, dp, dv)
	if c.Capacity() < 2 {
		t.Fatalf("expected chunk capacity >= 2, got %d", c.Capacity())
	}

	r1, displaced := c.allocate(EntityID(1))
	if displaced != nil {
		t.Fatalf("expected no displacement allocating into an empty chunk")
	}
	r2, _ := c.allocate(EntityID(2))
	if c.Count() != 2 {
		t.Fatalf("expected count 2, got %d", c.Count())
	}
	setColumn[tcPosition](c, dp.TypeID, r1, tcPosition{X: 1, Y: 2})
	setColumn[tcPosition](c, dp.TypeID, r2, tcPosition{X: 3, Y: 4})

	moves := c.freeImmediately(r1)
	if len(moves) != 1 || moves[0].Entity != EntityID(2) {
		t.Fatalf("expected entity 2 to move into freed row, got %+v", moves)
	}
	if c.Count() != 1 {
		t.Fatalf("expected count 1 after free, got %d", c.Count())
	}
	got, _ := getColumn[tcPosition](c, dp.TypeID, moves[0].NewRow)
	if got != (tcPosition{X: 3, Y: 4}) {
		t.Fatalf("expected swapped-in row to carry entity 2's value, got %+v", got)
	}
}

func TestChunkFreeDeferredKeepsRowAddressable(t *testing.T) {
	resetComponentRegistryForTest()
	dp := RegisterComponent[tcPosition]()
	c := newTestChunk(t, dp)

	r1, _ := c.allocate(EntityID(1))
	r2, _ := c.allocate(EntityID(2))
	setColumn[tcPosition](c, dp.TypeID, r1, tcPosition{X: 1})
	setColumn[tcPosition](c, dp.TypeID, r2, tcPosition{X: 2})

	newRow, displaced := c.freeDeferred(r1)
	if displaced == nil || displaced.Entity != EntityID(2) {
		t.Fatalf("expected entity 2 to be displaced by the deferred free, got %+v", displaced)
	}

	if c.Count() != 1 {
		t.Fatalf("expected count 1 (alive only) right after a deferred free, got %d", c.Count())
	}
	if c.occupied() != 2 {
		t.Fatalf("expected the dead row to still occupy a slot, got occupied=%d", c.occupied())
	}
	if c.EntityAt(newRow) != EntityID(1) {
		t.Fatalf("expected the freed entity to still be addressable at its new row")
	}

	finalized := c.FinalizeDeadRows()
	if len(finalized) != 1 || finalized[0] != EntityID(1) {
		t.Fatalf("expected entity 1 finalized, got %+v", finalized)
	}
	if c.Count() != 1 || c.occupied() != 1 {
		t.Fatalf("expected only the surviving alive entity left after finalization, count=%d occupied=%d", c.Count(), c.occupied())
	}
}

func TestChunkAllocateRelocatesDeadRow(t *testing.T) {
	resetComponentRegistryForTest()
	dp := RegisterComponent[tcPosition]()
	c := newTestChunk(t, dp)

	r1, _ := c.allocate(EntityID(1))
	r2, _ := c.allocate(EntityID(2))
	setColumn[tcPosition](c, dp.TypeID, r1, tcPosition{X: 1})
	setColumn[tcPosition](c, dp.TypeID, r2, tcPosition{X: 2})

	c.freeDeferred(r1) // entity 2 now alive at row 0; entity 1 dead at row 1

	_, displaced := c.allocate(EntityID(3))
	if displaced == nil || displaced.Entity != EntityID(1) {
		t.Fatalf("expected the dead row to be relocated when allocating over it, got %+v", displaced)
	}
	if c.EntityAt(displaced.NewRow) != EntityID(1) {
		t.Fatalf("expected entity 1 still addressable at its relocated row")
	}
	if c.Count() != 2 {
		t.Fatalf("expected count 2 (two alive: 2 and 3), got %d", c.Count())
	}
}

func TestChunkAllocateOnFullPanics(t *testing.T) {
	resetComponentRegistryForTest()
	dp := RegisterComponent[tcPosition]()
	c := newTestChunk(t, dp)

	for !c.IsFull() {
		c.allocate(EntityID(c.Count() + 1))
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected allocate on a full chunk to panic")
		}
	}()
	c.allocate(EntityID(999))
}
