package serialization

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corelith/internal/core/ecs"
)

type snapshotHealth struct {
	Current int64
	Max     int64
}

var snapshotHealthOnce sync.Once
var snapshotHealthDescriptor *ecs.ComponentDescriptor

func registerSnapshotHealth() *ecs.ComponentDescriptor {
	snapshotHealthOnce.Do(func() {
		snapshotHealthDescriptor = ecs.RegisterComponent[snapshotHealth]()
	})
	return snapshotHealthDescriptor
}

func healthSerializer() ComponentSerializer {
	return ComponentSerializer{
		Encode: func(v any) *SerializedObject {
			h := v.(snapshotHealth)
			return NewInts("health", h.Current, h.Max)
		},
		Decode: func(o *SerializedObject) (any, bool) {
			vals, ok := o.AsInts()
			if !ok || len(vals) != 2 {
				return nil, false
			}
			return snapshotHealth{Current: vals[0], Max: vals[1]}, true
		},
	}
}

func TestEncodeEntityCollectsRegisteredComponents(t *testing.T) {
	d := registerSnapshotHealth()
	reg := NewRegistry()
	reg.Register(d.TypeID, healthSerializer())

	m := ecs.NewEntityManager()
	e := m.CreateWith(snapshotHealth{Current: 3, Max: 10})

	snap, ok := EncodeEntity(reg, m, e)
	require.True(t, ok)
	require.Len(t, snap.Components, 1)
	assert.Equal(t, d.Name, snap.Components[0].Name)
	vals, ok := snap.Components[0].AsInts()
	require.True(t, ok)
	assert.Equal(t, []int64{3, 10}, vals)
}

func TestEncodeEntityMissingReturnsFalse(t *testing.T) {
	reg := NewRegistry()
	m := ecs.NewEntityManager()
	_, ok := EncodeEntity(reg, m, ecs.EntityID(999))
	assert.False(t, ok)
}

func TestDecodeEntityRestoresRegisteredComponents(t *testing.T) {
	d := registerSnapshotHealth()
	reg := NewRegistry()
	reg.Register(d.TypeID, healthSerializer())

	snap := &EntitySnapshot{
		Components: []*SerializedObject{
			NewInts(d.Name, 5, 20),
		},
	}

	m := ecs.NewEntityManager()
	e, skipped := DecodeEntity(reg, m, snap)
	assert.Empty(t, skipped)

	h, ok := ecs.Get[snapshotHealth](m, e)
	require.True(t, ok)
	assert.Equal(t, snapshotHealth{Current: 5, Max: 20}, h)
}

func TestDecodeEntitySkipsUnknownComponentNames(t *testing.T) {
	reg := NewRegistry()
	snap := &EntitySnapshot{
		Components: []*SerializedObject{
			NewBool("nonexistent.Thing", true),
		},
	}
	m := ecs.NewEntityManager()
	_, skipped := DecodeEntity(reg, m, snap)
	assert.Equal(t, []string{"nonexistent.Thing"}, skipped)
}
