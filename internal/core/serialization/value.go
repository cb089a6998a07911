// Package serialization provides the tagged value tree used to snapshot
// component data to and from disk, independent of any particular
// component's Go type.
package serialization

import (
	"fmt"

	"corelith/internal/core/ecs"
)

// ValueType tags the shape of a SerializedObject's payload.
type ValueType int

const (
	Invalid ValueType = iota
	IntVec1
	IntVec2
	IntVec3
	IntVec4
	FloatVec1
	FloatVec2
	FloatVec3
	FloatVec4
	Matrix3
	Matrix4
	BoolValue
	Color3
	Color4
	Quat
	EntityRef
	StringValue
	SubObjects
)

func (t ValueType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case IntVec1, IntVec2, IntVec3, IntVec4:
		return "int"
	case FloatVec1, FloatVec2, FloatVec3, FloatVec4:
		return "float"
	case Matrix3:
		return "matrix3"
	case Matrix4:
		return "matrix4"
	case BoolValue:
		return "bool"
	case Color3:
		return "color3"
	case Color4:
		return "color4"
	case Quat:
		return "quat"
	case EntityRef:
		return "entity"
	case StringValue:
		return "string"
	case SubObjects:
		return "subobjects"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// SerializedObject is one named, typed node in a serialization tree. A
// leaf holds a vector of ints/floats, a bool, a string, or an entity
// reference; SubObjects holds a nested list of named children, giving
// the tree its recursive shape. An entity snapshot is an EntitySnapshot
// holding one SerializedObject per component.
type SerializedObject struct {
	Name string
	Type ValueType

	ints    []int64
	floats  []float64
	matrix  [][]float64
	boolean bool
	entity  ecs.EntityID
	str     string
	subs    []*SerializedObject
}

func intVecType(width int) ValueType {
	switch width {
	case 1:
		return IntVec1
	case 2:
		return IntVec2
	case 3:
		return IntVec3
	case 4:
		return IntVec4
	default:
		panic(fmt.Sprintf("serialization: invalid int vector width %d", width))
	}
}

func floatVecType(width int) ValueType {
	switch width {
	case 1:
		return FloatVec1
	case 2:
		return FloatVec2
	case 3:
		return FloatVec3
	case 4:
		return FloatVec4
	default:
		panic(fmt.Sprintf("serialization: invalid float vector width %d", width))
	}
}

// NewInvalid creates a placeholder node carrying no value, used when a
// serializer could not produce a value for a field.
func NewInvalid(name string) *SerializedObject {
	return &SerializedObject{Name: name, Type: Invalid}
}

// NewInts creates an integer vector of 1 to 4 components.
func NewInts(name string, values ...int64) *SerializedObject {
	return &SerializedObject{Name: name, Type: intVecType(len(values)), ints: values}
}

// NewFloats creates a float vector of 1 to 4 components.
func NewFloats(name string, values ...float64) *SerializedObject {
	return &SerializedObject{Name: name, Type: floatVecType(len(values)), floats: values}
}

// NewBool creates a boolean leaf.
func NewBool(name string, value bool) *SerializedObject {
	return &SerializedObject{Name: name, Type: BoolValue, boolean: value}
}

// NewColor3 creates an r, g, b color leaf.
func NewColor3(name string, r, g, b float64) *SerializedObject {
	return &SerializedObject{Name: name, Type: Color3, floats: []float64{r, g, b}}
}

// NewColor4 creates an r, g, b, a color leaf.
func NewColor4(name string, r, g, b, a float64) *SerializedObject {
	return &SerializedObject{Name: name, Type: Color4, floats: []float64{r, g, b, a}}
}

// NewQuat creates an x, y, z, w quaternion leaf.
func NewQuat(name string, x, y, z, w float64) *SerializedObject {
	return &SerializedObject{Name: name, Type: Quat, floats: []float64{x, y, z, w}}
}

// NewMatrix3 creates a 3x3 matrix leaf from row-major rows.
func NewMatrix3(name string, rows [3][3]float64) *SerializedObject {
	m := make([][]float64, 3)
	for i, row := range rows {
		m[i] = append([]float64(nil), row[:]...)
	}
	return &SerializedObject{Name: name, Type: Matrix3, matrix: m}
}

// NewMatrix4 creates a 4x4 matrix leaf from row-major rows.
func NewMatrix4(name string, rows [4][4]float64) *SerializedObject {
	m := make([][]float64, 4)
	for i, row := range rows {
		m[i] = append([]float64(nil), row[:]...)
	}
	return &SerializedObject{Name: name, Type: Matrix4, matrix: m}
}

// NewEntityRef creates an entity-reference leaf.
func NewEntityRef(name string, e ecs.EntityID) *SerializedObject {
	return &SerializedObject{Name: name, Type: EntityRef, entity: e}
}

// NewString creates a string leaf.
func NewString(name, value string) *SerializedObject {
	return &SerializedObject{Name: name, Type: StringValue, str: value}
}

// NewSubObjects creates a node holding a list of named children.
func NewSubObjects(name string, subs ...*SerializedObject) *SerializedObject {
	return &SerializedObject{Name: name, Type: SubObjects, subs: subs}
}

// AsInts returns the node's integer vector, or (nil, false) if the node
// is not an int vector.
func (o *SerializedObject) AsInts() ([]int64, bool) {
	switch o.Type {
	case IntVec1, IntVec2, IntVec3, IntVec4:
		return o.ints, true
	default:
		return nil, false
	}
}

// AsFloats returns the node's float vector, or (nil, false) if the node
// does not carry one (covers plain float vectors, colors, and quats).
func (o *SerializedObject) AsFloats() ([]float64, bool) {
	switch o.Type {
	case FloatVec1, FloatVec2, FloatVec3, FloatVec4, Color3, Color4, Quat:
		return o.floats, true
	default:
		return nil, false
	}
}

// AsMatrix returns the node's row-major matrix, or (nil, false) if the
// node is not a matrix.
func (o *SerializedObject) AsMatrix() ([][]float64, bool) {
	switch o.Type {
	case Matrix3, Matrix4:
		return o.matrix, true
	default:
		return nil, false
	}
}

// AsBool returns the node's boolean value.
func (o *SerializedObject) AsBool() (bool, bool) {
	if o.Type != BoolValue {
		return false, false
	}
	return o.boolean, true
}

// AsEntity returns the node's entity reference.
func (o *SerializedObject) AsEntity() (ecs.EntityID, bool) {
	if o.Type != EntityRef {
		return 0, false
	}
	return o.entity, true
}

// AsString returns the node's string value.
func (o *SerializedObject) AsString() (string, bool) {
	if o.Type != StringValue {
		return "", false
	}
	return o.str, true
}

// AsSubObjects returns the node's children.
func (o *SerializedObject) AsSubObjects() ([]*SerializedObject, bool) {
	if o.Type != SubObjects {
		return nil, false
	}
	return o.subs, true
}

// FindSub looks up an immediate child by name. Returns ok=false rather
// than an error: a missing field in a snapshot is a common, recoverable
// case (schema evolution, optional fields), not a programmer error.
func (o *SerializedObject) FindSub(name string) (*SerializedObject, bool) {
	if o.Type != SubObjects {
		return nil, false
	}
	for _, s := range o.subs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
