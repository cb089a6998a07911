package serialization

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"corelith/internal/core/ecs"
)

var rowAxisNames = [4]string{"x", "y", "z", "w"}

// MarshalYAML renders the node as {name, type, value}. Matrices render
// their value as a flat map of xN/yN/zN/wN keys, one per cell, rather
// than nested sequences, matching how the engine's tooling expects
// transform rows to read in a checked-in scene file.
func (o *SerializedObject) MarshalYAML() (interface{}, error) {
	value, err := o.encodeValue()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"name":  o.Name,
		"type":  int(o.Type),
		"value": value,
	}, nil
}

func (o *SerializedObject) encodeValue() (any, error) {
	switch o.Type {
	case Invalid:
		return nil, nil
	case IntVec1, IntVec2, IntVec3, IntVec4:
		return o.ints, nil
	case FloatVec1, FloatVec2, FloatVec3, FloatVec4, Color3, Color4, Quat:
		return o.floats, nil
	case Matrix3:
		return encodeMatrix(o.matrix, 3), nil
	case Matrix4:
		return encodeMatrix(o.matrix, 4), nil
	case BoolValue:
		return o.boolean, nil
	case EntityRef:
		return uint32(o.entity), nil
	case StringValue:
		return o.str, nil
	case SubObjects:
		return o.subs, nil
	default:
		return nil, fmt.Errorf("serialization: unknown value type %d", int(o.Type))
	}
}

func encodeMatrix(rows [][]float64, width int) map[string]float64 {
	out := make(map[string]float64, width*width)
	for r := 0; r < width && r < len(rows); r++ {
		for c := 0; c < width && c < len(rows[r]); c++ {
			out[fmt.Sprintf("%s%d", rowAxisNames[r], c)] = rows[r][c]
		}
	}
	return out
}

// UnmarshalYAML restores a node from its {name, type, value} wire form.
func (o *SerializedObject) UnmarshalYAML(node *yaml.Node) error {
	var wire struct {
		Name  string    `yaml:"name"`
		Type  int       `yaml:"type"`
		Value yaml.Node `yaml:"value"`
	}
	if err := node.Decode(&wire); err != nil {
		return fmt.Errorf("serialization: malformed object: %w", err)
	}
	o.Name = wire.Name
	o.Type = ValueType(wire.Type)

	switch o.Type {
	case Invalid:
		return nil
	case IntVec1, IntVec2, IntVec3, IntVec4:
		return wire.Value.Decode(&o.ints)
	case FloatVec1, FloatVec2, FloatVec3, FloatVec4, Color3, Color4, Quat:
		return wire.Value.Decode(&o.floats)
	case Matrix3:
		return o.decodeMatrix(&wire.Value, 3)
	case Matrix4:
		return o.decodeMatrix(&wire.Value, 4)
	case BoolValue:
		return wire.Value.Decode(&o.boolean)
	case EntityRef:
		var raw uint32
		if err := wire.Value.Decode(&raw); err != nil {
			return fmt.Errorf("serialization: malformed entity reference %q: %w", o.Name, err)
		}
		o.entity = ecs.EntityID(raw)
		return nil
	case StringValue:
		return wire.Value.Decode(&o.str)
	case SubObjects:
		return wire.Value.Decode(&o.subs)
	default:
		return fmt.Errorf("serialization: unknown value type %d for %q", wire.Type, o.Name)
	}
}

func (o *SerializedObject) decodeMatrix(node *yaml.Node, width int) error {
	var raw map[string]float64
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("serialization: malformed matrix %q: %w", o.Name, err)
	}
	rows := make([][]float64, width)
	for r := 0; r < width; r++ {
		rows[r] = make([]float64, width)
		for c := 0; c < width; c++ {
			rows[r][c] = raw[fmt.Sprintf("%s%d", rowAxisNames[r], c)]
		}
	}
	o.matrix = rows
	return nil
}

// EntitySnapshot is the on-disk shape of one entity: its id (informational
// only on load, since entity identity is reassigned per process) plus
// the serialized form of every component the DynamicSerializer registry
// knew how to encode for it.
type EntitySnapshot struct {
	Entity     ecs.EntityID        `yaml:"entity"`
	Components []*SerializedObject `yaml:"components"`
}

// EncodeYAML renders o as a YAML document.
func EncodeYAML(o *SerializedObject) ([]byte, error) {
	return yaml.Marshal(o)
}

// DecodeYAML parses a YAML document into a SerializedObject tree.
func DecodeYAML(data []byte) (*SerializedObject, error) {
	var o SerializedObject
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("serialization: decode failed: %w", err)
	}
	return &o, nil
}
