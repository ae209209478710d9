package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Value is a sealed interface representing measurement and validator values.
// Only String, Int, Float, Bool and List implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// String is a string measurement value.
type String string

func (String) value() {}

// Int is an integer measurement value.
type Int int64

func (Int) value() {}

// Float is a floating point measurement value.
// NaN and infinities have no JSON form and fail to marshal.
type Float float64

func (Float) value() {}

// MarshalJSON implements json.Marshaler for Float.
func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, fmt.Errorf("float value %v has no JSON representation", float64(f))
	}
	return json.Marshal(float64(f))
}

// Bool is a boolean measurement value.
type Bool bool

func (Bool) value() {}

// List is an ordered collection of values. Set validators (IN_SET,
// NOT_IN_SET) carry a List; measurements normally carry scalars.
type List []Value

func (List) value() {}

// MarshalJSON implements json.Marshaler for List. A nil List encodes as [].
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalValue marshals a Value to JSON bytes.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Float:
		return val.MarshalJSON()
	case Bool:
		return json.Marshal(bool(val))
	case List:
		return val.MarshalJSON()
	case nil:
		return nil, fmt.Errorf("nil value")
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// ValueOf converts a plain Go value to a Value.
// Accepts string, bool, all integer kinds, float32/float64 and slices of those.
// Used by decoders (YAML scenarios) that produce untyped values.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint:
		return uintValue(uint64(val))
	case uint64:
		return uintValue(val)
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			conv, err := ValueOf(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = conv
		}
		return list, nil
	case nil:
		return nil, fmt.Errorf("null is not a measurement value")
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d exceeds the int64 range", u)
	}
	return Int(u), nil
}
