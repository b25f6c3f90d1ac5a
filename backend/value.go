package treemodel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the type of a Value, and the declared type of a Column.
type ValueType uint8

const (
	TypeEmpty ValueType = iota
	TypeString
	TypeInt
	TypeBool
)

func (t ValueType) String() string {
	switch t {
	case TypeEmpty:
		return "empty"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Value is one cell of a row. The zero Value is empty.
type Value struct {
	typ ValueType
	s   string
	i   int64
	b   bool
}

// Empty is the empty value, returned for unmapped columns and stale items.
var Empty Value

func StringValue(s string) Value {
	return Value{typ: TypeString, s: s}
}

func IntValue(i int64) Value {
	return Value{typ: TypeInt, i: i}
}

func BoolValue(b bool) Value {
	return Value{typ: TypeBool, b: b}
}

func (v Value) Type() ValueType {
	return v.typ
}

func (v Value) IsEmpty() bool {
	return v.typ == TypeEmpty
}

// String formats the value for display. Empty values format as "".
func (v Value) String() string {
	switch v.typ {
	case TypeString:
		return v.s
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// AsString returns the text of a string value. Ints and bools are formatted;
// empty values return "".
func (v Value) AsString() (string, error) {
	return v.String(), nil
}

// AsInt returns an int value directly, or parses a string value after
// trimming spaces. Anything else fails with ErrTypeCoercion.
func (v Value) AsInt() (int64, error) {
	switch v.typ {
	case TypeInt:
		return v.i, nil
	case TypeString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q as int: %w", v.s, ErrTypeCoercion)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s as int: %w", v.typ, ErrTypeCoercion)
	}
}

// AsBool returns a bool value directly, or parses a string value with
// strconv.ParseBool.
func (v Value) AsBool() (bool, error) {
	switch v.typ {
	case TypeBool:
		return v.b, nil
	case TypeString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return false, fmt.Errorf("%q as bool: %w", v.s, ErrTypeCoercion)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%s as bool: %w", v.typ, ErrTypeCoercion)
	}
}

// IsBlank reports whether the value is empty or a string of only spaces.
// Optional fields treat blank input as "clear".
func (v Value) IsBlank() bool {
	return v.typ == TypeEmpty || (v.typ == TypeString && strings.TrimSpace(v.s) == "")
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeString:
		return json.Marshal(v.s)
	case TypeInt:
		return json.Marshal(v.i)
	case TypeBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch r := raw.(type) {
	case nil:
		*v = Empty
	case string:
		*v = StringValue(r)
	case bool:
		*v = BoolValue(r)
	case json.Number:
		i, err := r.Int64()
		if err != nil {
			return fmt.Errorf("value %s: %w", r, ErrTypeCoercion)
		}
		*v = IntValue(i)
	default:
		return fmt.Errorf("value %s: %w", data, ErrTypeCoercion)
	}
	return nil
}
