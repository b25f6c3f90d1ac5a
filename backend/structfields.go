package treemodel

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// StructFields derives one Field per exported field of the struct type T, in
// declaration order. The `treemodel` tag configures each column:
//
//	Host   string  `treemodel:"Server Host,width=160,edit"`
//	Port   uint16  `treemodel:"Port,width=90,align=center,edit"`
//	Secret string  `treemodel:"-"`
//
// The first tag element is the title (the field name when empty). Options are
// width=N, align=left|center|right, edit, and kinds=leaf|branch.
//
// Strings, integers up to int64 and uint32, bools, pointers to those (nil is an empty cell, and a
// blank edit stores nil) and types implementing encoding.TextUnmarshaler are
// supported. Integer edits that overflow the field's type are rejected.
func StructFields[T any]() ([]Field[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type '%s' is not a struct", t)
	}

	var fields []Field[T]
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" || sf.Anonymous || sf.Tag.Get("treemodel") == "-" {
			continue
		}

		col, kinds, err := parseFieldTag(sf)
		if err != nil {
			return nil, err
		}
		col.Index = len(fields)
		col.Type = fieldValueType(sf.Type)
		if col.Type == TypeEmpty {
			return nil, fmt.Errorf("field '%s' has unsupported type %s", sf.Name, sf.Type)
		}

		index := sf.Index
		field := Field[T]{
			Column: col,
			Kinds:  kinds,
			Get: func(node *T) Value {
				return reflectGet(reflect.ValueOf(node).Elem().FieldByIndex(index))
			},
		}
		if col.Editable {
			field.Set = func(node *T, value Value) error {
				return reflectSet(reflect.ValueOf(node).Elem().FieldByIndex(index), value)
			}
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func parseFieldTag(sf reflect.StructField) (Column, KindSet, error) {
	col := Column{Title: sf.Name}
	kinds := AnyKind

	tag, ok := sf.Tag.Lookup("treemodel")
	if !ok {
		return col, kinds, nil
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		col.Title = parts[0]
	}
	for _, opt := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "edit":
			col.Editable = true
		case "width":
			w, err := strconv.Atoi(val)
			if err != nil {
				return col, kinds, fmt.Errorf("field '%s': invalid width %q", sf.Name, val)
			}
			col.Width = w
		case "align":
			a, err := ParseAlign(val)
			if err != nil {
				return col, kinds, fmt.Errorf("field '%s': %w", sf.Name, err)
			}
			col.Align = a
		case "kinds":
			switch val {
			case "leaf":
				kinds = LeafOnly
			case "branch":
				kinds = BranchOnly
			case "", "any":
				kinds = AnyKind
			default:
				return col, kinds, fmt.Errorf("field '%s': unknown kinds %q", sf.Name, val)
			}
		case "":
		default:
			return col, kinds, fmt.Errorf("field '%s': unknown tag option %q", sf.Name, key)
		}
	}
	return col, kinds, nil
}

// isText reports whether values of t round-trip through text, like
// netip.Addr or time.Time.
func isText(t reflect.Type) bool {
	return t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func fieldValueType(t reflect.Type) ValueType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if isText(t) {
		return TypeString
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	// uint and uint64 hold values an int64 cell cannot show
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return TypeInt
	case reflect.Bool:
		return TypeBool
	default:
		return TypeEmpty
	}
}

func reflectGet(v reflect.Value) Value {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return Empty
		}
		v = v.Elem()
	}
	if isText(v.Type()) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return Empty
		}
		return StringValue(string(text))
	}

	switch v.Kind() {
	case reflect.String:
		return StringValue(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return IntValue(int64(v.Uint()))
	case reflect.Bool:
		return BoolValue(v.Bool())
	default:
		return Empty
	}
}

func reflectSet(field reflect.Value, value Value) error {
	target := field
	if field.Kind() == reflect.Ptr {
		if value.IsBlank() {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		target = reflect.New(field.Type().Elem()).Elem()
	}

	if isText(target.Type()) {
		um := target.Addr().Interface().(encoding.TextUnmarshaler)
		if err := um.UnmarshalText([]byte(value.String())); err != nil {
			return fmt.Errorf("%q as %s: %w", value.String(), target.Type(), ErrTypeCoercion)
		}
	} else if err := setKind(target, value); err != nil {
		return err
	}

	if field.Kind() == reflect.Ptr {
		field.Set(target.Addr())
	}
	return nil
}

func setKind(target reflect.Value, value Value) error {
	switch target.Kind() {
	case reflect.String:
		s, err := value.AsString()
		if err != nil {
			return err
		}
		target.SetString(s)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := value.AsInt()
		if err != nil {
			return err
		}
		if target.OverflowInt(i) {
			return fmt.Errorf("%d overflows %s: %w", i, target.Type(), ErrTypeCoercion)
		}
		target.SetInt(i)

	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		i, err := value.AsInt()
		if err != nil {
			return err
		}
		if i < 0 || target.OverflowUint(uint64(i)) {
			return fmt.Errorf("%d overflows %s: %w", i, target.Type(), ErrTypeCoercion)
		}
		target.SetUint(uint64(i))

	case reflect.Bool:
		b, err := value.AsBool()
		if err != nil {
			return err
		}
		target.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type %s: %w", target.Type(), ErrTypeCoercion)
	}
	return nil
}
