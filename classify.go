package structarg

import (
	"reflect"
	"time"

	"github.com/lbreide/structarg/schema"
)

var timeType = reflect.TypeOf(time.Time{})

// classify maps a field descriptor to its category. Checks run in a fixed
// order and the first match wins; pointer fields classify as their element
// type.
func classify(f schema.FieldDescriptor) Category {
	t := f.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case isCommand(t):
		return CategoryCommand
	case t.Kind() == reflect.Bool:
		return CategoryBoolean
	case isContainer(t):
		return CategoryContainer
	case t.Kind() == reflect.Map:
		return CategoryMapping
	case len(f.Choices) > 0:
		return CategoryLiteral
	case schema.IsEnum(f.Type):
		return CategoryEnumeration
	default:
		return CategoryStandard
	}
}

// isCommand reports whether a struct type is a nested schema. Scalar-like
// structs (time.Time, anything text-unmarshalable) stay plain values.
func isCommand(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t != timeType && !schema.IsTextUnmarshaler(t)
}

// isContainer reports whether a type collects multiple values. Byte slices
// are treated as scalars, not containers.
func isContainer(t reflect.Type) bool {
	if k := t.Kind(); k != reflect.Slice && k != reflect.Array {
		return false
	}

	return t.Elem().Kind() != reflect.Uint8
}
