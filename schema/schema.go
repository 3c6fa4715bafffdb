// Package schema provides introspection over tagged Go structs for
// declarative command-line parsing.
//
// A schema is an ordered sequence of fields read from a struct's declaration
// order. Field metadata (flag spelling, short alias, description, required
// state, literal choices) is carried in an `arg` struct tag using semicolon
// separated key:value pairs:
//
//	type Config struct {
//		Count   int    `arg:"desc:number of widgets;required:true"`
//		Mode    string `arg:"choices:fast,slow;desc:processing mode"`
//		Verbose bool   `arg:"short:v"`
//	}
//
// Defaults are taken from the field values of the instance supplied to Of;
// a field is required iff its tag says so.
package schema

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Enum is implemented by named types with a fixed set of named members.
// Member lookup during parsing is by name.
type Enum interface {
	EnumMembers() []string
}

var (
	enumType            = reflect.TypeOf((*Enum)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// FieldDescriptor describes a single named, typed attribute of a schema.
// Descriptors are immutable once read; nothing in this package or its
// consumers mutates the underlying struct definition.
type FieldDescriptor struct {
	// Name is the Go struct field name.
	Name string
	// Alias is the snake_case identifier used as the argument destination.
	Alias string
	// Short is an optional single-dash alias (without the prefix).
	Short string
	// Type is the declared field type, possibly a pointer type.
	Type reflect.Type
	// Required reports whether the field must be supplied on the command line.
	Required bool
	// Default is the field's default value; nil when none applies.
	Default any
	// HasDefault reports whether Default is meaningful (never for required fields).
	HasDefault bool
	// AllowNone reports whether absence/nil is a legal explicit value.
	AllowNone bool
	// Description is optional human-readable help text.
	Description string
	// Choices restricts the field to a fixed set of literal values.
	Choices []string
	// Placeholder overrides the generated metavar in help text.
	Placeholder string

	value reflect.Value
}

// Nested returns an Introspector over the field's own struct type. The
// receiver's default instance value seeds the nested defaults; a nil pointer
// field yields a zero-valued nested schema.
func (f FieldDescriptor) Nested() (Introspector, error) {
	v := f.value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v = reflect.New(f.Type.Elem())
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("field %s is not a nested schema", f.Name)
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)

	return introspect(ptr)
}

// Introspector enumerates a model's fields with their type, default,
// required state and description, in declaration order.
type Introspector interface {
	// Name returns the model's type name.
	Name() string
	// Fields returns the model's field descriptors in declaration order.
	Fields() []FieldDescriptor
}

type structIntrospector struct {
	name   string
	fields []FieldDescriptor
}

func (s *structIntrospector) Name() string              { return s.name }
func (s *structIntrospector) Fields() []FieldDescriptor { return s.fields }

// Of builds an Introspector over a pointer to a tagged struct. The instance's
// field values double as the schema's declared defaults.
func Of(model any) (Introspector, error) {
	if model == nil {
		return nil, fmt.Errorf("can't introspect a nil model")
	}
	v := reflect.ValueOf(model)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, fmt.Errorf("expected a non-nil struct pointer, got %T", model)
	}

	return introspect(v)
}

func introspect(v reflect.Value) (Introspector, error) {
	elem := v.Elem()
	st := elem.Type()
	if st.Kind() != reflect.Struct {
		return nil, fmt.Errorf("only structs can be introspected, got %s", st.Kind())
	}

	intro := &structIntrospector{name: st.Name()}
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}

		desc, skip, err := describeField(field, elem.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", st.Name(), field.Name, err)
		}
		if skip {
			continue
		}

		intro.fields = append(intro.fields, desc)
	}

	return intro, nil
}

func describeField(field reflect.StructField, value reflect.Value) (FieldDescriptor, bool, error) {
	desc := FieldDescriptor{
		Name:  field.Name,
		Alias: strcase.ToSnake(field.Name),
		Type:  field.Type,
		value: value,
	}

	if tag, ok := field.Tag.Lookup("arg"); ok {
		if tag == "-" {
			return desc, true, nil
		}
		if err := unmarshalTag(tag, &desc); err != nil {
			return desc, false, err
		}
	}

	desc.AllowNone = field.Type.Kind() == reflect.Ptr
	if !desc.Required {
		desc.HasDefault = true
		desc.Default = defaultOf(value)
	}

	return desc, false, nil
}

// defaultOf extracts the declared default from the instance field. Nil
// pointers map to an explicit nil default (the "absence" value).
func defaultOf(value reflect.Value) any {
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		return value.Elem().Interface()
	}

	return value.Interface()
}

func unmarshalTag(tag string, desc *FieldDescriptor) error {
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return fmt.Errorf("malformed tag entry %q (want key:value)", part)
		}
		key, val := kv[0], kv[1]

		switch key {
		case "name":
			desc.Alias = val
		case "short":
			desc.Short = val
		case "desc":
			desc.Description = val
		case "required":
			req, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid 'required' value %q: %w", val, err)
			}
			desc.Required = req
		case "choices":
			desc.Choices = strings.Split(val, ",")
		case "placeholder":
			desc.Placeholder = val
		default:
			return fmt.Errorf("unrecognized tag key %q", key)
		}
	}

	return nil
}

// IsEnum reports whether t (or a pointer to it) implements Enum.
func IsEnum(t reflect.Type) bool {
	return t.Implements(enumType) || reflect.PtrTo(t).Implements(enumType)
}

// EnumMembers returns the member names of an Enum-implementing type.
func EnumMembers(t reflect.Type) []string {
	base := t
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	v := reflect.New(base).Elem()
	if e, ok := v.Interface().(Enum); ok {
		return e.EnumMembers()
	}
	if e, ok := v.Addr().Interface().(Enum); ok {
		return e.EnumMembers()
	}

	return nil
}

// IsTextUnmarshaler reports whether t (or a pointer to it) implements
// encoding.TextUnmarshaler.
func IsTextUnmarshaler(t reflect.Type) bool {
	return t.Implements(textUnmarshalerType) || reflect.PtrTo(t).Implements(textUnmarshalerType)
}
