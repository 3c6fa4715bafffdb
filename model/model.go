// Package model is the validation boundary of structarg: it turns the nested
// key/value structure produced by argument parsing into a typed struct
// instance, or a structured validation error.
//
// Per-field casters run as an explicit pre-validation pass before decoding.
// A caster must be idempotent on already-typed values, must map an empty
// string to nil (the absence value), and must never fail — input it cannot
// convert is passed through unchanged so the decoder reports the failure.
package model

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Caster converts a raw string token into a field's typed value.
type Caster func(value any) any

// Nested marks a sub-dictionary produced by sub-command reconstruction.
// Only Nested values are recursed into; plain maps (e.g. parsed mapping
// field values) are handed to the decoder as-is.
type Nested map[string]any

// FieldError is a single validation failure at a field path.
type FieldError struct {
	Path   string
	Reason string
}

// ValidationError enumerates every field that failed validation for a model.
type ValidationError struct {
	Model  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation error(s) for %s", len(e.Fields), e.Model)
	for _, f := range e.Fields {
		path := f.Path
		if path == "" {
			path = "input"
		}
		fmt.Fprintf(&b, "\n%s\n  %s", path, f.Reason)
	}

	return b.String()
}

// Validator builds typed instances of T from nested input dictionaries.
type Validator[T any] struct {
	name     string
	defaults *T
	casters  map[string]Caster
	renames  map[string]string
}

// NewValidator creates a Validator for the named model. defaults seeds every
// constructed instance; casters and renames are keyed by dotted alias path.
func NewValidator[T any](name string, defaults *T, casters map[string]Caster, renames map[string]string) *Validator[T] {
	return &Validator[T]{
		name:     name,
		defaults: defaults,
		casters:  casters,
		renames:  renames,
	}
}

// Validate constructs a model instance from the supplied nested dictionary.
// On failure it returns a *ValidationError; no partial instance is returned
// alongside an error.
func (v *Validator[T]) Validate(input map[string]any) (*T, error) {
	out := new(T)
	if v.defaults != nil {
		deepCopy(reflect.ValueOf(out).Elem(), reflect.ValueOf(v.defaults).Elem())
	}

	data := v.transform("", input, reflect.ValueOf(out).Elem())

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(data); err != nil {
		return nil, v.wrapError(err)
	}

	return out, nil
}

// transform applies casters, renames alias keys to Go field names, and
// handles explicit nil values by zeroing the target field and dropping the
// key. It never mutates the input map.
func (v *Validator[T]) transform(path string, in map[string]any, target reflect.Value) map[string]any {
	out := make(map[string]any, len(in))
	for key, val := range in {
		full := key
		if path != "" {
			full = path + "." + key
		}

		if caster, ok := v.casters[full]; ok {
			val = caster(val)
		}

		name := key
		if n, ok := v.renames[full]; ok {
			name = n
		}

		var field reflect.Value
		if target.IsValid() && target.Kind() == reflect.Struct {
			field = target.FieldByName(name)
		}

		if sub, ok := val.(Nested); ok {
			nested := field
			if nested.IsValid() && nested.Kind() == reflect.Ptr {
				if nested.IsNil() && nested.CanSet() {
					nested.Set(reflect.New(nested.Type().Elem()))
				}
				nested = nested.Elem()
			}
			out[name] = v.transform(full, sub, nested)
			continue
		}

		if val == nil {
			// Explicit absence: the field reverts to its zero value and the
			// key is withheld from the decoder.
			if field.IsValid() && field.CanSet() {
				field.SetZero()
			}
			continue
		}

		out[name] = val
	}

	return out
}

// deepCopy copies src into dst, allocating fresh pointers, maps, and slices
// so the copy shares no mutable state with src.
func deepCopy(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Ptr:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.New(src.Type().Elem()))
		deepCopy(dst.Elem(), src.Elem())
	case reflect.Struct:
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if dst.Field(i).CanSet() {
				deepCopy(dst.Field(i), src.Field(i))
			}
		}
	case reflect.Map:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.MakeMapWithSize(src.Type(), src.Len()))
		iter := src.MapRange()
		for iter.Next() {
			elem := reflect.New(src.Type().Elem()).Elem()
			deepCopy(elem, iter.Value())
			dst.SetMapIndex(iter.Key(), elem)
		}
	case reflect.Slice:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.MakeSlice(src.Type(), src.Len(), src.Len()))
		for i := 0; i < src.Len(); i++ {
			deepCopy(dst.Index(i), src.Index(i))
		}
	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			deepCopy(dst.Index(i), src.Index(i))
		}
	default:
		dst.Set(src)
	}
}

var quotedField = regexp.MustCompile(`'([^']+)'`)

// wrapError flattens the decoder's joined per-field failures into a single
// ValidationError.
func (v *Validator[T]) wrapError(err error) error {
	verr := &ValidationError{Model: v.name}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, sub := range joined.Unwrap() {
			verr.Fields = append(verr.Fields, FieldError{Path: fieldPath(sub.Error()), Reason: sub.Error()})
		}
	} else {
		verr.Fields = append(verr.Fields, FieldError{Reason: err.Error()})
	}

	return verr
}

func fieldPath(msg string) string {
	if m := quotedField.FindStringSubmatch(msg); m != nil {
		return m[1]
	}

	return ""
}
