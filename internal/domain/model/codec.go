package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// ErrDecode matches every *DecodeError under errors.Is.
var ErrDecode = errors.New("decode error")

type DecodeErrorKind string

const (
	KindMalformed    DecodeErrorKind = "malformed"
	KindMissingField DecodeErrorKind = "missing_field"
	KindTypeMismatch DecodeErrorKind = "type_mismatch"
)

// DecodeError reports why a payload could not be turned into a record.
// Field is a dotted path from the payload root, e.g. "solution_responses[0].status".
type DecodeError struct {
	Kind  DecodeErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := "decode: " + string(e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IsDecodeKind classifies a decode failure without type assertions at call sites.
func IsDecodeKind(err error, kind DecodeErrorKind) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// Decode parses data into a T. Every struct field is required unless it is an
// Optional, a pointer, or tagged omitempty. Keys match struct tags exactly; any
// other key, including a case variant of a known one, is ignored.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := DecodeInto(data, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DecodeInto is Decode for callers holding a destination pointer.
func DecodeInto(data []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("model: DecodeInto needs a non-nil pointer, got %T", dst)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &DecodeError{Kind: KindMalformed, Err: err}
	}
	clean, err := sanitize(raw, rv.Type().Elem(), "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(clean, dst); err != nil {
		return classifyUnmarshalError(err)
	}
	return nil
}

// Encode renders a record with every required key present. Nil slices are written
// as [] so the output always decodes again.
func Encode(v any) ([]byte, error) {
	if v != nil {
		if rv := reflect.ValueOf(v); typeHasSlices(rv.Type()) {
			v = withEmptySlices(rv).Interface()
		}
	}
	return json.Marshal(v)
}

func classifyUnmarshalError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Kind: KindTypeMismatch, Field: typeErr.Field, Err: err}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{Kind: KindMalformed, Err: err}
	}
	return &DecodeError{Kind: KindTypeMismatch, Err: err}
}

var (
	optionalFieldType = reflect.TypeFor[optionalField]()
	unmarshalerType   = reflect.TypeFor[json.Unmarshaler]()
	marshalerType     = reflect.TypeFor[json.Marshaler]()
	rawMessageType    = reflect.TypeFor[json.RawMessage]()
)

// sanitize checks raw against t and returns it with every object reduced to the
// keys t declares, so encoding/json's case-insensitive matching never sees a stray key.
func sanitize(raw json.RawMessage, t reflect.Type, path string) (json.RawMessage, error) {
	for t.Kind() == reflect.Pointer {
		if isNull(raw) {
			return raw, nil
		}
		t = t.Elem()
	}

	if t.Implements(optionalFieldType) {
		if isNull(raw) {
			return raw, nil
		}
		inner, _ := t.FieldByName("value")
		return sanitize(raw, inner.Type, path)
	}
	if t == rawMessageType || reflect.PointerTo(t).Implements(unmarshalerType) {
		return raw, nil
	}

	switch t.Kind() {
	case reflect.Struct:
		return sanitizeObject(raw, t, path)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return raw, nil
		}
		if isNull(raw) {
			return nil, mismatch(path, "null is not a valid array")
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, mismatch(path, "expected an array")
		}
		for i, item := range items {
			clean, err := sanitize(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			items[i] = clean
		}
		return json.Marshal(items)
	case reflect.Map:
		if isNull(raw) {
			return raw, nil
		}
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, mismatch(path, "expected an object")
		}
		for _, key := range slices.Sorted(maps.Keys(entries)) {
			clean, err := sanitize(entries[key], t.Elem(), joinPath(path, key))
			if err != nil {
				return nil, err
			}
			entries[key] = clean
		}
		return json.Marshal(entries)
	case reflect.Interface:
		return raw, nil
	default:
		if isNull(raw) {
			return nil, mismatch(path, "null is not a valid "+t.Kind().String())
		}
	}
	return raw, nil
}

func sanitizeObject(raw json.RawMessage, t reflect.Type, path string) (json.RawMessage, error) {
	if isNull(raw) {
		return nil, mismatch(path, "null is not a valid object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, mismatch(path, "expected an object")
	}

	fields := wireFieldsOf(t)
	kept := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		fieldPath := joinPath(path, f.name)
		value, ok := obj[f.name]
		if !ok {
			if f.optional {
				continue
			}
			return nil, &DecodeError{Kind: KindMissingField, Field: fieldPath}
		}
		clean, err := sanitize(value, f.typ, fieldPath)
		if err != nil {
			return nil, err
		}
		kept[f.name] = clean
	}
	return json.Marshal(kept)
}

type wireField struct {
	name     string
	typ      reflect.Type
	optional bool
}

var wireFieldCache sync.Map // reflect.Type -> []wireField

// wireFieldsOf lists the keys a struct occupies on the wire. Untagged embedded
// structs contribute their own keys, the same way encoding/json flattens them.
func wireFieldsOf(t reflect.Type) []wireField {
	if cached, ok := wireFieldCache.Load(t); ok {
		return cached.([]wireField)
	}

	var fields []wireField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				fields = append(fields, wireFieldsOf(ft)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		fields = append(fields, wireField{
			name: name,
			typ:  sf.Type,
			optional: sf.Type.Implements(optionalFieldType) ||
				sf.Type.Kind() == reflect.Pointer ||
				hasTagOption(opts, "omitempty"),
		})
	}

	wireFieldCache.Store(t, fields)
	return fields
}

var sliceTypeCache sync.Map // reflect.Type -> bool

// typeHasSlices reports whether a value of t can hold a nil slice that encoding/json
// would write as null. Types with their own MarshalJSON handle themselves.
func typeHasSlices(t reflect.Type) bool {
	if cached, ok := sliceTypeCache.Load(t); ok {
		return cached.(bool)
	}
	found := hasSlicesVisit(t, map[reflect.Type]bool{})
	sliceTypeCache.Store(t, found)
	return found
}

func hasSlicesVisit(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	if t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType) {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer:
		return hasSlicesVisit(t.Elem(), seen)
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.IsExported() && hasSlicesVisit(sf.Type, seen) {
				return true
			}
		}
	}
	return false
}

// withEmptySlices returns a copy of v with nil slices replaced by empty ones. v itself
// is never modified, so cached records can be encoded concurrently.
func withEmptySlices(v reflect.Value) reflect.Value {
	if !typeHasSlices(v.Type()) {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(withEmptySlices(v.Elem()))
		return p
	case reflect.Slice:
		if v.IsNil() {
			return reflect.MakeSlice(v.Type(), 0, 0)
		}
		if !typeHasSlices(v.Type().Elem()) {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(withEmptySlices(v.Index(i)))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(withEmptySlices(v.Field(i)))
			}
		}
		return out
	}
	return v
}

func hasTagOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

func mismatch(path, msg string) error {
	return &DecodeError{Kind: KindTypeMismatch, Field: path, Err: errors.New(msg)}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
