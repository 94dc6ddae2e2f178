package model

import (
	"bytes"
	"encoding/json"
)

type optionalState uint8

const (
	optionalAbsent optionalState = iota
	optionalNull
	optionalPresent
)

// Optional holds a field that may be missing from a payload, explicitly null, or set.
// The zero value is absent; encoding/json skips it under the `omitzero` tag option.
type Optional[T any] struct {
	value T
	state optionalState
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, state: optionalPresent}
}

func Null[T any]() Optional[T] {
	return Optional[T]{state: optionalNull}
}

// FromPtr maps nil to an explicit null, which is how stored rows report unset columns.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalPresent
}

// OrElse returns the held value or fallback when absent or null.
func (o Optional[T]) OrElse(fallback T) T {
	if o.state == optionalPresent {
		return o.value
	}
	return fallback
}

func (o Optional[T]) Ptr() *T {
	if o.state != optionalPresent {
		return nil
	}
	v := o.value
	return &v
}

func (o Optional[T]) IsPresent() bool { return o.state == optionalPresent }
func (o Optional[T]) IsNull() bool    { return o.state == optionalNull }

// IsSet reports whether the key appeared in the payload at all.
func (o Optional[T]) IsSet() bool { return o.state != optionalAbsent }

func (o Optional[T]) IsZero() bool { return o.state == optionalAbsent }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != optionalPresent {
		return []byte("null"), nil
	}
	return Encode(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value = zero
		o.state = optionalNull
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.state = optionalPresent
	return nil
}

func (Optional[T]) optional() {}

type optionalField interface {
	optional()
}
