// Package optional distinguishes "field supplied" from "field omitted" in partial updates.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds either a supplied value or nothing. The zero Value is unset.
type Value[T any] struct {
	value T
	set   bool
}

func Some[T any](value T) Value[T] {
	return Value[T]{value: value, set: true}
}

func (v Value[T]) IsSet() bool {
	return v.set
}

func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

// OrElse returns the supplied value, or fallback when unset.
func (v Value[T]) OrElse(fallback T) T {
	if v.set {
		return v.value
	}
	return fallback
}

// UnmarshalJSON treats an explicit null the same as an omitted field.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value[T]{}
		return nil
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = Some(decoded)
	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
