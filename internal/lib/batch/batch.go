// Package batch models request bodies that may carry either a single
// JSON object or an array of objects.
//
// The object-vs-array decision is made exactly once, when the body is
// decoded; everything downstream works on the item slice and the Many
// tag, and the response marshals back to the shape the client sent.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrUnknownShape is returned when the top-level JSON value is neither
// an object nor an array.
var ErrUnknownShape = errors.New("request body must be a JSON object or an array of objects")

// Items is the tagged union Single(T) | Batch([]T).
//
// Many records which shape the client sent so the response can mirror
// it: a single object stays a single object, an array stays an array.
type Items[T any] struct {
	Many   bool
	Values []T
}

// One wraps a single value.
func One[T any](v T) Items[T] {
	return Items[T]{Many: false, Values: []T{v}}
}

// Of wraps a slice as a batch.
func Of[T any](vs []T) Items[T] {
	return Items[T]{Many: true, Values: vs}
}

// Len reports the number of items.
func (b Items[T]) Len() int {
	return len(b.Values)
}

// UnmarshalJSON senses the top-level shape by its first token.
func (b *Items[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return ErrUnknownShape
	}

	switch trimmed[0] {
	case '[':
		b.Many = true
		return json.Unmarshal(data, &b.Values)
	case '{':
		b.Many = false
		var single T
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		b.Values = []T{single}
		return nil
	default:
		return ErrUnknownShape
	}
}

// MarshalJSON mirrors the decoded shape: batches marshal as arrays,
// single items as the bare object.
func (b Items[T]) MarshalJSON() ([]byte, error) {
	if b.Many {
		if b.Values == nil {
			return json.Marshal([]T{})
		}
		return json.Marshal(b.Values)
	}
	if len(b.Values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(b.Values[0])
}

// Map converts Items[T] into Items[U] preserving the shape tag and
// item order. Used to turn decoded inputs into response
// representations without re-deciding the shape.
func Map[T, U any](b Items[T], fn func(T) U) Items[U] {
	out := Items[U]{Many: b.Many, Values: make([]U, 0, len(b.Values))}
	for _, v := range b.Values {
		out.Values = append(out.Values, fn(v))
	}
	return out
}
