package types

import "encoding/json"

// Presence is the state of an optional document field.
type Presence uint8

const (
	// Absent means the key was not in the document.
	Absent Presence = iota
	// Null means the key was present with a JSON null.
	Null
	// Present means the key carried a value.
	Present
)

func (p Presence) String() string {
	switch p {
	case Null:
		return "null"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// Optional holds a field that may be absent, null or set. The zero value is
// Absent.
type Optional[T any] struct {
	presence Presence
	value    T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{presence: Present, value: v}
}

// NullOf returns an Optional in the Null state.
func NullOf[T any]() Optional[T] {
	return Optional[T]{presence: Null}
}

// Get returns the value and true only when the field is Present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.presence == Present
}

func (o Optional[T]) Presence() Presence { return o.presence }

func (o Optional[T]) IsAbsent() bool { return o.presence == Absent }

func (o Optional[T]) IsNull() bool { return o.presence == Null }

func (o Optional[T]) IsPresent() bool { return o.presence == Present }

// MarshalJSON writes null for both Absent and Null. Callers that need to
// drop absent keys check IsAbsent first.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.presence != Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
