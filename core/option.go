package core

import "strconv"

// Option represents an optional value.
type Option[T any] struct {
	value T
	ok    bool
}

// Some constructs an Option with a value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None constructs an empty Option.
func None[T any]() Option[T] {
	var zero T
	return Option[T]{value: zero, ok: false}
}

// IsSome reports whether the option contains a value.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the option is empty.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// Unwrap returns the value and a boolean indicating presence.
func (o Option[T]) Unwrap() (T, bool) {
	return o.value, o.ok
}

// Or returns the contained value or a default.
func (o Option[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// ParseFloat returns Some(f) if s parses as a float, None otherwise.
// Attribute values of UFO documents degrade to "not present" this way.
func ParseFloat(s string) Option[float64] {
	if s == "" {
		return None[float64]()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None[float64]()
	}
	return Some(f)
}

// FormatFloat formats a float the way UFO files expect it: integers without
// a fractional part, everything else with the shortest exact representation.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
