package wacodec

import "github.com/weakauras/wacodec/internal/value"

// valueKind discriminates a Value's active variant.
type valueKind = value.Kind

const (
	KindNull   = value.Null
	KindBool   = value.Bool
	KindNumber = value.Number
	KindText   = value.Text
	KindList   = value.List
	KindObject = value.Object
)

// Entry is one key/value pair of an Object, in insertion order.
type Entry struct {
	Key   string
	Value Value
}

// Value is the tagged sum described in spec.md §3: Null, Bool, Number
// (IEEE-754 double), Text (UTF-8), List, or Object (insertion-ordered
// entries). It is the only data type this package's public operations
// accept or return.
type Value struct {
	inner value.Value
}

func Null() Value             { return Value{inner: value.OfNull()} }
func Bool(b bool) Value       { return Value{inner: value.OfBool(b)} }
func Number(n float64) Value  { return Value{inner: value.OfNumber(n)} }
func Text(s string) Value     { return Value{inner: value.OfText(s)} }

func List(items []Value) Value {
	inner := make([]value.Value, len(items))
	for i, it := range items {
		inner[i] = it.inner
	}
	return Value{inner: value.OfList(inner)}
}

func Object(entries []Entry) Value {
	inner := make([]value.Entry, len(entries))
	for i, e := range entries {
		inner[i] = value.Entry{Key: e.Key, Value: e.Value.inner}
	}
	return Value{inner: value.OfObject(inner)}
}

func (v Value) Kind() valueKind { return v.inner.Kind() }
func (v Value) Bool() bool      { return v.inner.Bool() }
func (v Value) Number() float64 { return v.inner.Number() }
func (v Value) Text() string    { return v.inner.Text() }

func (v Value) Items() []Value {
	items := v.inner.Items()
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = Value{inner: it}
	}
	return out
}

func (v Value) Entries() []Entry {
	entries := v.inner.Entries()
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Key: e.Key, Value: Value{inner: e.Value}}
	}
	return out
}

// Get returns the value associated with key in an Object, or (Value{},
// false) if absent.
func (v Value) Get(key string) (Value, bool) {
	inner, ok := v.inner.Get(key)
	return Value{inner: inner}, ok
}

// Equal reports deep structural equality between a and b.
func Equal(a, b Value) bool {
	return value.Equal(a.inner, b.inner)
}

func fromInternal(v value.Value) Value { return Value{inner: v} }
func (v Value) toInternal() value.Value { return v.inner }
