package wacodec

import (
	"bytes"
	"encoding/json"
	"sort"
)

// MarshalJSON renders v as its natural JSON counterpart: Null, Bool,
// Number, Text map directly; List becomes a JSON array; Object becomes
// a JSON object with its entries in insertion order. This is the Go
// analogue of every revision's `serde_json::to_string` boundary call —
// a convenience for callers that don't need the full Value API.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool())
	case KindNumber:
		return json.Marshal(v.Number())
	case KindText:
		return json.Marshal(v.Text())
	case KindList:
		items := v.Items()
		raw := make([]json.RawMessage, len(items))
		for i, it := range items {
			b, err := it.MarshalJSON()
			if err != nil {
				return nil, err
			}
			raw[i] = b
		}
		return json.Marshal(raw)
	default: // KindObject
		entries := v.Entries()
		var buf []byte
		buf = append(buf, '{')
		for i, e := range entries {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := e.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			buf = append(buf, val...)
		}
		buf = append(buf, '}')
		return buf, nil
	}
}

// UnmarshalJSON populates v from a JSON value, the inverse of
// MarshalJSON. JSON objects are decoded through encoding/json's
// map[string]any, so their source key order is not preserved: object
// entries come back sorted by key.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case json.Number:
		f, _ := x.Float64()
		return Number(f)
	case string:
		return Text(x)
	case []any:
		items := make([]Value, len(x))
		for i, it := range x {
			items[i] = fromAny(it)
		}
		return List(items)
	case map[string]any:
		// encoding/json does not preserve object key order; entries
		// come back sorted by key, which is the best this path can do
		// without a custom JSON tokenizer.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(x))
		for _, k := range keys {
			entries = append(entries, Entry{Key: k, Value: fromAny(x[k])})
		}
		return Object(entries)
	default:
		return Null()
	}
}
