package acetext

import (
	"math"
	"strconv"

	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

const maxDepth = 128

type decoder struct {
	r     *strReader
	depth int
}

// Decode parses an AceSerializer rev1 text blob, grounded on
// ace_serialize/deserialization/mod.rs's Deserializer::deserialize_first:
// the stream must begin with "^1" and yields its single following value
// (Null if the stream terminates immediately via "^^").
func Decode(s string) (v value.Value, err error) {
	defer werr.Recover(&err)

	d := &decoder{r: newStrReader(s), depth: maxDepth}
	if tok := d.r.readIdentifier(); tok != "^1" {
		werr.Panic(werr.InvalidHeader, "acetext: not AceSerializer data (rev 1)")
	}

	item, ok := d.deserializeHelper()
	if !ok {
		return value.OfNull(), nil
	}
	return item, nil
}

func (d *decoder) enterRecursion() {
	d.depth--
	if d.depth < 0 {
		werr.Panic(werr.RecursionLimit, "acetext: table nesting exceeds the depth limit")
	}
}

func (d *decoder) exitRecursion() {
	d.depth++
}

// deserializeHelper reads one value, or reports ok=false on the "^^"
// sentinel a table's contents never use but the top-level reader might
// encounter mid-stream (mirrored from the Rust decoder's Option return).
func (d *decoder) deserializeHelper() (value.Value, bool) {
	switch tok := d.r.readIdentifier(); tok {
	case "^^":
		return value.Value{}, false
	case "^Z":
		return value.OfNull(), true
	case "^B":
		return value.OfBool(true), true
	case "^b":
		return value.OfBool(false), true
	case "^S":
		return value.OfText(d.r.parseStr()), true
	case "^N":
		return d.deserializeNumberTag(), true
	case "^F":
		return d.deserializeFloatStrTag(), true
	case "^T":
		return d.deserializeTable(), true
	default:
		werr.Panic(werr.InvalidTag, "acetext: invalid identifier "+tok)
		panic("unreachable")
	}
}

func (d *decoder) extractValue() value.Value {
	v, ok := d.deserializeHelper()
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "acetext: unexpected end of a table")
	}
	return v
}

func (d *decoder) deserializeNumberTag() value.Value {
	n := deserializeNumber(d.r.readUntilNext())
	return numberOrNull(n)
}

func (d *decoder) deserializeFloatStrTag() value.Value {
	mantissa, perr := strconv.ParseFloat(d.r.readUntilNext(), 64)
	if perr != nil {
		werr.Panic(werr.CodecError, "acetext: failed to parse a number")
	}
	if tok := d.r.readIdentifier(); tok != "^f" {
		werr.Panic(werr.MissingExponent, "acetext: missing exponent")
	}
	exponent, perr := strconv.ParseFloat(d.r.readUntilNext(), 64)
	if perr != nil {
		werr.Panic(werr.CodecError, "acetext: failed to parse a number")
	}
	return numberOrNull(mantissa * math.Pow(2, exponent))
}

// numberOrNull matches the "ambiguous source behavior" design note: a
// number that is not representable as a finite double substitutes Null
// rather than failing the decode.
func numberOrNull(n float64) value.Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return value.OfNull()
	}
	return value.OfNumber(n)
}

// deserializeNumber parses the ^N payload, recognizing the legacy
// non-finite spellings before falling back to strconv.
func deserializeNumber(s string) float64 {
	switch s {
	case "1.#INF", "inf":
		return math.Inf(1)
	case "-1.#INF", "-inf":
		return math.Inf(-1)
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			werr.Panic(werr.CodecError, "acetext: failed to parse a number")
		}
		return n
	}
}

// deserializeTable reads "^T ... ^t" as alternating key/value pairs,
// then lowers the result to a List if keys are exactly "1".."len" in
// order, otherwise to an Object.
func (d *decoder) deserializeTable() value.Value {
	var keys []string
	var vals []value.Value

	for {
		tok, ok := d.r.peekIdentifier()
		if !ok {
			werr.Panic(werr.UnexpectedEOF, "acetext: unterminated table")
		}
		if tok == "^t" {
			d.r.readIdentifier()
			break
		}

		d.enterRecursion()
		key := d.extractValue()
		if nextTok, ok := d.r.peekIdentifier(); ok && nextTok == "^t" {
			werr.Panic(werr.UnexpectedEOF, "acetext: unexpected end of a table")
		}
		val := d.extractValue()
		d.exitRecursion()

		keys = append(keys, coerceKey(key))
		vals = append(vals, val)
	}

	if isSequentialKeys(keys) {
		return value.OfList(vals)
	}

	entries := make([]value.Entry, len(keys))
	for i, k := range keys {
		entries[i] = value.Entry{Key: k, Value: vals[i]}
	}
	return value.OfObject(entries)
}

func isSequentialKeys(keys []string) bool {
	for i, k := range keys {
		if k != strconv.Itoa(i+1) {
			return false
		}
	}
	return true
}

// coerceKey applies the same coercion the encoder's key-tag choice
// relies on: numbers lower to their shortest decimal string, bools to
// "true"/"false".
func coerceKey(v value.Value) string {
	switch v.Kind() {
	case value.Text:
		return v.Text()
	case value.Number:
		return strconv.FormatFloat(v.Number(), 'g', -1, 64)
	case value.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	default:
		werr.Panic(werr.UnsupportedKey, "acetext: unsupported key type for a table")
		return ""
	}
}
