package acetext

import (
	"math"
	"strconv"
	"strings"

	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

type encoder struct {
	b     strings.Builder
	depth int
}

// Encode serializes v as an AceSerializer rev1 text blob, grounded on
// ace_serialize/serialization/mod.rs's Serializer. Lists become tables
// keyed "1".."len"; Objects become tables keyed by their own entries,
// each key tagged ^N if it parses as a 32-bit signed integer and ^S
// otherwise.
func Encode(v value.Value) (out string, err error) {
	defer werr.Recover(&err)

	e := &encoder{depth: maxDepth}
	e.b.WriteString("^1")
	e.serializeHelper(v)
	e.b.WriteString("^^")
	return e.b.String(), nil
}

func (e *encoder) enterRecursion() {
	e.depth--
	if e.depth < 0 {
		werr.Panic(werr.RecursionLimit, "acetext: table nesting exceeds the depth limit")
	}
}

func (e *encoder) exitRecursion() {
	e.depth++
}

func (e *encoder) serializeHelper(v value.Value) {
	switch v.Kind() {
	case value.Null:
		e.b.WriteString("^Z")
	case value.Bool:
		if v.Bool() {
			e.b.WriteString("^B")
		} else {
			e.b.WriteString("^b")
		}
	case value.Text:
		e.b.WriteString("^S")
		e.serializeString(v.Text())
	case value.Number:
		e.serializeNumber(v.Number())
	case value.List:
		e.serializeList(v.Items())
	case value.Object:
		e.serializeObject(v.Entries())
	}
}

func (e *encoder) serializeList(items []value.Value) {
	e.b.WriteString("^T")
	for i, item := range items {
		e.b.WriteString("^N")
		e.b.WriteString(strconv.Itoa(i + 1))
		e.enterRecursion()
		e.serializeHelper(item)
		e.exitRecursion()
	}
	e.b.WriteString("^t")
}

func (e *encoder) serializeObject(entries []value.Entry) {
	e.b.WriteString("^T")
	for _, ent := range entries {
		e.enterRecursion()
		if _, err := strconv.ParseInt(ent.Key, 10, 32); err == nil {
			e.b.WriteString("^N")
		} else {
			e.b.WriteString("^S")
		}
		e.b.WriteString(ent.Key)
		e.serializeHelper(ent.Value)
		e.exitRecursion()
	}
	e.b.WriteString("^t")
}

// serializeNumber emits ^N<shortest-round-tripping-decimal> when that
// form parses back to the exact value, otherwise falls back to the
// ^F<mantissa>^f<exponent> form decomposed from the IEEE-754 bits.
// NaN is rejected; +/-Infinity use the legacy "1.#INF"/"-1.#INF"
// spelling under ^N, matching the "ambiguous source behavior" design
// note (decoding that spelling back yields Null, not Infinity).
func (e *encoder) serializeNumber(v float64) {
	if math.IsNaN(v) {
		werr.Panic(werr.UnsupportedNaN, "acetext: AceSerializer does not support NaNs")
	}
	if math.IsInf(v, 0) {
		e.b.WriteString("^N")
		if v > 0 {
			e.b.WriteString("1.#INF")
		} else {
			e.b.WriteString("-1.#INF")
		}
		return
	}

	str := strconv.FormatFloat(v, 'g', -1, 64)
	if parsed, err := strconv.ParseFloat(str, 64); err == nil && parsed == v {
		e.b.WriteString("^N")
		e.b.WriteString(str)
		return
	}

	mantissa, exponent, sign := f64ToParts(v)
	e.b.WriteString("^F")
	if sign < 0 {
		e.b.WriteByte('-')
	}
	e.b.WriteString(strconv.FormatUint(mantissa, 10))
	e.b.WriteString("^f")
	e.b.WriteString(strconv.FormatInt(int64(exponent), 10))
}

// f64ToParts decomposes v's IEEE-754 bits per §9's design note: the
// implicit leading bit is restored for normals, subnormals shift their
// fraction left by one instead.
func f64ToParts(v float64) (mantissa uint64, exponent int16, sign int8) {
	bits := math.Float64bits(v)
	sign = 1
	if bits>>63 != 0 {
		sign = -1
	}
	expField := int16((bits >> 52) & 0x7FF)
	if expField == 0 {
		mantissa = (bits & 0xFFFFFFFFFFFFF) << 1
	} else {
		mantissa = (bits & 0xFFFFFFFFFFFFF) | 0x10000000000000
	}
	exponent = expField - 1023 - 52
	return mantissa, exponent, sign
}

func (e *encoder) serializeString(s string) {
	copyFrom := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		replacement, ok := escapeTarget(b)
		if !ok {
			continue
		}
		e.b.WriteString(s[copyFrom:i])
		e.b.WriteByte('~')
		e.b.WriteByte(replacement)
		copyFrom = i + 1
	}
	e.b.WriteString(s[copyFrom:])
}

// escapeTarget is the forward direction of escapeReplacement: the
// control byte that needs escaping maps to the byte following '~'.
func escapeTarget(b byte) (byte, bool) {
	switch {
	case b <= 0x1D, b >= 0x1F && b <= 0x20:
		return b + 64, true
	case b == 0x1E:
		return 0x7A, true
	case b == 0x5E:
		return 0x7D, true
	case b == 0x7E:
		return 0x7C, true
	case b == 0x7F:
		return 0x7B, true
	default:
		return 0, false
	}
}
