package libbinary

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

type encoder struct {
	result []byte
	depth  int

	stringRefs map[string]int
}

// Encode serializes v as a LibSerialize v1 stream: a leading Minor byte
// followed by the encoded value.
func Encode(v value.Value) (out []byte, err error) {
	defer werr.Recover(&err)

	e := &encoder{
		result:     make([]byte, 0, 1024),
		depth:      MaxDepth,
		stringRefs: make(map[string]int),
	}
	e.result = append(e.result, Minor)
	e.serializeHelper(v)
	return e.result, nil
}

func (e *encoder) enterRecursion() {
	e.depth--
	if e.depth < 0 {
		werr.Panic(werr.RecursionLimit, "libbinary: container nesting exceeds the depth limit")
	}
}

func (e *encoder) exitRecursion() {
	e.depth++
}

func (e *encoder) serializeHelper(v value.Value) {
	switch v.Kind() {
	case value.Null:
		e.result = append(e.result, byte(TagNull)<<typeTagShift)
	case value.Bool:
		if v.Bool() {
			e.result = append(e.result, byte(TagTrue)<<typeTagShift)
		} else {
			e.result = append(e.result, byte(TagFalse)<<typeTagShift)
		}
	case value.Text:
		e.serializeString(v.Text())
	case value.Number:
		e.serializeNumber(v.Number())
	case value.List:
		e.serializeSlice(v.Items())
	case value.Object:
		e.serializeTable(v.Entries())
	}
}

// serializeNumber picks the narrowest opcode that represents v exactly:
// a non-finite or fractional value is a raw Float; a whole number within
// 2^56-1 picks the smallest of the 7-bit, 12-bit, or Int{16,24,32,64}
// forms. The 7-bit form's lower bound is intentionally >= 0 (not > 0, as
// one of the format's own encoder variants used): that is the only
// choice that doesn't waste two bytes re-encoding zero through the
// 12-bit path.
func (e *encoder) serializeNumber(n float64) {
	const maxIntMagnitude = float64(1<<56 - 1)

	if math.IsNaN(n) {
		werr.Panic(werr.UnsupportedNaN, "libbinary: cannot encode NaN")
	}

	if n-math.Trunc(n) != 0 || n < -maxIntMagnitude || n > maxIntMagnitude {
		e.result = append(e.result, byte(TagFloat)<<typeTagShift)
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(n))
		e.result = append(e.result, buf[:]...)
		return
	}

	v := int64(n)

	if v > -4096 && v < 4096 {
		if v >= 0 && v < 128 {
			e.result = append(e.result, byte(v)<<1|1)
			return
		}

		var mag uint16
		var negBit uint16
		if v < 0 {
			mag = uint16(-v)
			negBit = 1 << typeTagShift
		} else {
			mag = uint16(v)
		}
		packed := (mag << 4) | negBit | 4
		e.result = append(e.result, byte(packed), byte(packed>>8))
		return
	}

	var mag uint64
	var negBit Tag
	if v < 0 {
		mag = uint64(-v)
		negBit = 1
	} else {
		mag = uint64(v)
	}

	switch requiredBytes(mag) {
	case 2:
		e.result = append(e.result, byte(TagInt16Pos+negBit)<<typeTagShift)
		e.serializeInt(mag, 2)
	case 3:
		e.result = append(e.result, byte(TagInt24Pos+negBit)<<typeTagShift)
		e.serializeInt(mag, 3)
	case 4:
		e.result = append(e.result, byte(TagInt32Pos+negBit)<<typeTagShift)
		e.serializeInt(mag, 4)
	default:
		e.result = append(e.result, byte(TagInt64Pos+negBit)<<typeTagShift)
		e.serializeInt(mag, 7)
	}
}

func (e *encoder) serializeInt(v uint64, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	e.result = append(e.result, buf[8-n:]...)
}

func (e *encoder) serializeString(s string) {
	if idx, ok := e.stringRefs[s]; ok {
		switch requiredBytes(uint64(idx)) {
		case 1:
			e.result = append(e.result, byte(TagStrRef8)<<typeTagShift)
			e.serializeInt(uint64(idx), 1)
		case 2:
			e.result = append(e.result, byte(TagStrRef16)<<typeTagShift)
			e.serializeInt(uint64(idx), 2)
		case 3:
			e.result = append(e.result, byte(TagStrRef24)<<typeTagShift)
			e.serializeInt(uint64(idx), 3)
		default:
			werr.Panic(werr.CapacityOverflow, "libbinary: more than 2^24 distinct strings")
		}
		return
	}

	n := len(s)
	if n < 16 {
		e.result = append(e.result, byte(EmbeddedStr)<<embeddedTypeTagShift|byte(n)<<embeddedLenShift|2)
	} else {
		switch requiredBytes(uint64(n)) {
		case 1:
			e.result = append(e.result, byte(TagStr8)<<typeTagShift)
			e.serializeInt(uint64(n), 1)
		case 2:
			e.result = append(e.result, byte(TagStr16)<<typeTagShift)
			e.serializeInt(uint64(n), 2)
		case 3:
			e.result = append(e.result, byte(TagStr24)<<typeTagShift)
			e.serializeInt(uint64(n), 3)
		default:
			werr.Panic(werr.CapacityOverflow, "libbinary: string is too large")
		}
	}

	if n > 2 {
		e.stringRefs[s] = len(e.stringRefs) + 1
	}
	e.result = append(e.result, s...)
}

// serializeTable splits entries into the longest 1-based integer-keyed
// prefix ("1", "2", ... wherever those keys occur, not just a literal
// leading run) and everything else, then picks Array, Map, or Mixed
// framing accordingly.
func (e *encoder) serializeTable(entries []value.Entry) {
	byKey := make(map[string]value.Value, len(entries))
	order := make([]string, 0, len(entries))
	for _, ent := range entries {
		if _, exists := byKey[ent.Key]; !exists {
			order = append(order, ent.Key)
		}
		byKey[ent.Key] = ent.Value
	}

	var array []value.Value
	removed := make(map[string]bool, len(entries))
	for i := 1; ; i++ {
		k := strconv.Itoa(i)
		v, ok := byKey[k]
		if !ok {
			break
		}
		array = append(array, v)
		removed[k] = true
	}

	var remaining []value.Entry
	for _, k := range order {
		if removed[k] {
			continue
		}
		remaining = append(remaining, value.Entry{Key: k, Value: byKey[k]})
	}

	switch {
	case len(remaining) == 0:
		e.serializeSlice(array)
	case len(array) == 0:
		e.serializeMap(remaining)
	default:
		e.serializeMixed(array, remaining)
	}
}

func (e *encoder) serializeSlice(items []value.Value) {
	n := len(items)
	if n < 16 {
		e.result = append(e.result, byte(EmbeddedArray)<<embeddedTypeTagShift|byte(n)<<embeddedLenShift|2)
	} else {
		switch requiredBytes(uint64(n)) {
		case 1:
			e.result = append(e.result, byte(TagArray8)<<typeTagShift)
			e.serializeInt(uint64(n), 1)
		case 2:
			e.result = append(e.result, byte(TagArray16)<<typeTagShift)
			e.serializeInt(uint64(n), 2)
		case 3:
			e.result = append(e.result, byte(TagArray24)<<typeTagShift)
			e.serializeInt(uint64(n), 3)
		default:
			werr.Panic(werr.CapacityOverflow, "libbinary: array is too large")
		}
	}

	for _, item := range items {
		e.enterRecursion()
		e.serializeHelper(item)
		e.exitRecursion()
	}
}

func (e *encoder) serializeMap(entries []value.Entry) {
	n := len(entries)
	if n < 16 {
		e.result = append(e.result, byte(EmbeddedMap)<<embeddedTypeTagShift|byte(n)<<embeddedLenShift|2)
	} else {
		switch requiredBytes(uint64(n)) {
		case 1:
			e.result = append(e.result, byte(TagMap8)<<typeTagShift)
			e.serializeInt(uint64(n), 1)
		case 2:
			e.result = append(e.result, byte(TagMap16)<<typeTagShift)
			e.serializeInt(uint64(n), 2)
		case 3:
			e.result = append(e.result, byte(TagMap24)<<typeTagShift)
			e.serializeInt(uint64(n), 3)
		default:
			werr.Panic(werr.CapacityOverflow, "libbinary: map is too large")
		}
	}

	for _, ent := range entries {
		e.enterRecursion()
		e.serializeString(ent.Key)
		e.serializeHelper(ent.Value)
		e.exitRecursion()
	}
}

func (e *encoder) serializeMixed(array []value.Value, mapEntries []value.Entry) {
	arrayLen := len(array)
	mapLen := len(mapEntries)

	if arrayLen < 5 && mapLen < 5 {
		packed := byte(mapLen-1)<<2 | byte(arrayLen-1)
		e.result = append(e.result, byte(EmbeddedMixed)<<embeddedTypeTagShift|packed<<embeddedLenShift|2)
	} else {
		maxLen := arrayLen
		if mapLen > maxLen {
			maxLen = mapLen
		}
		switch requiredBytes(uint64(maxLen)) {
		case 1:
			e.result = append(e.result, byte(TagMixed8)<<typeTagShift)
			e.serializeInt(uint64(arrayLen), 1)
			e.serializeInt(uint64(mapLen), 1)
		case 2:
			e.result = append(e.result, byte(TagMixed16)<<typeTagShift)
			e.serializeInt(uint64(arrayLen), 2)
			e.serializeInt(uint64(mapLen), 2)
		case 3:
			e.result = append(e.result, byte(TagMixed24)<<typeTagShift)
			e.serializeInt(uint64(arrayLen), 3)
			e.serializeInt(uint64(mapLen), 3)
		default:
			werr.Panic(werr.CapacityOverflow, "libbinary: mixed container is too large")
		}
	}

	for _, item := range array {
		e.enterRecursion()
		e.serializeHelper(item)
		e.exitRecursion()
	}
	for _, ent := range mapEntries {
		e.enterRecursion()
		e.serializeString(ent.Key)
		e.serializeHelper(ent.Value)
		e.exitRecursion()
	}
}
