package libbinary

import (
	"strconv"

	"github.com/weakauras/wacodec/internal/bitreader"
	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

type decoder struct {
	r     *bitreader.Reader
	depth int

	stringRefs []string
	tableRefs  []value.Value
}

// Decode parses a LibSerialize v1 stream (a leading Minor byte followed
// by at least one value) into a Value tree. Only the first value is
// returned; any bytes after it are ignored.
func Decode(data []byte) (v value.Value, err error) {
	defer werr.Recover(&err)

	r := bitreader.New(data)
	b, ok := r.ReadU8()
	if !ok || b != Minor {
		werr.Panic(werr.InvalidHeader, "libbinary: missing or unrecognized MINOR byte")
	}

	d := &decoder{r: r, depth: MaxDepth}
	result, ok := d.deserializeHelper()
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "libbinary: no value follows the header")
	}
	return result, nil
}

func (d *decoder) enterRecursion() {
	d.depth--
	if d.depth < 0 {
		werr.Panic(werr.RecursionLimit, "libbinary: container nesting exceeds the depth limit")
	}
}

func (d *decoder) exitRecursion() {
	d.depth++
}

// deserializeHelper reads one opcode byte and dispatches on its low
// bits. ok is false only at a clean end of input (used by the top-level
// Decode call; every recursive caller treats that as UnexpectedEOF via
// extractValue).
func (d *decoder) deserializeHelper() (value.Value, bool) {
	b, ok := d.r.ReadU8()
	if !ok {
		return value.Value{}, false
	}

	switch {
	case b&1 == 1:
		// xxxxxxx1: 7-bit non-negative integer in the upper 7 bits.
		return value.OfNumber(float64(b >> 1)), true

	case b&3 == 2:
		// ccccTT10: embedded Str/Map/Array/Mixed with an inline 4-bit count.
		tag := EmbeddedTag((b & 0x0F) >> 2)
		count := b >> 4
		return d.deserializeEmbedded(tag, count), true

	case b&7 == 4:
		// nnnnS100: 12-bit signed integer, low nibble here plus the next byte.
		next, ok := d.r.ReadU8()
		if !ok {
			werr.Panic(werr.UnexpectedEOF, "libbinary: truncated 12-bit integer")
		}
		packed := uint16(next)<<8 | uint16(b)
		var n float64
		if b&15 == 12 {
			n = -float64(packed >> 4)
		} else {
			n = float64(packed >> 4)
		}
		return value.OfNumber(n), true

	default:
		// TTTTT000: one of the 32 full type tags.
		tag := Tag(b >> 3)
		return d.deserializeOne(tag), true
	}
}

func (d *decoder) extractValue() value.Value {
	v, ok := d.deserializeHelper()
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "libbinary: unexpected end of input")
	}
	return v
}

func (d *decoder) deserializeEmbedded(tag EmbeddedTag, count byte) value.Value {
	switch tag {
	case EmbeddedStr:
		return d.deserializeString(int(count))
	case EmbeddedMap:
		return d.deserializeMap(int(count))
	case EmbeddedArray:
		return d.deserializeArray(int(count))
	case EmbeddedMixed:
		// The 4-bit count packs two 2-bit sub-counts, each one less than
		// the true count: low 2 bits are the array count, high 2 bits
		// the map count.
		return d.deserializeMixed(int(count&3)+1, int(count>>2)+1)
	default:
		werr.Panic(werr.InvalidTag, "libbinary: invalid embedded type tag")
		panic("unreachable")
	}
}

func (d *decoder) deserializeOne(tag Tag) value.Value {
	switch tag {
	case TagNull:
		return value.OfNull()

	case TagInt16Pos:
		return value.OfNumber(float64(d.deserializeInt(2)))
	case TagInt16Neg:
		return value.OfNumber(-float64(d.deserializeInt(2)))
	case TagInt24Pos:
		return value.OfNumber(float64(d.deserializeInt(3)))
	case TagInt24Neg:
		return value.OfNumber(-float64(d.deserializeInt(3)))
	case TagInt32Pos:
		return value.OfNumber(float64(d.deserializeInt(4)))
	case TagInt32Neg:
		return value.OfNumber(-float64(d.deserializeInt(4)))
	case TagInt64Pos:
		return value.OfNumber(float64(d.deserializeInt(7)))
	case TagInt64Neg:
		return value.OfNumber(-float64(d.deserializeInt(7)))

	case TagFloat:
		f, ok := d.r.ReadF64()
		if !ok {
			werr.Panic(werr.UnexpectedEOF, "libbinary: truncated float")
		}
		return value.OfNumber(f)
	case TagFloatStrPos:
		return value.OfNumber(d.deserializeF64FromStr())
	case TagFloatStrNeg:
		return value.OfNumber(-d.deserializeF64FromStr())

	case TagTrue:
		return value.OfBool(true)
	case TagFalse:
		return value.OfBool(false)

	case TagStr8:
		return d.deserializeString(d.readLen(1))
	case TagStr16:
		return d.deserializeString(d.readLen(2))
	case TagStr24:
		return d.deserializeString(d.readLen(3))

	case TagMap8:
		return d.deserializeMap(d.readLen(1))
	case TagMap16:
		return d.deserializeMap(d.readLen(2))
	case TagMap24:
		return d.deserializeMap(d.readLen(3))

	case TagArray8:
		return d.deserializeArray(d.readLen(1))
	case TagArray16:
		return d.deserializeArray(d.readLen(2))
	case TagArray24:
		return d.deserializeArray(d.readLen(3))

	case TagMixed8:
		return d.deserializeMixed(d.readLen(1), d.readLen(1))
	case TagMixed16:
		return d.deserializeMixed(d.readLen(2), d.readLen(2))
	case TagMixed24:
		return d.deserializeMixed(d.readLen(3), d.readLen(3))

	case TagStrRef8:
		return d.resolveStringRef(d.readLen(1))
	case TagStrRef16:
		return d.resolveStringRef(d.readLen(2))
	case TagStrRef24:
		return d.resolveStringRef(d.readLen(3))

	case TagMapRef8:
		return d.resolveTableRef(d.readLen(1))
	case TagMapRef16:
		return d.resolveTableRef(d.readLen(2))
	case TagMapRef24:
		return d.resolveTableRef(d.readLen(3))

	default:
		werr.Panic(werr.InvalidTag, "libbinary: unrecognized type tag")
		panic("unreachable")
	}
}

func (d *decoder) readLen(n int) int {
	return int(d.deserializeInt(n))
}

func (d *decoder) deserializeInt(n int) uint64 {
	v, ok := d.r.ReadInt(n)
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "libbinary: truncated integer")
	}
	return v
}

func (d *decoder) deserializeF64FromStr() float64 {
	n, ok := d.r.ReadU8()
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "libbinary: truncated FloatStr length")
	}
	raw, ok := d.r.ReadBytes(int(n))
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "libbinary: truncated FloatStr payload")
	}
	f, parseErr := strconv.ParseFloat(string(raw), 64)
	if parseErr != nil {
		werr.Panic(werr.CodecError, "libbinary: FloatStr payload is not a valid number")
	}
	return f
}

func (d *decoder) deserializeString(length int) value.Value {
	s, ok := d.r.ReadString(length)
	if !ok {
		werr.Panic(werr.UnexpectedEOF, "libbinary: truncated string")
	}
	if length > 2 {
		d.stringRefs = append(d.stringRefs, s)
	}
	return value.OfText(s)
}

func (d *decoder) deserializeMap(n int) value.Value {
	entries := make([]value.Entry, 0, n)
	for i := 0; i < n; i++ {
		d.enterRecursion()
		key := d.extractValue()
		val := d.extractValue()
		d.exitRecursion()
		entries = append(entries, value.Entry{Key: coerceKey(key), Value: val})
	}

	obj := value.OfObject(entries)
	d.tableRefs = append(d.tableRefs, obj)
	return obj
}

func (d *decoder) deserializeArray(n int) value.Value {
	items := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		d.enterRecursion()
		items = append(items, d.extractValue())
		d.exitRecursion()
	}

	list := value.OfList(items)
	d.tableRefs = append(d.tableRefs, list)
	return list
}

func (d *decoder) deserializeMixed(arrayLen, mapLen int) value.Value {
	entries := make([]value.Entry, 0, arrayLen+mapLen)

	for i := 1; i <= arrayLen; i++ {
		d.enterRecursion()
		v := d.extractValue()
		d.exitRecursion()
		entries = append(entries, value.Entry{Key: coerceKey(value.OfNumber(float64(i))), Value: v})
	}

	for i := 0; i < mapLen; i++ {
		d.enterRecursion()
		key := d.extractValue()
		val := d.extractValue()
		d.exitRecursion()
		entries = append(entries, value.Entry{Key: coerceKey(key), Value: val})
	}

	obj := value.OfObject(entries)
	d.tableRefs = append(d.tableRefs, obj)
	return obj
}

func (d *decoder) resolveStringRef(idx int) value.Value {
	i := idx - 1
	if i < 0 || i >= len(d.stringRefs) {
		werr.Panic(werr.InvalidReference, "libbinary: string reference out of range")
	}
	return value.OfText(d.stringRefs[i])
}

func (d *decoder) resolveTableRef(idx int) value.Value {
	i := idx - 1
	if i < 0 || i >= len(d.tableRefs) {
		werr.Panic(werr.InvalidReference, "libbinary: table reference out of range")
	}
	return d.tableRefs[i]
}

// coerceKey applies the same key-coercion rule the text serializer uses:
// numbers lower to their shortest round-tripping decimal string, bools
// to "true"/"false"; anything else cannot be a key.
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
		werr.Panic(werr.UnsupportedKey, "libbinary: key is not a string, number, or boolean")
		return ""
	}
}
