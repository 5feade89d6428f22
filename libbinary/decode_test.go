package libbinary

import (
	"testing"

	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

func TestDecode7BitInteger(t *testing.T) {
	// MINOR, then the 7-bit integer opcode for 1: 0000 0011.
	v, err := Decode([]byte{Minor, 0x03})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Kind() != value.Number || v.Number() != 1 {
		t.Fatalf("got %v, want Number(1)", v)
	}
}

func TestDecodeEmbeddedArray(t *testing.T) {
	// Embedded Array, length 3: (Array=2)<<2 | (3)<<4 | 2 = 0x3A, then
	// three 7-bit integers 1, 2, 3.
	in := []byte{Minor, 0x3A, 0x03, 0x05, 0x07}
	v, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Kind() != value.List {
		t.Fatalf("got kind %v, want List", v.Kind())
	}
	items := v.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, want := range []float64{1, 2, 3} {
		if items[i].Kind() != value.Number || items[i].Number() != want {
			t.Fatalf("item %d: got %v, want Number(%v)", i, items[i], want)
		}
	}
}

func TestDecodeStringReference(t *testing.T) {
	// Embedded Str("abc") = (Str=0)<<2 | (3)<<4 | 2 = 0x32, then "abc";
	// a second occurrence is StrRef8 pointing at index 1. Both strings
	// are wrapped in a 2-element embedded array.
	in := []byte{
		Minor,
		(2 << 2) | (2 << 4) | 2, // embedded Array, length 2
		(0 << 2) | (3 << 4) | 2, 'a', 'b', 'c', // embedded Str "abc"
		byte(TagStrRef8) << typeTagShift, 1, // StrRef8(1)
	}
	v, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	items := v.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Text() != "abc" || items[1].Text() != "abc" {
		t.Fatalf("got %v, want both elements \"abc\"", items)
	}
}

func TestDecodeInvalidStringReference(t *testing.T) {
	in := []byte{Minor, byte(TagStrRef8) << typeTagShift, 1}
	_, err := Decode(in)
	e, ok := werr.As(err)
	if !ok || e.Kind != werr.InvalidReference {
		t.Fatalf("got %v, want InvalidReference", err)
	}
}

func TestDecodeMissingMinor(t *testing.T) {
	_, err := Decode([]byte{0x02, 0x03})
	e, ok := werr.As(err)
	if !ok || e.Kind != werr.InvalidHeader {
		t.Fatalf("got %v, want InvalidHeader", err)
	}
}

func TestDecodeMixedContainer(t *testing.T) {
	// Embedded Mixed, array_len=1, map_len=1: packed = ((1-1)<<2)|(1-1) = 0.
	in := []byte{
		Minor,
		(3 << 2) | (0 << 4) | 2, // EmbeddedMixed tag, packed count 0
		0x03,                    // array[1] = 1 (7-bit int)
		(0 << 2) | (4 << 4) | 2, 'N', 'a', 'm', 'e', // key "Name"
		(0 << 2) | (3 << 4) | 2, 'A', 'c', 'e', // value "Ace"
	}
	v, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Kind() != value.Object {
		t.Fatalf("got kind %v, want Object", v.Kind())
	}
	first, ok := v.Get("1")
	if !ok || first.Number() != 1 {
		t.Fatalf("entries: %v, want key \"1\" = 1", v.Entries())
	}
	name, ok := v.Get("Name")
	if !ok || name.Text() != "Ace" {
		t.Fatalf("entries: %v, want key \"Name\" = \"Ace\"", v.Entries())
	}
}

func TestDecodeRecursionLimit(t *testing.T) {
	// 129 nested single-element embedded arrays, innermost holding 0.
	var in []byte
	in = append(in, Minor)
	for i := 0; i < 129; i++ {
		in = append(in, (2<<2)|(1<<4)|2) // embedded Array, length 1
	}
	in = append(in, 0x01) // 7-bit int 0

	_, err := Decode(in)
	e, ok := werr.As(err)
	if !ok || e.Kind != werr.RecursionLimit {
		t.Fatalf("got %v, want RecursionLimit", err)
	}
}

func TestDecode12BitInteger(t *testing.T) {
	// value = 200, packed = (200<<4)|4 = 3204 = 0x0C84; low byte first.
	packed := uint16(200<<4) | 4
	in := []byte{Minor, byte(packed), byte(packed >> 8)}
	v, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Number() != 200 {
		t.Fatalf("got %v, want 200", v.Number())
	}
}

func TestDecode12BitIntegerNegative(t *testing.T) {
	packed := uint16(200<<4) | (1 << typeTagShift) | 4
	in := []byte{Minor, byte(packed), byte(packed >> 8)}
	v, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Number() != -200 {
		t.Fatalf("got %v, want -200", v.Number())
	}
}
