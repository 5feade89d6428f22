package libbinary

import (
	"bytes"
	"math"
	"testing"

	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

func TestEncodeList123(t *testing.T) {
	v := value.OfList([]value.Value{
		value.OfNumber(1),
		value.OfNumber(2),
		value.OfNumber(3),
	})
	got, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{Minor, (2 << 2) | (3 << 4) | 2, 0x03, 0x05, 0x07}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestEncodeStringBackReference(t *testing.T) {
	v := value.OfList([]value.Value{value.OfText("abc"), value.OfText("abc")})
	got, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		Minor,
		(2 << 2) | (2 << 4) | 2, // embedded array, length 2
		(0 << 2) | (3 << 4) | 2, 'a', 'b', 'c', // embedded str "abc"
		byte(TagStrRef8) << typeTagShift, 1, // StrRef8(1)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestEncodeNaNRejected(t *testing.T) {
	_, err := Encode(value.OfNumber(math.NaN()))
	e, ok := werr.As(err)
	if !ok || e.Kind != werr.UnsupportedNaN {
		t.Fatalf("got %v, want UnsupportedNaN", err)
	}
}

func TestEncodeZeroUses7BitForm(t *testing.T) {
	got, err := Encode(value.OfNumber(0))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{Minor, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x (canonical >= 0 boundary keeps 0 in the 7-bit form)", got, want)
	}
}

func TestEncodeDecodeRoundTripObject(t *testing.T) {
	obj := value.OfObject([]value.Entry{
		{Key: "Name", Value: value.OfText("Ace")},
		{Key: "Count", Value: value.OfNumber(7)},
	})
	encoded, err := Encode(obj)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !value.Equal(obj, decoded) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, obj)
	}
}

func TestEncodeRecursionLimit(t *testing.T) {
	v := value.OfNumber(0)
	for i := 0; i < 129; i++ {
		v = value.OfList([]value.Value{v})
	}
	_, err := Encode(v)
	e, ok := werr.As(err)
	if !ok || e.Kind != werr.RecursionLimit {
		t.Fatalf("got %v, want RecursionLimit", err)
	}
}

func TestEncodeMixedContainer(t *testing.T) {
	v := value.OfObject([]value.Entry{
		{Key: "1", Value: value.OfNumber(10)},
		{Key: "Name", Value: value.OfText("Ace")},
	})
	encoded, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !value.Equal(v, decoded) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, v)
	}
}
