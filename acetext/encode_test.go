package acetext

import (
	"math"
	"testing"

	"github.com/weakauras/wacodec/internal/value"
	"github.com/weakauras/wacodec/internal/werr"
)

func TestEncodeList(t *testing.T) {
	v := value.OfList([]value.Value{value.OfText("Alpha"), value.OfText("Beta")})
	got, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "^1^T^N1^SAlpha^N2^SBeta^t^^"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeObjectNumericKeyUsesNTag(t *testing.T) {
	v := value.OfObject([]value.Entry{{Key: "1", Value: value.OfNumber(10)}})
	got, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "^1^T^N1^N10^t^^"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeNaNRejected(t *testing.T) {
	_, err := Encode(value.OfNumber(math.NaN()))
	e, ok := werr.As(err)
	if !ok || e.Kind != werr.UnsupportedNaN {
		t.Fatalf("got %v, want UnsupportedNaN", err)
	}
}

func TestEncodePositiveInfinity(t *testing.T) {
	got, err := Encode(value.OfNumber(math.Inf(1)))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "^1^N1.#INF^^"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeNegativeInfinity(t *testing.T) {
	got, err := Encode(value.OfNumber(math.Inf(-1)))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "^1^N-1.#INF^^"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeStringEscape(t *testing.T) {
	got, err := Encode(value.OfText("\x01"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "^1^S~A^^"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeDecodeRoundTripObject(t *testing.T) {
	v := value.OfObject([]value.Entry{
		{Key: "Name", Value: value.OfText("Ace")},
		{Key: "Count", Value: value.OfNumber(7)},
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

func TestEncodeFloatNextAfterOneRoundTrips(t *testing.T) {
	// The shortest decimal repr of the next double after 1.0 parses back
	// to the same double, so it is carried exactly through the ^N form.
	v := math.Nextafter(1.0, 2.0)
	encoded, err := Encode(value.OfNumber(v))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Number() != v {
		t.Fatalf("got %v, want %v (encoded as %q)", decoded.Number(), v, encoded)
	}
}
