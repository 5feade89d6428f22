package huffman

import (
	"testing"

	"github.com/weakauras/wacodec/internal/werr"
)

func TestDecompressPassthrough(t *testing.T) {
	in := []byte{1, 'h', 'e', 'l', 'l', 'o'}
	got, err := Decompress(in, MaxSizeUnbounded)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestDecompressPassthroughEmpty(t *testing.T) {
	got, err := Decompress([]byte{1}, MaxSizeUnbounded)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestDecompressUnknownCodec(t *testing.T) {
	_, err := Decompress([]byte{2, 0, 0, 0, 0}, MaxSizeUnbounded)
	assertKind(t, err, werr.UnknownCodec)
}

func TestDecompressEmptyInput(t *testing.T) {
	_, err := Decompress(nil, MaxSizeUnbounded)
	assertKind(t, err, werr.InsufficientData)
}

func TestDecompressShortHeader(t *testing.T) {
	_, err := Decompress([]byte{3, 0, 0, 0}, MaxSizeUnbounded)
	assertKind(t, err, werr.InsufficientData)
}

func TestDecompressZeroOriginalSize(t *testing.T) {
	_, err := Decompress([]byte{3, 0, 0, 0, 0}, MaxSizeUnbounded)
	assertKind(t, err, werr.InsufficientData)
}

func TestDecompressTooLarge(t *testing.T) {
	// num_symbols=1, original_size=1000 (little-endian 3 bytes), then a
	// truncated body: the size check must fire before any symbol bytes
	// are even required.
	in := []byte{3, 0, 0xE8, 0x03, 0x00}
	_, err := Decompress(in, 100)
	assertKind(t, err, werr.TooLarge)
}

func TestDecompressUnexpectedEOFDuringSymbolTable(t *testing.T) {
	// Well-formed header (1 symbol, original_size=1) but the stream ends
	// before the symbol byte is available.
	in := []byte{3, 0, 1, 0, 0}
	_, err := Decompress(in, MaxSizeUnbounded)
	assertKind(t, err, werr.UnexpectedEOF)
}

func assertKind(t *testing.T, err error, want werr.Kind) {
	t.Helper()
	e, ok := werr.As(err)
	if !ok {
		t.Fatalf("got error %v, want *werr.Error with kind %s", err, want)
	}
	if e.Kind != want {
		t.Fatalf("got kind %s, want %s", e.Kind, want)
	}
}
