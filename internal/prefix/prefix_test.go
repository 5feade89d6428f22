package prefix

import "testing"

// A complete 3-bit tree: symbols a/b/c/d have codes that between them
// cover every 3-bit pattern exactly once (lengths 1,2,3,3; sum of
// 2^-Len == 1), matching how huffman.Decompress hands Build a canonical,
// non-overlapping code set sorted by (Len, Code).
func smallTree() []Code {
	return []Code{
		{Code: 0, Len: 1, Symbol: 'a'},
		{Code: 1, Len: 2, Symbol: 'b'},
		{Code: 3, Len: 3, Symbol: 'c'},
		{Code: 7, Len: 3, Symbol: 'd'},
	}
}

func TestBuildAndAtSingleLevel(t *testing.T) {
	table, err := Build(smallTree())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		byteOfBits byte
		wantLen    uint8
		wantSymbol byte
	}{
		{0x00, 1, 'a'}, // bit0 = 0
		{0xF8, 1, 'a'}, // bit0 = 0; high bits must not matter
		{0x01, 2, 'b'}, // bits0-1 = 1,0
		{0xFD, 2, 'b'}, // same low bits, high bits vary
		{0x03, 3, 'c'}, // bits0-2 = 1,1,0
		{0x07, 3, 'd'}, // bits0-2 = 1,1,1
	}
	for _, tc := range tests {
		gotLen, gotSymbol, next := table.At(tc.byteOfBits)
		if next != nil {
			t.Fatalf("At(%#02x): got a chained table, want a terminal entry", tc.byteOfBits)
		}
		if gotLen != tc.wantLen || gotSymbol != tc.wantSymbol {
			t.Fatalf("At(%#02x) = (%d, %q), want (%d, %q)", tc.byteOfBits, gotLen, gotSymbol, tc.wantLen, tc.wantSymbol)
		}
	}
}

// A code longer than 8 bits forces Build to chain through a second Table,
// exercising the same lookup path huffman.Decompress's inner loop does
// (cur.DiscardBits(curLen) then curNext.At(cur.PeekByte())).
func TestBuildAndAtChained(t *testing.T) {
	codes := []Code{
		{Code: 0, Len: 2, Symbol: 'p'},  // low 2 bits == 00
		{Code: 1, Len: 10, Symbol: 'q'}, // low 2 bits == 01, never collides with 'p'
	}
	table, err := Build(codes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	gotLen, gotSymbol, next := table.At(0)
	if gotLen != 2 || gotSymbol != 'p' || next != nil {
		t.Fatalf("At(0x00) = (%d, %q, chained=%v), want (2, 'p', false)", gotLen, gotSymbol, next != nil)
	}

	gotLen, _, next = table.At(1)
	if gotLen != 8 || next == nil {
		t.Fatalf("At(0x01) = (%d, chained=%v), want (8, chained=true)", gotLen, next != nil)
	}

	gotLen, gotSymbol, next = next.At(0)
	if gotLen != 2 || gotSymbol != 'q' || next != nil {
		t.Fatalf("second-level At(0x00) = (%d, %q, chained=%v), want (2, 'q', false)", gotLen, gotSymbol, next != nil)
	}
}

// A short code that is itself a bit-prefix of a longer code's first byte
// is exactly the kind of malformed table huffman.Decompress reports as
// CodecError.
func TestBuildCollision(t *testing.T) {
	codes := []Code{
		{Code: 0, Len: 2, Symbol: 'x'},
		{Code: 0, Len: 10, Symbol: 'y'},
	}
	_, err := Build(codes)
	if err == nil {
		t.Fatal("Build: got nil error, want a collision error")
	}
	if !IsCollision(err) {
		t.Fatalf("IsCollision(%v) = false, want true", err)
	}
}
