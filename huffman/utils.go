package huffman

import (
	"github.com/weakauras/wacodec/internal/bitfield"
	"github.com/weakauras/wacodec/internal/werr"
)

// getCode scans the buffered bits for the lowest position i (0 <= i <=
// Len()-2) where bits i and i+1 are both set, extracts the low i bits as
// the escaped code, and discards i+2 bits. It reports ok=false when no
// terminator is buffered yet (the caller should insert another byte and
// retry).
func getCode(bf *bitfield.Bitfield) (code uint32, codeLen uint8, ok bool) {
	ln := bf.Len()
	if ln < 2 {
		return 0, 0, false
	}

	bits := bf.PeekBits(64)
	for i := uint8(0); i <= ln-2; i++ {
		b1 := bits & (1 << i)
		b2 := bits & (1 << (i + 1))
		if b1 != 0 && b2 != 0 {
			if i > 32 {
				werr.Panic(werr.UnsupportedCodeLength, "huffman: escaped code exceeds 32 bits")
			}
			code = uint32(bf.ExtractBits(i))
			bf.DiscardBits(2)
			return code, i, true
		}
	}
	return 0, 0, false
}

// unescapeCode reverses the encoder's zero-insertion scheme: a set bit
// emits a 1 and skips the following bit, a clear bit emits a 0. The
// result's length is the number of bits emitted, which is always <= the
// escaped length.
func unescapeCode(code uint32, codeLen uint8) (uint32, uint8) {
	var unescaped uint32
	var i, l uint8
	for i < codeLen {
		if code&(1<<i) != 0 {
			unescaped |= 1 << l
			i++
		}
		i++
		l++
	}
	return unescaped, l
}
