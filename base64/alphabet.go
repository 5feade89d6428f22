// Package base64 implements the WeakAuras share-string alphabet: 64
// symbols ('a'-'z', 'A'-'Z', '0'-'9', '(', ')'), no padding, framed in
// byte-triplet/symbol-quadruplet groups. base64/byte_map.rs (which would
// hold the Rust ENCODE_LUT/DECODE_LUT tables) is absent from the
// retrieved original_source/ tree, so the alphabet and both lookup
// tables here are derived directly from spec.md §4.1's bit-layout
// formulas instead; base64/encode/scalar.rs and base64/decode/scalar.rs
// (and their SSE counterparts, base64/encode/sse.rs and
// base64/decode/sse.rs, adapted from Muła/Lemire pshufb kernels into a
// portable lane-parallel Go equivalent in vector.go) ground the framing
// and vectorization shape.
package base64

import "github.com/weakauras/wacodec/internal/werr"

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789()"

// encodeLUT maps a 6-bit group to its alphabet symbol.
var encodeLUT [64]byte

// decodeLUT maps an ASCII byte to its 6-bit value, or invalidSymbol if
// the byte is not part of the alphabet.
var decodeLUT [256]byte

const invalidSymbol = 0xFF

func init() {
	for i := 0; i < 64; i++ {
		encodeLUT[i] = alphabet[i]
	}
	for i := range decodeLUT {
		decodeLUT[i] = invalidSymbol
	}
	for i := 0; i < 64; i++ {
		decodeLUT[alphabet[i]] = byte(i)
	}
}

func decodeByte(b byte) byte {
	v := decodeLUT[b]
	if v == invalidSymbol {
		werr.Panic(werr.InvalidBase64, "base64: byte is not in the WeakAuras alphabet")
	}
	return v
}
