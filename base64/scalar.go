package base64

import "github.com/weakauras/wacodec/internal/werr"

// encodeScalar implements the triplet→quadruplet framing from §4.1,
// grounded on base64/encode/scalar.rs: each 3-byte input chunk maps to
// 4 six-bit groups, looked up through encodeLUT. A 1- or 2-byte
// remainder still emits 2 or 3 symbols respectively.
func encodeScalar(data []byte, out []byte) []byte {
	n := len(data)
	i := 0
	for ; i+3 <= n; i += 3 {
		b0, b1, b2 := data[i], data[i+1], data[i+2]
		out = append(out,
			encodeLUT[b0&0x3F],
			encodeLUT[(b0>>6)|((b1&0x0F)<<2)],
			encodeLUT[(b1>>4)|((b2&0x03)<<4)],
			encodeLUT[b2>>2],
		)
	}

	switch n - i {
	case 1:
		b0 := data[i]
		out = append(out, encodeLUT[b0&0x3F], encodeLUT[b0>>6])
	case 2:
		b0, b1 := data[i], data[i+1]
		out = append(out,
			encodeLUT[b0&0x3F],
			encodeLUT[(b0>>6)|((b1&0x0F)<<2)],
			encodeLUT[b1>>4],
		)
	}
	return out
}

// decodeScalar is the inverse framing, grounded on
// base64/decode/scalar.rs: each 4-symbol chunk maps back to 3 bytes via
// decodeLUT, with a length ≡ 1 (mod 4) already rejected by decodedLen.
func decodeScalar(s []byte, out []byte) []byte {
	n := len(s)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 := decodeByte(s[i])
		s1 := decodeByte(s[i+1])
		s2 := decodeByte(s[i+2])
		s3 := decodeByte(s[i+3])
		out = append(out,
			s0|(s1&0x03)<<6,
			(s1>>2)|(s2&0x0F)<<4,
			(s2>>4)|(s3<<2),
		)
	}

	switch n - i {
	case 2:
		s0 := decodeByte(s[i])
		s1 := decodeByte(s[i+1])
		out = append(out, s0|(s1&0x03)<<6)
	case 3:
		s0 := decodeByte(s[i])
		s1 := decodeByte(s[i+1])
		s2 := decodeByte(s[i+2])
		out = append(out,
			s0|(s1&0x03)<<6,
			(s1>>2)|(s2&0x0F)<<4,
		)
	case 1:
		werr.Panic(werr.InvalidBase64, "base64: input length is invalid (≡ 1 mod 4)")
	}
	return out
}
