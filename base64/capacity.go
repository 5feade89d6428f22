package base64

import "github.com/weakauras/wacodec/internal/werr"

// decodedLen mirrors base64/decode/mod.rs's calculate_capacity: a
// length ≡ 1 (mod 4) can never have been produced by the encoder.
func decodedLen(n int) int {
	if n%4 == 1 {
		werr.Panic(werr.InvalidBase64, "base64: input length is invalid (≡ 1 mod 4)")
	}
	product, overflow := mulOverflows(n/4, 3)
	if overflow {
		werr.Panic(werr.CapacityOverflow, "base64: decoded length overflows")
	}
	return product + maxInt(0, n%4-1)
}

// encodedLen mirrors base64/encode/mod.rs's calculate_capacity.
func encodedLen(n int) int {
	leftover := n % 3
	product, overflow := mulOverflows(n/3, 4)
	if overflow {
		werr.Panic(werr.CapacityOverflow, "base64: encoded length overflows")
	}
	if leftover == 0 {
		return product
	}
	sum, overflow := addOverflows(product, leftover+1)
	if overflow {
		werr.Panic(werr.CapacityOverflow, "base64: encoded length overflows")
	}
	return sum
}

func mulOverflows(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	r := a * b
	return r, r/b != a
}

func addOverflows(a, b int) (int, bool) {
	r := a + b
	return r, r < a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
