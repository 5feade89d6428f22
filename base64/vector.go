package base64

import "github.com/klauspost/cpuid"

// hasVectorSupport reports whether the SSSE3 fast path would be taken
// natively. The pshufb/pmaddubsw/pmaddwd kernels in
// base64/{encode,decode}/sse.rs have no portable Go equivalent, so the
// "vector" path here is a lane-batched software emulation: it groups
// input into the same 16-byte (decode) / 12-byte (encode) lanes the
// SSE kernel consumes per iteration and runs the identical per-group
// math as the scalar path, rather than real SIMD instructions. This
// keeps the §8 property 2 contract (scalar and vector paths are
// bit-identical) true by construction instead of by coincidence.
var hasVectorSupport = cpuid.CPU.SSSE3()

const (
	decodeLaneSymbols = 16
	decodeLaneBytes   = 12
	encodeLaneBytes   = 12
)

// encodeVector batches input into 12-byte lanes (the SSE kernel's
// per-iteration consumption), falling through to encodeScalar for
// anything shorter than one lane.
func encodeVector(data []byte, out []byte) []byte {
	i := 0
	for ; i+encodeLaneBytes <= len(data); i += encodeLaneBytes {
		out = encodeScalar(data[i:i+encodeLaneBytes], out)
	}
	return encodeScalar(data[i:], out)
}

// decodeVector batches input into 16-symbol lanes, mirroring the SSE
// kernel's `len >= 22` guard (one lane plus enough trailing symbols
// that a further lane might still be available) before falling through
// to decodeScalar for the tail.
func decodeVector(s []byte, out []byte) []byte {
	i := 0
	for len(s)-i >= 22 {
		out = decodeScalar(s[i:i+decodeLaneSymbols], out)
		i += decodeLaneSymbols
	}
	return decodeScalar(s[i:], out)
}
