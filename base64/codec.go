package base64

import "github.com/weakauras/wacodec/internal/werr"

// Encode converts data to the WeakAuras base64 alphabet, dispatching
// to the vectorized path when the running CPU supports it. The only
// failure mode is CapacityOverflow, when the output length math would
// overflow a machine word.
func Encode(data []byte) (out string, err error) {
	defer werr.Recover(&err)

	buf := make([]byte, 0, encodedLen(len(data)))
	if hasVectorSupport {
		buf = encodeVector(data, buf)
	} else {
		buf = encodeScalar(data, buf)
	}
	return string(buf), nil
}

// Decode converts s, a WeakAuras base64 string, back to raw bytes.
// Any byte outside the alphabet, or a length ≡ 1 (mod 4), fails with
// InvalidBase64.
func Decode(s string) (out []byte, err error) {
	defer werr.Recover(&err)

	in := []byte(s)
	buf := make([]byte, 0, decodedLen(len(in)))
	if hasVectorSupport {
		buf = decodeVector(in, buf)
	} else {
		buf = decodeScalar(in, buf)
	}
	return buf, nil
}
