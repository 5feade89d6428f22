// Package wacodec implements the WeakAuras share-string codec: three
// stacked transforms (base64 ↔ compression ↔ object serialization)
// described in spec.md. Decode and Encode are the only entry points a
// caller needs; everything else is orchestration over the base64,
// huffman, acetext, and libbinary sub-packages.
package wacodec

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/weakauras/wacodec/acetext"
	"github.com/weakauras/wacodec/base64"
	"github.com/weakauras/wacodec/huffman"
	"github.com/weakauras/wacodec/internal/werr"
	"github.com/weakauras/wacodec/libbinary"
)

// DefaultMaxSize is the ceiling applied when a caller does not specify
// one (§6: "missing" maps to 8 MiB).
const DefaultMaxSize = 8 * 1024 * 1024

// NoLimit disables the decompressed-size ceiling entirely (§6: "+∞"
// maps to no limit).
const NoLimit = -1

// version identifies which of the three stacked formats a share string
// uses, detected from its prefix on decode and chosen by the caller on
// encode.
type version int

const (
	versionHuffman version = iota
	versionDeflate
	versionBinary
)

const (
	binaryPrefix  = "!WA:2!"
	deflatePrefix = "!"
)

// StringVersion selects the encoder's compression/serialization pair,
// per §6's `string_version` parameter.
type StringVersion int

const (
	// VersionDeflate serializes with the legacy AceSerializer text
	// format and compresses with deflate.
	VersionDeflate StringVersion = 1
	// VersionBinarySerialization serializes with the compact
	// LibSerialize binary format and compresses with deflate. This is
	// the default (§3: "On encode, the caller picks Deflate or
	// BinarySerialization (default: the latter)").
	VersionBinarySerialization StringVersion = 2
)

// Decode parses a WeakAuras share string into a Value tree. maxSize
// bounds the decompressed payload size in bytes; pass NoLimit to
// disable the ceiling or DefaultMaxSize for the conventional 8 MiB
// default.
func Decode(data []byte, maxSize int) (v Value, err error) {
	defer werr.Recover(&err)

	s := strings.TrimRight(string(data), " \t\r\n")

	ver, body := detectVersion(s)
	decoded, decErr := base64.Decode(body)
	if decErr != nil {
		panic(asPanic(decErr))
	}

	var raw []byte
	switch ver {
	case versionHuffman:
		var huffErr error
		raw, huffErr = huffman.Decompress(decoded, maxSize)
		if huffErr != nil {
			panic(asPanic(huffErr))
		}
	case versionDeflate, versionBinary:
		raw = inflate(decoded, maxSize)
	}

	if ver == versionBinary {
		inner, decErr := libbinary.Decode(raw)
		if decErr != nil {
			panic(asPanic(decErr))
		}
		return fromInternal(inner), nil
	}

	inner, decErr := acetext.Decode(toUTF8Lossy(raw))
	if decErr != nil {
		panic(asPanic(decErr))
	}
	return fromInternal(inner), nil
}

// Encode serializes v per sv, compresses with deflate at the best
// compression level, and base64-encodes the result with the matching
// version prefix.
func Encode(v Value, sv StringVersion) (out string, err error) {
	defer werr.Recover(&err)

	var serialized []byte
	var prefix string

	switch sv {
	case VersionDeflate:
		text, encErr := acetext.Encode(v.toInternal())
		if encErr != nil {
			panic(asPanic(encErr))
		}
		serialized = []byte(text)
		prefix = deflatePrefix
	case VersionBinarySerialization:
		bin, encErr := libbinary.Encode(v.toInternal())
		if encErr != nil {
			panic(asPanic(encErr))
		}
		serialized = bin
		prefix = binaryPrefix
	default:
		werr.Panic(werr.InvalidHeader, "wacodec: unknown string_version")
	}

	compressed := deflate(serialized)
	encoded, encErr := base64.Encode(compressed)
	if encErr != nil {
		panic(asPanic(encErr))
	}
	return prefix + encoded, nil
}

func detectVersion(s string) (version, string) {
	if rest, ok := cutPrefix(s, binaryPrefix); ok {
		return versionBinary, rest
	}
	if rest, ok := cutPrefix(s, deflatePrefix); ok {
		return versionDeflate, rest
	}
	return versionHuffman, s
}

func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

func asPanic(err error) *werr.Error {
	if e, ok := werr.As(err); ok {
		return e
	}
	return werr.New(werr.CodecError, err.Error())
}

// inflate decompresses body with deflate, bounded by maxSize per
// §4.6: a read-limit of maxSize, then TooLarge if the limit was hit
// and further bytes remain unread.
func inflate(body []byte, maxSize int) []byte {
	r := flate.NewReader(bytes.NewReader(body))
	defer r.Close()

	if maxSize == NoLimit {
		out, err := io.ReadAll(r)
		if err != nil {
			werr.Panic(werr.DecompressionError, "wacodec: deflate stream is malformed")
		}
		return out
	}

	limited := io.LimitReader(r, int64(maxSize))
	out, err := io.ReadAll(limited)
	if err != nil {
		werr.Panic(werr.DecompressionError, "wacodec: deflate stream is malformed")
	}
	if len(out) >= maxSize {
		var probe [1]byte
		n, _ := r.Read(probe[:])
		if n > 0 {
			werr.Panic(werr.TooLarge, "wacodec: decompressed output exceeds max_size")
		}
	}
	return out
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		werr.Panic(werr.DecompressionError, "wacodec: failed to construct deflate writer")
	}
	if _, err := w.Write(data); err != nil {
		werr.Panic(werr.DecompressionError, "wacodec: deflate compression failed")
	}
	if err := w.Close(); err != nil {
		werr.Panic(werr.DecompressionError, "wacodec: deflate compression failed")
	}
	return buf.Bytes()
}

// toUTF8Lossy mirrors §4.6's "treat the bytes as UTF-8 (lossy)" step:
// each run of invalid UTF-8 is replaced with U+FFFD before the text
// deserializer, which does no UTF-8 validation of its own, scans it.
func toUTF8Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
