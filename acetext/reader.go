// Package acetext implements the AceSerializer rev1 text format: a
// `^`-tagged ASCII stream produced by WeakAuras' older serialization
// library. It is grounded on ace_serialize/deserialization/reader.rs's
// StrReader and ace_serialize/serialization/mod.rs's Serializer.
package acetext

import "github.com/weakauras/wacodec/internal/werr"

// strReader walks an AceSerializer text stream two bytes at a time,
// since every identifier is exactly "^" plus one tag byte. It never
// allocates on the fast path: parseStr only copies into scratch once an
// escape is seen.
type strReader struct {
	buf     string
	pos     int
	scratch []byte
}

func newStrReader(s string) *strReader {
	return &strReader{buf: s}
}

func (r *strReader) peek() (byte, bool) {
	if r.pos < len(r.buf) {
		return r.buf[r.pos], true
	}
	return 0, false
}

func (r *strReader) discard() {
	r.pos++
}

// readIdentifier consumes and returns a two-byte "^x" token. The second
// byte is restricted to 0x00..0x79 so a tag can never straddle a
// multibyte UTF-8 character (string payloads always end before the
// next '^').
func (r *strReader) readIdentifier() string {
	if r.pos+1 >= len(r.buf) {
		werr.Panic(werr.UnexpectedEOF, "acetext: unexpected end of input")
	}
	if r.buf[r.pos] != '^' || r.buf[r.pos+1] > 0x79 {
		werr.Panic(werr.InvalidHeader, "acetext: expected an identifier")
	}
	tok := r.buf[r.pos : r.pos+2]
	r.pos += 2
	return tok
}

// peekIdentifier reports the next token without consuming it, or false
// at end of input or when the stream does not sit on a tag boundary.
func (r *strReader) peekIdentifier() (string, bool) {
	if r.pos+1 >= len(r.buf) {
		return "", false
	}
	if r.buf[r.pos] != '^' || r.buf[r.pos+1] > 0x79 {
		return "", false
	}
	return r.buf[r.pos : r.pos+2], true
}

// readUntilNext returns the raw bytes up to (not including) the next
// '^', used for unescaped payloads like ^N's decimal digits.
func (r *strReader) readUntilNext() string {
	start := r.pos
	for {
		b, ok := r.peek()
		if !ok {
			werr.Panic(werr.UnexpectedEOF, "acetext: unexpected end of input")
		}
		if b == '^' {
			return r.buf[start:r.pos]
		}
		r.discard()
	}
}

// escapeReplacement reverses the string-escape table from §4.3: the
// byte following a '~' maps back to the original control byte it
// stands in for.
func escapeReplacement(v byte) (byte, bool) {
	switch {
	case v >= 0x40 && v <= 0x5D, v >= 0x5F && v <= 0x60:
		return v - 64, true
	case v == 0x7A:
		return 0x1E, true
	case v == 0x7B:
		return 0x7F, true
	case v == 0x7C:
		return 0x7E, true
	case v == 0x7D:
		return 0x5E, true
	default:
		return 0, false
	}
}

// parseStr reads an escaped string payload up to the next '^',
// unescaping '~'-prefixed bytes per escapeReplacement. It only
// allocates scratch once the first escape is encountered.
func (r *strReader) parseStr() string {
	r.scratch = r.scratch[:0]
	copyFrom := r.pos

	for {
		b, ok := r.peek()
		if !ok {
			werr.Panic(werr.UnexpectedEOF, "acetext: unexpected end of input")
		}
		switch b {
		case '^':
			if len(r.scratch) == 0 {
				return r.buf[copyFrom:r.pos]
			}
			r.scratch = append(r.scratch, r.buf[copyFrom:r.pos]...)
			return string(r.scratch)
		case '~':
			r.scratch = append(r.scratch, r.buf[copyFrom:r.pos]...)
			r.discard()
			v, ok := r.peek()
			if !ok {
				werr.Panic(werr.UnexpectedEOF, "acetext: unexpected end of input")
			}
			replacement, ok := escapeReplacement(v)
			if !ok {
				werr.Panic(werr.InvalidEscape, "acetext: invalid escape character")
			}
			r.discard()
			r.scratch = append(r.scratch, replacement)
			copyFrom = r.pos
		default:
			r.discard()
		}
	}
}
