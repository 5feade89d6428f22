// Package werr defines the flat, string-tagged error taxonomy shared by
// every layer of the codec (base64, huffman, acetext, libbinary, and the
// pipeline orchestrator), plus the panic/recover idiom used to produce it.
//
// The teacher's packages (flate, brotli, bzip2) each define their own
// `type Error string` and an errRecover helper that turns an internal
// panic into a returned error at the package boundary. Here that pattern
// is shared across packages instead of duplicated per package, since
// spec.md calls for one taxonomy rather than one per serializer.
package werr

import (
	"errors"
	"runtime"
)

// Kind tags the error taxonomy from spec.md §7.
type Kind string

const (
	InvalidBase64         Kind = "InvalidBase64"
	CapacityOverflow      Kind = "CapacityOverflow"
	UnknownCodec          Kind = "UnknownCodec"
	InsufficientData      Kind = "InsufficientData"
	UnsupportedCodeLength Kind = "UnsupportedCodeLength"
	CodecError            Kind = "CodecError"
	TooLarge              Kind = "TooLarge"
	DecompressionError    Kind = "DecompressionError"
	InvalidHeader         Kind = "InvalidHeader"
	InvalidTag            Kind = "InvalidTag"
	InvalidReference      Kind = "InvalidReference"
	InvalidEscape         Kind = "InvalidEscape"
	MissingExponent       Kind = "MissingExponent"
	UnexpectedEOF         Kind = "UnexpectedEOF"
	UnsupportedKey        Kind = "UnsupportedKey"
	UnsupportedNaN        Kind = "UnsupportedNaN"
	RecursionLimit        Kind = "RecursionLimit"
)

// Error is the single error type produced anywhere in the codec.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "wacodec: " + string(e.Kind)
	}
	return "wacodec: " + string(e.Kind) + ": " + e.Msg
}

// New constructs an *Error, the value every package panics with.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Panic raises kind as a panic, to be caught by Recover at the package's
// public boundary.
func Panic(kind Kind, msg string) {
	panic(New(kind, msg))
}

// Recover turns a panic raised via Panic (or any *Error panic) into a
// returned error. Any other panic value is re-raised: a runtime.Error
// signals a real bug and must not be silently swallowed.
func Recover(err *error) {
	switch v := recover().(type) {
	case nil:
		return
	case *Error:
		*err = v
	case runtime.Error:
		panic(v)
	default:
		panic(v)
	}
}

// As reports whether err (or something it wraps) is a *Error, and returns
// it if so.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
