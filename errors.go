package wacodec

import "github.com/weakauras/wacodec/internal/werr"

// Kind tags the flat error taxonomy from spec.md §7. It is a type
// alias for the internal taxonomy shared by every layer of the codec,
// so callers can compare against the same constants every sub-package
// panics with.
type Kind = werr.Kind

const (
	InvalidBase64         = werr.InvalidBase64
	CapacityOverflow      = werr.CapacityOverflow
	UnknownCodec          = werr.UnknownCodec
	InsufficientData      = werr.InsufficientData
	UnsupportedCodeLength = werr.UnsupportedCodeLength
	CodecError            = werr.CodecError
	TooLarge              = werr.TooLarge
	DecompressionError    = werr.DecompressionError
	InvalidHeader         = werr.InvalidHeader
	InvalidTag            = werr.InvalidTag
	InvalidReference      = werr.InvalidReference
	InvalidEscape         = werr.InvalidEscape
	MissingExponent       = werr.MissingExponent
	UnexpectedEOF         = werr.UnexpectedEOF
	UnsupportedKey        = werr.UnsupportedKey
	UnsupportedNaN        = werr.UnsupportedNaN
	RecursionLimit        = werr.RecursionLimit
)

// Error is the single error type returned by every public operation in
// this package.
type Error = werr.Error

// AsError reports whether err is an *Error, returning it if so.
func AsError(err error) (*Error, bool) {
	return werr.As(err)
}
