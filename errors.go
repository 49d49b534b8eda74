package isobmff

import (
	"errors"
	"fmt"
	"io"
)

// Error taxonomy, per the parser's failure semantics: BadArg is caller
// misuse, InvalidData is malformed input, Unsupported is well-formed but
// not implemented, UnexpectedEOF is a short read where more was required,
// IO is a host callback failure, OOM is a bounded-allocation failure, and
// NoMoov is a clean stream end without ever seeing a moov box.
var (
	ErrBadArg        = errors.New("isobmff: bad argument")
	ErrInvalidData   = errors.New("isobmff: invalid data")
	ErrUnsupported   = errors.New("isobmff: unsupported")
	ErrUnexpectedEOF = io.ErrUnexpectedEOF
	ErrIO            = errors.New("isobmff: io error")
	ErrOOM           = errors.New("isobmff: out of memory")
	ErrNoMoov        = errors.New("isobmff: no moov box")
)

// Invalidf wraps ErrInvalidData with a formatted message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}

// Unsupportedf wraps ErrUnsupported with a formatted message.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

// IOf wraps ErrIO with a formatted message.
func IOf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIO, fmt.Sprintf(format, args...))
}
