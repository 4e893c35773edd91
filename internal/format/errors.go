package format

import "errors"

var (
	// ErrStringTooLong indicates a string exceeded the 16-bit length prefix.
	ErrStringTooLong = errors.New("format: string exceeds 65535 encoded bytes")
	// ErrBadString indicates a modified-UTF-8 sequence could not be decoded.
	ErrBadString = errors.New("format: invalid modified-UTF-8 sequence")
)
