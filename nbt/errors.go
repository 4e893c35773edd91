package nbt

import "errors"

var (
	// ErrMalformed indicates bytes that do not form a valid tag: an
	// unrecognized kind byte, a length running past the buffer, or a list
	// element disagreeing with the declared element kind.
	ErrMalformed = errors.New("nbt: malformed tag data")

	// ErrKindMismatch indicates an element whose kind disagrees with its
	// typed List parent.
	ErrKindMismatch = errors.New("nbt: list element kind mismatch")

	// ErrKeyCollision indicates an insert or rename that would duplicate a
	// compound key.
	ErrKeyCollision = errors.New("nbt: duplicate compound key")

	// ErrIndexOutOfRange indicates a child index outside the container.
	ErrIndexOutOfRange = errors.New("nbt: index out of range")

	// ErrUnknownCompression indicates an unrecognized compression scheme.
	ErrUnknownCompression = errors.New("nbt: unknown compression scheme")
)
