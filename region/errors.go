package region

import "errors"

var (
	// ErrTruncated indicates a file shorter than the two reserved header sectors.
	ErrTruncated = errors.New("region: file shorter than two header sectors")

	// ErrCorruptChunk indicates a present chunk that cannot be read: a
	// length/scheme mismatch, sectors outside the file, or a failed
	// decompression or decode. A corrupt chunk is never reported as absent.
	ErrCorruptChunk = errors.New("region: corrupt chunk")

	// ErrChunkTooLarge indicates a chunk whose compressed payload needs more
	// than 255 sectors, the most a directory entry can describe.
	ErrChunkTooLarge = errors.New("region: chunk exceeds 255 sectors")

	// ErrBadCoords indicates chunk coordinates outside the 32x32 grid.
	ErrBadCoords = errors.New("region: chunk coordinates out of range")
)
