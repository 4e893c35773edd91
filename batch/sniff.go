package batch

import (
	"github.com/Jarva/nbtworkbench/internal/format"
	"github.com/Jarva/nbtworkbench/nbt"
)

// Format is the detected on-disk variant of an input file.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatRegion
	FormatGzip
	FormatZlib
	FormatRawNBT
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatRegion:
		return "region"
	case FormatGzip:
		return "gzip"
	case FormatZlib:
		return "zlib"
	case FormatRawNBT:
		return "nbt"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// Sniff classifies file bytes by content alone.
func Sniff(data []byte) Format {
	if looksLikeRegion(data) {
		return FormatRegion
	}
	if len(data) >= 2 && data[0] == format.GzipMagic0 && data[1] == format.GzipMagic1 {
		return FormatGzip
	}
	if len(data) >= 2 && data[0] == format.ZlibMagic {
		return FormatZlib
	}
	if looksLikeRawNBT(data) {
		return FormatRawNBT
	}
	if looksLikeText(data) {
		return FormatText
	}
	return FormatUnknown
}

// looksLikeRegion checks for a plausible region header: the file is a
// non-empty multiple of the sector size with room for the two header
// sectors, and every directory entry either is empty or points at sectors
// inside the file.
func looksLikeRegion(data []byte) bool {
	if len(data) < format.RegionHeaderSize || len(data)%format.SectorSize != 0 {
		return false
	}
	sectors := uint32(len(data) / format.SectorSize)
	for i := 0; i < format.RegionSlots; i++ {
		loc := format.ReadU32(data, i*4)
		offset, count := loc>>8, loc&0xFF
		if offset == 0 && count == 0 {
			continue
		}
		if offset < format.RegionHeaderSectors || count == 0 || offset+count > sectors {
			return false
		}
	}
	return true
}

// looksLikeRawNBT checks for an uncompressed root compound. The kind byte
// 0x0A doubles as '\n', so the root name length and the first child's kind
// byte are validated too before trusting it.
func looksLikeRawNBT(data []byte) bool {
	if len(data) < 4 || nbt.Kind(data[0]) != nbt.KindCompound {
		return false
	}
	nameLen := int(format.ReadU16(data, 1))
	if 3+nameLen >= len(data) {
		return false
	}
	return nbt.Kind(data[3+nameLen]).Valid()
}

// looksLikeText accepts input whose first non-whitespace byte opens a
// container or a quoted string.
func looksLikeText(data []byte) bool {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[', '"', '\'':
			return true
		default:
			return false
		}
	}
	return false
}
