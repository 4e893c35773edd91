package format

const (
	// SectorSize is the allocation unit of a region file. The location and
	// timestamp tables occupy exactly one sector each.
	SectorSize = 4096

	// RegionHeaderSectors is the number of reserved sectors at the start of a
	// region file (location table + timestamp table).
	RegionHeaderSectors = 2

	// RegionHeaderSize is the byte size of the two reserved header sectors.
	RegionHeaderSize = RegionHeaderSectors * SectorSize

	// RegionSlots is the number of chunk slots in a region file directory.
	RegionSlots = 1024

	// RegionAxis is the number of chunks along one side of a region
	// (RegionAxis * RegionAxis == RegionSlots).
	RegionAxis = 32

	// ChunkHeaderSize is the per-chunk payload header: a 4-byte big-endian
	// byte length followed by a 1-byte compression scheme.
	ChunkHeaderSize = 5

	// MaxChunkSectors is the largest sector count representable in a
	// directory entry's single count byte.
	MaxChunkSectors = 255

	// MaxStringLen is the largest encodable tag string: the string length
	// prefix is an unsigned 16-bit count of modified-UTF-8 bytes.
	MaxStringLen = 0xFFFF

	// GzipMagic0 and GzipMagic1 are the two gzip stream magic bytes.
	GzipMagic0 = 0x1F
	GzipMagic1 = 0x8B

	// ZlibMagic is the first byte of a zlib stream (deflate, 32K window).
	ZlibMagic = 0x78
)
