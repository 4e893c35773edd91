package region

import (
	"fmt"
	"time"

	"github.com/Jarva/nbtworkbench/internal/format"
	"github.com/Jarva/nbtworkbench/nbt"
)

// entry is one decoded directory slot: a 3-byte sector offset, a 1-byte
// sector count, and the slot's 4-byte modification timestamp.
type entry struct {
	offset uint32
	count  uint32
	stamp  uint32
}

func (e entry) present() bool {
	return e.offset >= format.RegionHeaderSectors && e.count > 0
}

// Chunk is one decoded chunk slot together with the storage metadata needed
// to write it back the way it was found.
type Chunk struct {
	X, Z      int
	Root      *nbt.Tag
	Scheme    nbt.Compression
	Timestamp uint32
}

// Region is an opened region file image. All mutation happens on the
// in-memory image; callers persist via Bytes. A Region is not safe for
// concurrent use.
type Region struct {
	data    []byte
	entries [format.RegionSlots]entry
	free    freeList
}

// New returns an empty region: two zeroed header sectors, no chunks.
func New() *Region {
	return &Region{data: make([]byte, format.RegionHeaderSize)}
}

// Open parses a region file image. It fails with ErrTruncated when the image
// cannot hold the two header sectors; individual unreadable chunks surface
// later as ErrCorruptChunk from ReadChunk, never as absent.
func Open(data []byte) (*Region, error) {
	if len(data) < format.RegionHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	// Work on a sector-aligned copy so in-place writes can assume whole
	// sectors exist.
	size := (len(data) + format.SectorSize - 1) / format.SectorSize * format.SectorSize
	img := make([]byte, size)
	copy(img, data)

	r := &Region{data: img}
	total := uint32(size / format.SectorSize)
	used := make([]bool, total)
	used[0], used[1] = true, true

	for i := 0; i < format.RegionSlots; i++ {
		loc := format.ReadU32(img, i*4)
		e := entry{
			offset: loc >> 8,
			count:  loc & 0xFF,
			stamp:  format.ReadU32(img, format.SectorSize+i*4),
		}
		if !e.present() {
			continue
		}
		r.entries[i] = e
		for s := e.offset; s < e.offset+e.count && s < total; s++ {
			used[s] = true
		}
	}

	// Everything not claimed by a directory entry is reusable.
	for s := uint32(format.RegionHeaderSectors); s < total; {
		if used[s] {
			s++
			continue
		}
		start := s
		for s < total && !used[s] {
			s++
		}
		r.free.free(start, s-start)
	}
	return r, nil
}

// Bytes returns the current file image. The slice aliases the region's
// internal buffer and is invalidated by the next write.
func (r *Region) Bytes() []byte { return r.data }

// Sectors returns the image size in sectors, headers included.
func (r *Region) Sectors() int { return len(r.data) / format.SectorSize }

// Count returns the number of present chunk slots.
func (r *Region) Count() int {
	n := 0
	for i := range r.entries {
		if r.entries[i].present() {
			n++
		}
	}
	return n
}

// Has reports whether the slot at (x, z) holds a chunk.
func (r *Region) Has(x, z int) bool {
	if !validCoords(x, z) {
		return false
	}
	return r.entries[slot(x, z)].present()
}

// Timestamp returns the slot's last-modified timestamp (seconds since epoch),
// or 0 for absent slots.
func (r *Region) Timestamp(x, z int) uint32 {
	if !validCoords(x, z) {
		return 0
	}
	return r.entries[slot(x, z)].stamp
}

func validCoords(x, z int) bool {
	return x >= 0 && x < format.RegionAxis && z >= 0 && z < format.RegionAxis
}

func slot(x, z int) int { return x + z*format.RegionAxis }

// schemeFromByte maps a chunk compression-scheme byte to a container scheme.
func schemeFromByte(b byte) (nbt.Compression, bool) {
	switch b {
	case 1:
		return nbt.CompressionGzip, true
	case 2:
		return nbt.CompressionZlib, true
	case 3:
		return nbt.CompressionNone, true
	case 4:
		return nbt.CompressionLZ4, true
	default:
		return 0, false
	}
}

func schemeByte(c nbt.Compression) (byte, bool) {
	switch c {
	case nbt.CompressionGzip:
		return 1, true
	case nbt.CompressionZlib:
		return 2, true
	case nbt.CompressionNone:
		return 3, true
	case nbt.CompressionLZ4:
		return 4, true
	default:
		return 0, false
	}
}

// ReadChunk decodes the chunk at (x, z). Absent slots return (nil, nil);
// present slots that cannot be decoded fail with ErrCorruptChunk.
func (r *Region) ReadChunk(x, z int) (*Chunk, error) {
	if !validCoords(x, z) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrBadCoords, x, z)
	}
	e := r.entries[slot(x, z)]
	if !e.present() {
		return nil, nil
	}
	if int(e.offset+e.count) > r.Sectors() {
		return nil, fmt.Errorf("%w: (%d, %d) sectors %d+%d beyond file end %d",
			ErrCorruptChunk, x, z, e.offset, e.count, r.Sectors())
	}
	off := int(e.offset) * format.SectorSize
	length := format.ReadU32(r.data, off)
	if length == 0 || int(length)+4 > int(e.count)*format.SectorSize {
		return nil, fmt.Errorf("%w: (%d, %d) payload length %d does not fit %d allocated sectors",
			ErrCorruptChunk, x, z, length, e.count)
	}
	scheme, ok := schemeFromByte(r.data[off+4])
	if !ok {
		return nil, fmt.Errorf("%w: (%d, %d) unknown compression scheme %d",
			ErrCorruptChunk, x, z, r.data[off+4])
	}
	compressed := r.data[off+format.ChunkHeaderSize : off+4+int(length)]
	raw, err := scheme.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: (%d, %d) %s: %v", ErrCorruptChunk, x, z, scheme, err)
	}
	root, _, err := nbt.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: (%d, %d): %v", ErrCorruptChunk, x, z, err)
	}
	return &Chunk{X: x, Z: z, Root: root, Scheme: scheme, Timestamp: e.stamp}, nil
}

// WriteChunk re-encodes and stores a chunk at (x, z) with the given scheme,
// stamping it with the current time. The rewrite stays in place when the new
// payload fits the slot's allocated run; otherwise the chunk moves to the
// first free run that fits, or to fresh sectors appended to the file, and
// the old run is returned to the free list. The directory never references
// overlapping sectors at any point.
func (r *Region) WriteChunk(x, z int, root *nbt.Tag, scheme nbt.Compression) error {
	return r.writeChunk(x, z, root, scheme, uint32(time.Now().Unix()))
}

// PutChunk stores c at its own coordinates, preserving its scheme and
// timestamp (a zero timestamp means now). Used by save paths that must
// round-trip chunks exactly as read.
func (r *Region) PutChunk(c *Chunk) error {
	ts := c.Timestamp
	if ts == 0 {
		ts = uint32(time.Now().Unix())
	}
	return r.writeChunk(c.X, c.Z, c.Root, c.Scheme, ts)
}

func (r *Region) writeChunk(x, z int, root *nbt.Tag, scheme nbt.Compression, stamp uint32) error {
	if !validCoords(x, z) {
		return fmt.Errorf("%w: (%d, %d)", ErrBadCoords, x, z)
	}
	raw, err := nbt.Encode(root, "")
	if err != nil {
		return err
	}
	compressed, err := scheme.Compress(raw)
	if err != nil {
		return err
	}
	sb, ok := schemeByte(scheme)
	if !ok {
		return fmt.Errorf("%w: %s", nbt.ErrUnknownCompression, scheme)
	}

	payloadLen := format.ChunkHeaderSize + len(compressed)
	needed := uint32((payloadLen + format.SectorSize - 1) / format.SectorSize)
	if needed > format.MaxChunkSectors {
		return fmt.Errorf("%w: (%d, %d) needs %d sectors", ErrChunkTooLarge, x, z, needed)
	}

	i := slot(x, z)
	old := r.entries[i]

	start := old.offset
	count := old.count
	if !old.present() || needed > old.count {
		// Relocate: first-fit gap, then append. The old run is freed only
		// after the directory points at the new one.
		var found bool
		if start, found = r.free.alloc(needed); !found {
			// No gap fits. Extend the file, absorbing a free run that ends at
			// the file boundary so the tail is not wasted.
			end := uint32(r.Sectors())
			start = end
			extend := needed
			if s, ok := r.free.dropTrailing(end); ok {
				start = s
				extend = needed - (end - s)
			}
			r.data = append(r.data, make([]byte, int(extend)*format.SectorSize)...)
		}
		count = needed
	}

	off := int(start) * format.SectorSize
	format.PutU32(r.data, off, uint32(len(compressed)+1))
	r.data[off+4] = sb
	copy(r.data[off+format.ChunkHeaderSize:], compressed)
	// Zero the remainder of the written sectors for deterministic output.
	for j := off + payloadLen; j < off+int(needed)*format.SectorSize; j++ {
		r.data[j] = 0
	}

	r.entries[i] = entry{offset: start, count: count, stamp: stamp}
	format.PutU32(r.data, i*4, start<<8|count)
	format.PutU32(r.data, format.SectorSize+i*4, stamp)

	if old.present() && start != old.offset {
		r.free.free(old.offset, old.count)
	}
	return nil
}

// DeleteChunk zeroes the slot's directory entry and returns its sectors to
// the free list. Deleting an absent slot is a no-op.
func (r *Region) DeleteChunk(x, z int) error {
	if !validCoords(x, z) {
		return fmt.Errorf("%w: (%d, %d)", ErrBadCoords, x, z)
	}
	i := slot(x, z)
	e := r.entries[i]
	if !e.present() {
		return nil
	}
	r.entries[i] = entry{}
	format.PutU32(r.data, i*4, 0)
	format.PutU32(r.data, format.SectorSize+i*4, 0)
	r.free.free(e.offset, e.count)
	return nil
}

// Compact rewrites the image densely: present chunks keep their bytes and
// slot order but move to consecutive sectors, and all free space is dropped.
// Meant for explicit save-as/rewrite paths only.
func (r *Region) Compact() {
	type piece struct {
		slot  int
		bytes []byte
		count uint32
	}
	var pieces []piece
	total := 0
	for i := range r.entries {
		e := r.entries[i]
		if !e.present() || int(e.offset+e.count) > r.Sectors() {
			continue
		}
		run := r.data[int(e.offset)*format.SectorSize : int(e.offset+e.count)*format.SectorSize]
		pieces = append(pieces, piece{slot: i, bytes: run, count: e.count})
		total += len(run)
	}

	img := make([]byte, format.RegionHeaderSize+total)
	var entries [format.RegionSlots]entry
	next := uint32(format.RegionHeaderSectors)
	for _, p := range pieces {
		copy(img[int(next)*format.SectorSize:], p.bytes)
		entries[p.slot] = entry{offset: next, count: p.count, stamp: r.entries[p.slot].stamp}
		format.PutU32(img, p.slot*4, next<<8|p.count)
		format.PutU32(img, format.SectorSize+p.slot*4, r.entries[p.slot].stamp)
		next += p.count
	}

	r.data = img
	r.entries = entries
	r.free = freeList{}
}
