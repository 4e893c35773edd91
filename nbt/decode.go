package nbt

import (
	"fmt"

	"github.com/Jarva/nbtworkbench/internal/format"
)

// maxDepth bounds tag nesting during decode so a malicious length chain
// cannot blow the goroutine stack.
const maxDepth = 512

// Decode parses an uncompressed NBT payload: one named root tag. It returns
// the root tag and its name, failing with ErrMalformed when a kind byte is
// unrecognized, a length field runs past the buffer end, a list element
// disagrees with the declared element kind, or bytes remain after the root.
func Decode(data []byte) (*Tag, string, error) {
	d := &decoder{b: data}
	kind, err := d.u8()
	if err != nil {
		return nil, "", err
	}
	k := Kind(kind)
	if k == KindEnd || !k.Valid() {
		return nil, "", fmt.Errorf("invalid root kind byte 0x%02x: %w", kind, ErrMalformed)
	}
	name, err := d.str()
	if err != nil {
		return nil, "", err
	}
	root, err := d.tag(k, 0)
	if err != nil {
		return nil, "", err
	}
	if d.off != len(d.b) {
		return nil, "", fmt.Errorf("%d trailing bytes after root tag: %w", len(d.b)-d.off, ErrMalformed)
	}
	return root, name, nil
}

type decoder struct {
	b   []byte
	off int
}

func (d *decoder) need(n int) error {
	if n < 0 || d.off+n > len(d.b) {
		return fmt.Errorf("need %d bytes at offset %d of %d: %w", n, d.off, len(d.b), ErrMalformed)
	}
	return nil
}

func (d *decoder) u8() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.b[d.off]
	d.off++
	return v, nil
}

func (d *decoder) u16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := format.ReadU16(d.b, d.off)
	d.off += 2
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := format.ReadU32(d.b, d.off)
	d.off += 4
	return v, nil
}

func (d *decoder) u64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := format.ReadU64(d.b, d.off)
	d.off += 8
	return v, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	if err := d.need(int(n)); err != nil {
		return "", err
	}
	s, err := format.DecodeMUTF8(d.b[d.off : d.off+int(n)])
	if err != nil {
		return "", fmt.Errorf("string at offset %d: %w: %w", d.off, err, ErrMalformed)
	}
	d.off += int(n)
	return s, nil
}

// count reads a 32-bit element count and sanity-checks it against the bytes
// remaining, assuming each element needs at least elemSize bytes.
func (d *decoder) count(elemSize int) (int, error) {
	n, err := d.u32()
	if err != nil {
		return 0, err
	}
	c := int(int32(n))
	if c < 0 || elemSize > 0 && c > (len(d.b)-d.off)/elemSize {
		return 0, fmt.Errorf("count %d exceeds remaining buffer at offset %d: %w", c, d.off, ErrMalformed)
	}
	return c, nil
}

func (d *decoder) tag(k Kind, depth int) (*Tag, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting deeper than %d: %w", maxDepth, ErrMalformed)
	}
	switch k {
	case KindByte:
		v, err := d.u8()
		if err != nil {
			return nil, err
		}
		return &Tag{kind: KindByte, num: uint64(v)}, nil
	case KindShort:
		v, err := d.u16()
		if err != nil {
			return nil, err
		}
		return &Tag{kind: KindShort, num: uint64(v)}, nil
	case KindInt, KindFloat:
		v, err := d.u32()
		if err != nil {
			return nil, err
		}
		return &Tag{kind: k, num: uint64(v)}, nil
	case KindLong, KindDouble:
		v, err := d.u64()
		if err != nil {
			return nil, err
		}
		return &Tag{kind: k, num: v}, nil
	case KindString:
		s, err := d.str()
		if err != nil {
			return nil, err
		}
		return &Tag{kind: KindString, str: s}, nil
	case KindByteArray:
		n, err := d.count(1)
		if err != nil {
			return nil, err
		}
		v := make([]int8, n)
		for i := range v {
			v[i] = int8(d.b[d.off+i])
		}
		d.off += n
		return &Tag{kind: KindByteArray, i8s: v}, nil
	case KindIntArray:
		n, err := d.count(4)
		if err != nil {
			return nil, err
		}
		v := make([]int32, n)
		for i := range v {
			v[i] = format.ReadI32(d.b, d.off+i*4)
		}
		d.off += n * 4
		return &Tag{kind: KindIntArray, i32s: v}, nil
	case KindLongArray:
		n, err := d.count(8)
		if err != nil {
			return nil, err
		}
		v := make([]int64, n)
		for i := range v {
			v[i] = int64(format.ReadU64(d.b, d.off+i*8))
		}
		d.off += n * 8
		return &Tag{kind: KindLongArray, i64s: v}, nil
	case KindList:
		return d.listTag(depth)
	case KindCompound:
		return d.compoundTag(depth)
	default:
		return nil, fmt.Errorf("unknown tag kind byte 0x%02x at offset %d: %w", uint8(k), d.off, ErrMalformed)
	}
}

func (d *decoder) listTag(depth int) (*Tag, error) {
	eb, err := d.u8()
	if err != nil {
		return nil, err
	}
	elem := Kind(eb)
	if !elem.Valid() {
		return nil, fmt.Errorf("unknown list element kind byte 0x%02x: %w", eb, ErrMalformed)
	}
	n, err := d.count(1)
	if err != nil {
		return nil, err
	}
	if elem == KindEnd && n > 0 {
		return nil, fmt.Errorf("non-empty list with End element kind: %w", ErrMalformed)
	}
	l := &List{elem: elem, items: make([]*Tag, 0, n)}
	for i := 0; i < n; i++ {
		item, err := d.tag(elem, depth+1)
		if err != nil {
			return nil, err
		}
		l.items = append(l.items, item)
	}
	return &Tag{kind: KindList, list: l}, nil
}

func (d *decoder) compoundTag(depth int) (*Tag, error) {
	c := newCompound()
	for {
		kb, err := d.u8()
		if err != nil {
			return nil, err
		}
		k := Kind(kb)
		if k == KindEnd {
			return &Tag{kind: KindCompound, comp: c}, nil
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		child, err := d.tag(k, depth+1)
		if err != nil {
			return nil, err
		}
		if err := c.Append(name, child); err != nil {
			return nil, fmt.Errorf("compound key %q repeated: %w", name, ErrMalformed)
		}
	}
}
