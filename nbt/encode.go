package nbt

import (
	"fmt"

	"github.com/Jarva/nbtworkbench/internal/format"
)

// Encode serializes a named root tag into an uncompressed NBT payload, the
// exact inverse of Decode. Encoding only fails when a string exceeds the
// 16-bit length prefix.
func Encode(root *Tag, name string) ([]byte, error) {
	e := &encoder{buf: make([]byte, 0, 256)}
	e.buf = append(e.buf, byte(root.kind))
	e.str(name)
	e.tag(root)
	return e.buf, e.err
}

type encoder struct {
	buf []byte
	err error
}

func (e *encoder) u16(v uint16) {
	e.buf = append(e.buf, byte(v>>8), byte(v))
}

func (e *encoder) u32(v uint32) {
	e.buf = append(e.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (e *encoder) u64(v uint64) {
	e.buf = append(e.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (e *encoder) str(s string) {
	n := format.MUTF8Len(s)
	if n > format.MaxStringLen {
		if e.err == nil {
			e.err = fmt.Errorf("string %q: %w", s[:32]+"…", format.ErrStringTooLong)
		}
		return
	}
	e.u16(uint16(n))
	e.buf = format.AppendMUTF8(e.buf, s)
}

func (e *encoder) tag(t *Tag) {
	switch t.kind {
	case KindByte:
		e.buf = append(e.buf, byte(t.num))
	case KindShort:
		e.u16(uint16(t.num))
	case KindInt, KindFloat:
		e.u32(uint32(t.num))
	case KindLong, KindDouble:
		e.u64(t.num)
	case KindString:
		e.str(t.str)
	case KindByteArray:
		e.u32(uint32(len(t.i8s)))
		for _, v := range t.i8s {
			e.buf = append(e.buf, byte(v))
		}
	case KindIntArray:
		e.u32(uint32(len(t.i32s)))
		for _, v := range t.i32s {
			e.u32(uint32(v))
		}
	case KindLongArray:
		e.u32(uint32(len(t.i64s)))
		for _, v := range t.i64s {
			e.u64(uint64(v))
		}
	case KindList:
		e.buf = append(e.buf, byte(t.list.elem))
		e.u32(uint32(len(t.list.items)))
		for _, item := range t.list.items {
			e.tag(item)
		}
	case KindCompound:
		for _, entry := range t.comp.entries {
			e.buf = append(e.buf, byte(entry.Tag.kind))
			e.str(entry.Name)
			e.tag(entry.Tag)
		}
		e.buf = append(e.buf, byte(KindEnd))
	}
}
