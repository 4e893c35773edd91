package nbt

import (
	"fmt"
	"math"
	"strconv"
)

// Tag is one node in an NBT tree. The zero value is an End tag; every other
// kind is built through a New* constructor or by decoding. A parent Compound
// or List exclusively owns its children: tags are never shared between two
// parents, so the structure is always a tree.
type Tag struct {
	kind Kind
	num  uint64 // bit pattern for Byte..Double
	str  string
	i8s  []int8
	i32s []int32
	i64s []int64
	list *List
	comp *Compound
}

// NewByte returns a Byte tag.
func NewByte(v int8) *Tag { return &Tag{kind: KindByte, num: uint64(uint8(v))} }

// NewShort returns a Short tag.
func NewShort(v int16) *Tag { return &Tag{kind: KindShort, num: uint64(uint16(v))} }

// NewInt returns an Int tag.
func NewInt(v int32) *Tag { return &Tag{kind: KindInt, num: uint64(uint32(v))} }

// NewLong returns a Long tag.
func NewLong(v int64) *Tag { return &Tag{kind: KindLong, num: uint64(v)} }

// NewFloat returns a Float tag.
func NewFloat(v float32) *Tag { return &Tag{kind: KindFloat, num: uint64(math.Float32bits(v))} }

// NewDouble returns a Double tag.
func NewDouble(v float64) *Tag { return &Tag{kind: KindDouble, num: math.Float64bits(v)} }

// NewString returns a String tag.
func NewString(s string) *Tag { return &Tag{kind: KindString, str: s} }

// NewByteArray returns a ByteArray tag owning v.
func NewByteArray(v []int8) *Tag { return &Tag{kind: KindByteArray, i8s: v} }

// NewIntArray returns an IntArray tag owning v.
func NewIntArray(v []int32) *Tag { return &Tag{kind: KindIntArray, i32s: v} }

// NewLongArray returns a LongArray tag owning v.
func NewLongArray(v []int64) *Tag { return &Tag{kind: KindLongArray, i64s: v} }

// NewList returns an empty List tag with an unbound element kind. The kind is
// fixed by the first successful insert.
func NewList() *Tag { return &Tag{kind: KindList, list: &List{elem: KindEnd}} }

// NewListOf returns an empty List tag whose element kind is already bound.
func NewListOf(elem Kind) *Tag { return &Tag{kind: KindList, list: &List{elem: elem}} }

// NewCompound returns an empty Compound tag.
func NewCompound() *Tag { return &Tag{kind: KindCompound, comp: newCompound()} }

// Kind returns the tag's kind.
func (t *Tag) Kind() Kind { return t.kind }

// Byte returns the Byte payload, or 0 for other kinds.
func (t *Tag) Byte() int8 { return int8(uint8(t.num)) }

// Short returns the Short payload, or 0 for other kinds.
func (t *Tag) Short() int16 { return int16(uint16(t.num)) }

// Int returns the Int payload, or 0 for other kinds.
func (t *Tag) Int() int32 { return int32(uint32(t.num)) }

// Long returns the Long payload, or 0 for other kinds.
func (t *Tag) Long() int64 { return int64(t.num) }

// Float returns the Float payload, or 0 for other kinds.
func (t *Tag) Float() float32 { return math.Float32frombits(uint32(t.num)) }

// Double returns the Double payload, or 0 for other kinds.
func (t *Tag) Double() float64 { return math.Float64frombits(t.num) }

// Str returns the String payload, or "" for other kinds.
func (t *Tag) Str() string { return t.str }

// ByteSlice returns the ByteArray elements. The slice is owned by the tag.
func (t *Tag) ByteSlice() []int8 { return t.i8s }

// IntSlice returns the IntArray elements. The slice is owned by the tag.
func (t *Tag) IntSlice() []int32 { return t.i32s }

// LongSlice returns the LongArray elements. The slice is owned by the tag.
func (t *Tag) LongSlice() []int64 { return t.i64s }

// List returns the List payload, or nil for other kinds.
func (t *Tag) List() *List { return t.list }

// Compound returns the Compound payload, or nil for other kinds.
func (t *Tag) Compound() *Compound { return t.comp }

// Len returns the child count for container kinds and 0 for scalars.
func (t *Tag) Len() int {
	switch t.kind {
	case KindByteArray:
		return len(t.i8s)
	case KindIntArray:
		return len(t.i32s)
	case KindLongArray:
		return len(t.i64s)
	case KindList:
		return t.list.Len()
	case KindCompound:
		return t.comp.Len()
	default:
		return 0
	}
}

// Copy returns a deep copy of the tag.
func (t *Tag) Copy() *Tag {
	c := &Tag{kind: t.kind, num: t.num, str: t.str}
	switch t.kind {
	case KindByteArray:
		c.i8s = append([]int8(nil), t.i8s...)
	case KindIntArray:
		c.i32s = append([]int32(nil), t.i32s...)
	case KindLongArray:
		c.i64s = append([]int64(nil), t.i64s...)
	case KindList:
		c.list = t.list.copy()
	case KindCompound:
		c.comp = t.comp.copy()
	}
	return c
}

// Equal reports deep structural equality. Float and Double payloads are
// compared by bit pattern so NaN-carrying trees still satisfy the round-trip
// laws.
func (t *Tag) Equal(o *Tag) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindEnd:
		return true
	case KindString:
		return t.str == o.str
	case KindByteArray:
		if len(t.i8s) != len(o.i8s) {
			return false
		}
		for i, v := range t.i8s {
			if o.i8s[i] != v {
				return false
			}
		}
		return true
	case KindIntArray:
		if len(t.i32s) != len(o.i32s) {
			return false
		}
		for i, v := range t.i32s {
			if o.i32s[i] != v {
				return false
			}
		}
		return true
	case KindLongArray:
		if len(t.i64s) != len(o.i64s) {
			return false
		}
		for i, v := range t.i64s {
			if o.i64s[i] != v {
				return false
			}
		}
		return true
	case KindList:
		return t.list.equal(o.list)
	case KindCompound:
		return t.comp.equal(o.comp)
	default:
		return t.num == o.num
	}
}

// Display returns the one-line value text shown next to a node: the suffixed
// literal for numeric scalars, the raw text for strings, and an entry count
// for containers.
func (t *Tag) Display() string {
	switch t.kind {
	case KindByte:
		return strconv.FormatInt(int64(t.Byte()), 10) + "b"
	case KindShort:
		return strconv.FormatInt(int64(t.Short()), 10) + "s"
	case KindInt:
		return strconv.FormatInt(int64(t.Int()), 10)
	case KindLong:
		return strconv.FormatInt(t.Long(), 10) + "L"
	case KindFloat:
		return strconv.FormatFloat(float64(t.Float()), 'g', -1, 32) + "f"
	case KindDouble:
		return strconv.FormatFloat(t.Double(), 'g', -1, 64) + "d"
	case KindString:
		return t.str
	case KindEnd:
		return ""
	default:
		n := t.Len()
		if n == 1 {
			return "1 entry"
		}
		return fmt.Sprintf("%d entries", n)
	}
}
