package nbt

// Kind identifies the type of a Tag. The numeric values are the on-disk
// tag-kind bytes and must not be reordered.
type Kind uint8

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray

	kindCount
)

var kindNames = [kindCount]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

// Valid reports whether k is a defined tag kind.
func (k Kind) Valid() bool { return k < kindCount }

// IsScalar reports whether k is a leaf numeric or string kind.
func (k Kind) IsScalar() bool {
	return k >= KindByte && k <= KindDouble || k == KindString
}

// IsContainer reports whether tags of kind k hold child tags or array elements.
func (k Kind) IsContainer() bool {
	return k == KindList || k == KindCompound ||
		k == KindByteArray || k == KindIntArray || k == KindLongArray
}

func (k Kind) String() string {
	if !k.Valid() {
		return "Invalid"
	}
	return kindNames[k]
}
