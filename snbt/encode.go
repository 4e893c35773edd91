package snbt

import (
	"math"
	"strconv"
	"strings"

	"github.com/Jarva/nbtworkbench/nbt"
)

const indentUnit = "    "

// Encode renders a tag tree as text. The compact form carries no whitespace;
// the pretty form breaks containers across lines with four-space indentation.
// Both forms decode back to an equal tree. Compound entries keep insertion
// order. Typed arrays stay on one line in either form.
func Encode(t *nbt.Tag, pretty bool) string {
	e := &emitter{pretty: pretty}
	e.value(t)
	return e.b.String()
}

type emitter struct {
	b      strings.Builder
	pretty bool
	depth  int
}

func (e *emitter) value(t *nbt.Tag) {
	switch t.Kind() {
	case nbt.KindByte:
		e.b.WriteString(strconv.FormatInt(int64(t.Byte()), 10))
		e.b.WriteByte('b')
	case nbt.KindShort:
		e.b.WriteString(strconv.FormatInt(int64(t.Short()), 10))
		e.b.WriteByte('s')
	case nbt.KindInt:
		e.b.WriteString(strconv.FormatInt(int64(t.Int()), 10))
	case nbt.KindLong:
		e.b.WriteString(strconv.FormatInt(t.Long(), 10))
		e.b.WriteByte('l')
	case nbt.KindFloat:
		e.b.WriteString(floatBody(float64(t.Float()), 32))
		e.b.WriteByte('f')
	case nbt.KindDouble:
		e.b.WriteString(floatBody(t.Double(), 64))
		e.b.WriteByte('d')
	case nbt.KindString:
		e.b.WriteString(quoteString(t.Str()))
	case nbt.KindByteArray:
		e.byteArray(t.ByteSlice())
	case nbt.KindIntArray:
		e.intArray(t.IntSlice())
	case nbt.KindLongArray:
		e.longArray(t.LongSlice())
	case nbt.KindList:
		e.list(t.List())
	case nbt.KindCompound:
		e.compound(t.Compound())
	}
}

func (e *emitter) byteArray(vals []int8) {
	e.b.WriteString("[B;")
	for i, v := range vals {
		if i > 0 {
			e.b.WriteByte(',')
		}
		e.b.WriteString(strconv.FormatInt(int64(v), 10))
		e.b.WriteByte('b')
	}
	e.b.WriteByte(']')
}

func (e *emitter) intArray(vals []int32) {
	e.b.WriteString("[I;")
	for i, v := range vals {
		if i > 0 {
			e.b.WriteByte(',')
		}
		e.b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	e.b.WriteByte(']')
}

func (e *emitter) longArray(vals []int64) {
	e.b.WriteString("[L;")
	for i, v := range vals {
		if i > 0 {
			e.b.WriteByte(',')
		}
		e.b.WriteString(strconv.FormatInt(v, 10))
		e.b.WriteByte('l')
	}
	e.b.WriteByte(']')
}

func (e *emitter) list(l *nbt.List) {
	if l.Len() == 0 {
		e.b.WriteString("[]")
		return
	}
	e.b.WriteByte('[')
	e.open()
	for i := 0; i < l.Len(); i++ {
		if i > 0 {
			e.sep()
		}
		e.indent()
		e.value(l.Get(i))
	}
	e.close()
	e.b.WriteByte(']')
}

func (e *emitter) compound(c *nbt.Compound) {
	if c.Len() == 0 {
		e.b.WriteString("{}")
		return
	}
	e.b.WriteByte('{')
	e.open()
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			e.sep()
		}
		e.indent()
		entry := c.Entry(i)
		e.b.WriteString(quoteKey(entry.Name))
		e.b.WriteByte(':')
		if e.pretty {
			e.b.WriteByte(' ')
		}
		e.value(entry.Tag)
	}
	e.close()
	e.b.WriteByte('}')
}

func (e *emitter) open() {
	e.depth++
	if e.pretty {
		e.b.WriteByte('\n')
	}
}

func (e *emitter) sep() {
	e.b.WriteByte(',')
	if e.pretty {
		e.b.WriteByte('\n')
	}
}

func (e *emitter) close() {
	e.depth--
	if e.pretty {
		e.b.WriteByte('\n')
		for i := 0; i < e.depth; i++ {
			e.b.WriteString(indentUnit)
		}
	}
}

func (e *emitter) indent() {
	if !e.pretty {
		return
	}
	for i := 0; i < e.depth; i++ {
		e.b.WriteString(indentUnit)
	}
}

// floatBody renders the digits of a float or double literal, spelling out
// the non-finite values the parser reads back as the same kind.
func floatBody(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

// bareable reports whether s can round-trip unquoted: non-empty, all bare
// characters, and not mistakable for a number, boolean, or non-finite float
// literal.
func bareable(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !bareChar(s[i]) {
			return false
		}
	}
	if looksNumeric(s) {
		return false
	}
	if n := len(s); n > 1 {
		if c := s[n-1] | 0x20; c == 'f' || c == 'd' {
			if _, ok := nonFinite(s[:n-1]); ok {
				return false
			}
		}
	}
	return true
}

// quoteString renders a string value, unquoted when that round-trips.
func quoteString(s string) string {
	if bareable(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// quoteKey renders a compound key; keys follow the same quoting rule except
// that numeric-looking keys stay bare, since keys are never parsed as
// numbers.
func quoteKey(s string) string {
	if s != "" {
		bare := true
		for i := 0; i < len(s); i++ {
			if !bareChar(s[i]) {
				bare = false
				break
			}
		}
		if bare {
			return s
		}
	}
	return quoteString(s)
}
