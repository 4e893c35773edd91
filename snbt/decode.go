package snbt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Jarva/nbtworkbench/nbt"
)

// maxDepth bounds container nesting, matching the binary decoder's limit.
const maxDepth = 512

// Decode parses a single tag value from src. The whole input must be
// consumed; trailing non-whitespace is an error.
func Decode(src string) (*nbt.Tag, error) {
	p := &parser{src: src}
	p.skipSpace()
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errf(p.pos, "trailing data after value")
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errf(off int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) expect(c byte, what string) error {
	if p.peek() != c {
		return p.errf(p.pos, "expected %q in %s", string(c), what)
	}
	p.pos++
	return nil
}

func (p *parser) value(depth int) (*nbt.Tag, error) {
	if depth > maxDepth {
		return nil, p.errf(p.pos, "nesting too deep")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.compound(depth)
	case c == '[':
		return p.listOrArray(depth)
	case c == '"' || c == '\'':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return nbt.NewString(s), nil
	default:
		off := p.pos
		tok, err := p.bare()
		if err != nil {
			return nil, err
		}
		return p.scalar(tok, off)
	}
}

func (p *parser) compound(depth int) (*nbt.Tag, error) {
	open := p.pos
	p.pos++ // '{'
	out := nbt.NewCompound()
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		keyOff := p.pos
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':', "compound entry"); err != nil {
			return nil, err
		}
		p.skipSpace()
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := out.Compound().Append(key, v); err != nil {
			return nil, p.errf(keyOff, "duplicate key %q", key)
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		case 0:
			return nil, p.errf(open, "unbalanced '{'")
		default:
			return nil, p.errf(p.pos, "expected ',' or '}' in compound")
		}
	}
}

// key parses a compound key: quoted or bare.
func (p *parser) key() (string, error) {
	if c := p.peek(); c == '"' || c == '\'' {
		return p.quoted()
	}
	return p.bare()
}

func (p *parser) listOrArray(depth int) (*nbt.Tag, error) {
	open := p.pos
	p.pos++ // '['
	// [B; [I; [L; introduce typed arrays; anything else is a list.
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == ';' {
		switch p.src[p.pos] {
		case 'B':
			p.pos += 2
			return p.byteArray(open)
		case 'I':
			p.pos += 2
			return p.intArray(open)
		case 'L':
			p.pos += 2
			return p.longArray(open)
		}
	}
	return p.list(open, depth)
}

func (p *parser) list(open, depth int) (*nbt.Tag, error) {
	out := nbt.NewList()
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		elemOff := p.pos
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := out.List().Append(v); err != nil {
			return nil, p.errf(elemOff, "mixed element kinds in list")
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return out, nil
		case 0:
			return nil, p.errf(open, "unbalanced '['")
		default:
			return nil, p.errf(p.pos, "expected ',' or ']' in list")
		}
	}
}

// arrayInts parses the comma-separated integer elements of a typed array.
// suffix is the optional per-element kind letter ('b', 'l', or 0 for none).
func (p *parser) arrayInts(open int, suffix byte, bits int) ([]int64, error) {
	var out []int64
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		off := p.pos
		tok, err := p.bare()
		if err != nil {
			return nil, err
		}
		if n := len(tok); n > 0 && suffix != 0 {
			if c := tok[n-1] | 0x20; c == suffix {
				tok = tok[:n-1]
			}
		}
		v, err := strconv.ParseInt(tok, 10, bits)
		if err != nil {
			return nil, p.errf(off, "bad array element %q", tok)
		}
		out = append(out, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return out, nil
		case 0:
			return nil, p.errf(open, "unbalanced '['")
		default:
			return nil, p.errf(p.pos, "expected ',' or ']' in array")
		}
	}
}

func (p *parser) byteArray(open int) (*nbt.Tag, error) {
	raw, err := p.arrayInts(open, 'b', 8)
	if err != nil {
		return nil, err
	}
	vals := make([]int8, len(raw))
	for i, v := range raw {
		vals[i] = int8(v)
	}
	return nbt.NewByteArray(vals), nil
}

func (p *parser) intArray(open int) (*nbt.Tag, error) {
	raw, err := p.arrayInts(open, 0, 32)
	if err != nil {
		return nil, err
	}
	vals := make([]int32, len(raw))
	for i, v := range raw {
		vals[i] = int32(v)
	}
	return nbt.NewIntArray(vals), nil
}

func (p *parser) longArray(open int) (*nbt.Tag, error) {
	raw, err := p.arrayInts(open, 'l', 64)
	if err != nil {
		return nil, err
	}
	return nbt.NewLongArray(raw), nil
}

// quoted parses a single- or double-quoted string with backslash escapes.
func (p *parser) quoted() (string, error) {
	open := p.pos
	q := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case q:
			p.pos++
			return b.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errf(open, "unterminated string")
			}
			esc := p.src[p.pos+1]
			switch esc {
			case '\\', '"', '\'':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return "", p.errf(p.pos, "invalid escape '\\%s'", string(esc))
			}
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errf(open, "unterminated string")
}

// bareChar reports whether c may appear in an unquoted token.
func bareChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '+', c == '-':
		return true
	}
	return false
}

func (p *parser) bare() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && bareChar(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errf(start, "unexpected character %q", string(p.peek()))
	}
	return p.src[start:p.pos], nil
}

// looksNumeric reports whether a bare token starts like a number, which
// makes a parse failure a syntax error rather than a fallback to string.
func looksNumeric(tok string) bool {
	i := 0
	if tok[0] == '+' || tok[0] == '-' {
		if len(tok) == 1 {
			return false
		}
		i = 1
	}
	if tok[i] == '.' {
		if i+1 >= len(tok) {
			return false
		}
		i++
	}
	return tok[i] >= '0' && tok[i] <= '9'
}

// nonFinite maps the textual NaN and infinity bodies used by suffixed float
// and double literals. Plain "NaN" without a suffix stays a string.
func nonFinite(body string) (float64, bool) {
	switch body {
	case "NaN":
		return math.NaN(), true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	return 0, false
}

// scalar interprets a bare token: boolean, suffixed or plain number, or
// fallback unquoted string.
func (p *parser) scalar(tok string, off int) (*nbt.Tag, error) {
	switch tok {
	case "true":
		return nbt.NewByte(1), nil
	case "false":
		return nbt.NewByte(0), nil
	}

	if n := len(tok); n > 1 {
		if c := tok[n-1] | 0x20; c == 'f' || c == 'd' {
			if v, ok := nonFinite(tok[:n-1]); ok {
				if c == 'f' {
					return nbt.NewFloat(float32(v)), nil
				}
				return nbt.NewDouble(v), nil
			}
		}
	}

	numeric := looksNumeric(tok)
	if numeric {
		body, last := tok, byte(0)
		if n := len(tok); n > 1 {
			if c := tok[n-1] | 0x20; c == 'b' || c == 's' || c == 'l' || c == 'f' || c == 'd' {
				body, last = tok[:n-1], c
			}
		}
		var (
			t   *nbt.Tag
			err error
		)
		switch last {
		case 'b':
			var v int64
			v, err = strconv.ParseInt(body, 10, 8)
			t = nbt.NewByte(int8(v))
		case 's':
			var v int64
			v, err = strconv.ParseInt(body, 10, 16)
			t = nbt.NewShort(int16(v))
		case 'l':
			var v int64
			v, err = strconv.ParseInt(body, 10, 64)
			t = nbt.NewLong(v)
		case 'f':
			var v float64
			v, err = strconv.ParseFloat(body, 32)
			t = nbt.NewFloat(float32(v))
		case 'd':
			var v float64
			v, err = strconv.ParseFloat(body, 64)
			t = nbt.NewDouble(v)
		default:
			if strings.ContainsAny(tok, ".eE") {
				var v float64
				v, err = strconv.ParseFloat(tok, 64)
				t = nbt.NewDouble(v)
			} else {
				var v int64
				v, err = strconv.ParseInt(tok, 10, 32)
				t = nbt.NewInt(int32(v))
			}
		}
		if err != nil {
			return nil, p.errf(off, "bad numeric literal %q", tok)
		}
		return t, nil
	}

	return nbt.NewString(tok), nil
}
