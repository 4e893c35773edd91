package format

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Modified UTF-8 string codec.
//
// Tag strings are stored in the Java-flavoured "modified UTF-8" encoding:
// U+0000 becomes the two-byte sequence C0 80, and code points above U+FFFF
// are stored as a surrogate pair with each half encoded as an independent
// three-byte sequence (CESU-8). For plain ASCII the encoding is identical to
// UTF-8, which is the overwhelmingly common case for tag names.

// AppendMUTF8 appends the modified-UTF-8 encoding of s to dst and returns
// the extended slice.
func AppendMUTF8(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == 0:
			dst = append(dst, 0xC0, 0x80)
		case r < 0x80:
			dst = append(dst, byte(r))
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			dst = append(dst, 0xE0|byte(r>>12), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = append(dst, 0xE0|byte(hi>>12), 0x80|byte(hi>>6&0x3F), 0x80|byte(hi&0x3F))
			dst = append(dst, 0xE0|byte(lo>>12), 0x80|byte(lo>>6&0x3F), 0x80|byte(lo&0x3F))
		}
	}
	return dst
}

// MUTF8Len returns the encoded byte length of s without allocating.
func MUTF8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// DecodeMUTF8 decodes a modified-UTF-8 byte sequence into a Go string.
// Returns ErrBadString when a sequence is structurally invalid or truncated.
func DecodeMUTF8(b []byte) (string, error) {
	// Fast path: pure ASCII with no embedded C0 80 pairs.
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}

	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			out = append(out, rune(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", ErrBadString
			}
			out = append(out, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", ErrBadString
			}
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			if utf16.IsSurrogate(r) && i+2 < len(b) && b[i]&0xF0 == 0xE0 {
				lo := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				if combined := utf16.DecodeRune(r, lo); combined != utf8.RuneError {
					r = combined
					i += 3
				}
			}
			if utf16.IsSurrogate(r) {
				// Unpaired surrogate; Java tolerates these, so map rather than fail.
				r = utf8.RuneError
			}
			out = append(out, r)
		default:
			return "", ErrBadString
		}
	}
	return string(out), nil
}
