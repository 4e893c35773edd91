// Package snbt implements the textual tag notation: a compact single-line
// form and a pretty multi-line form, both accepted by the same parser.
//
// The grammar mirrors the binary model one-to-one. Compounds are
// `{key: value, ...}`, lists `[a, b, c]`, typed arrays `[B;...]`, `[I;...]`
// and `[L;...]`. Numeric scalars carry a kind suffix (b, s, l, f, d; ints
// are bare), strings are double- or single-quoted with backslash escapes,
// and identifiers made of [A-Za-z0-9._+-] may appear unquoted. Decode
// failures return a *SyntaxError carrying the byte offset of the fault.
package snbt
