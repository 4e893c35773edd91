// Package nbt implements the NBT data model and its binary codec.
//
// A Tag is one node of a tag tree: a scalar, an array, a List, or a
// Compound. Trees are produced either by decoding bytes (Decode for bare
// payloads, DecodeFile for compressed standalone files) or by explicit
// construction through the New* constructors. Encoding is the exact inverse
// of decoding: for every valid tree t, Decode(Encode(t)) reproduces t.
//
// The package performs no file I/O; callers hand it byte slices and receive
// byte slices back.
package nbt
