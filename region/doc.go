// Package region implements the region-file container: a fixed directory of
// up to 1024 chunk slots, each holding an independently compressed tag tree,
// stored in 4096-byte sectors behind two reserved header sectors (the
// location table and the timestamp table).
//
// A Region owns the full file image as a byte slice. Reads decode straight
// out of the image; writes mutate it in place when the rewritten chunk still
// fits its allocated sector run, and otherwise relocate the chunk into the
// first free run that fits, growing the file when none does. The directory
// never references overlapping or out-of-file sectors after a write.
// Compact rewrites the image densely and is meant for explicit save-as
// paths, not for every write.
package region
