// Package mmfile maps input files into memory where the platform allows,
// falling back to a plain read elsewhere.
package mmfile
