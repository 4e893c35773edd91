// Package batch drives find and reformat workflows over sets of files
// without an interactive session.
//
// A Runner fans files out to a bounded worker pool. Every file is sniffed
// by content — region header shape, gzip or zlib magic, binary root tag
// byte, else text notation — so misleading extensions never matter. A
// failure in one file is recorded in the report and the rest of the batch
// keeps going; only context cancellation stops the run early.
package batch
