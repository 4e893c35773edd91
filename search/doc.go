// Package search evaluates queries over a wrapped tag tree.
//
// A Query tests one node at a time; Run walks the tree in pre-order and
// collects the paths of the nodes that match, so results are deterministic
// for an unmodified tree. Three query forms are provided: plain substring
// (optionally case-folded), regular expression, and structural pattern,
// where the pattern is a partial tag tree in text notation and a node
// matches when it carries at least the pattern's shape and values.
package search
