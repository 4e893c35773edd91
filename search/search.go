package search

import (
	"github.com/Jarva/nbtworkbench/tree"
)

// Match locates one matching node and records which of its facets matched.
type Match struct {
	Path    tree.Path
	InKey   bool
	InValue bool
}

// Query tests a single node. Implementations must not mutate the tree.
type Query interface {
	Matches(t *tree.Tree, id tree.NodeID) (inKey, inValue bool)
}

// Run walks the whole tree in pre-order and returns the matches in visit
// order. Calling Run twice on an unmodified tree yields identical results.
func Run(t *tree.Tree, q Query) []Match {
	var out []Match
	var walk func(id tree.NodeID)
	walk = func(id tree.NodeID) {
		inKey, inValue := q.Matches(t, id)
		if inKey || inValue {
			out = append(out, Match{Path: t.PathOf(id), InKey: inKey, InValue: inValue})
		}
		for _, c := range t.Children(id) {
			walk(c)
		}
	}
	walk(t.Root())
	return out
}
