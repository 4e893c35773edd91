package tree

import (
	"strconv"
	"strings"
)

// Step is one hop in a Path: a compound child addressed by key, or a list
// child addressed by index. Construct steps with Key and Index.
type Step struct {
	Key   string
	Index int
	IsKey bool
}

// Key returns a step addressing a compound child by name.
func Key(name string) Step { return Step{Key: name, IsKey: true} }

// Index returns a step addressing a list child by position.
func Index(i int) Step { return Step{Index: i} }

// Path addresses a node as the sequence of steps from the tree root. The
// empty path addresses the root itself. Paths are positions, not handles:
// structural edits upstream of a node invalidate paths through the edited
// region, and callers recompute rather than cache them.
type Path []Step

// Child returns p extended by one step. The receiver is never aliased, so
// the result is safe to retain.
func (p Path) Child(s Step) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}

// String renders the path for display, e.g. `.pos[1]` or `.name`.
// The root path renders as ".".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var b strings.Builder
	for _, s := range p {
		if s.IsKey {
			b.WriteByte('.')
			b.WriteString(s.Key)
		} else {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Equal reports whether two paths address the same position.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i, s := range p {
		if s != o[i] {
			return false
		}
	}
	return true
}
