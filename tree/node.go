package tree

import (
	"fmt"

	"github.com/Jarva/nbtworkbench/nbt"
)

// NodeID is a stable handle into the tree's node arena. A handle stays valid
// until its node is removed from the tree; removed IDs are recycled.
type NodeID int32

// InvalidNode is the zero-value handle; it never addresses a live node.
const InvalidNode NodeID = -1

// node is one arena slot. Container nodes (List, Compound) track their
// children as handles; every other kind is a leaf holding its payload tag.
// The expanded flag is presentation state and is never logged or undoable.
type node struct {
	parent   NodeID
	key      string // name within a compound parent
	kind     nbt.Kind
	payload  *nbt.Tag // leaf kinds only
	elem     nbt.Kind // bound element kind, list nodes only
	children []NodeID
	expanded bool
	inUse    bool
}

// Tree wraps a tag root in an addressable, undoable edit model.
type Tree struct {
	nodes []node
	free  []NodeID
	root  NodeID
	log   undoLog
}

// Wrap builds a Tree over root, taking ownership: the caller must not mutate
// root afterwards. Use Value to materialize the current state back into a
// detached tag tree.
func Wrap(root *nbt.Tag) *Tree {
	t := &Tree{root: InvalidNode}
	t.root = t.build(root, InvalidNode, "")
	return t
}

// Root returns the root node handle.
func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) alloc() NodeID {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[id] = node{inUse: true}
		return id
	}
	t.nodes = append(t.nodes, node{inUse: true})
	return NodeID(len(t.nodes) - 1)
}

// build converts a tag subtree into arena nodes and returns the subtree's
// handle.
func (t *Tree) build(tag *nbt.Tag, parent NodeID, key string) NodeID {
	id := t.alloc()
	n := &t.nodes[id]
	n.parent = parent
	n.key = key
	n.kind = tag.Kind()

	switch tag.Kind() {
	case nbt.KindList:
		l := tag.List()
		n.elem = l.Elem()
		// Filling children may grow the arena and invalidate n; re-fetch.
		kids := make([]NodeID, l.Len())
		for i := range kids {
			kids[i] = t.build(l.Get(i), id, "")
		}
		t.nodes[id].children = kids
	case nbt.KindCompound:
		c := tag.Compound()
		kids := make([]NodeID, c.Len())
		for i := range kids {
			e := c.Entry(i)
			kids[i] = t.build(e.Tag, id, e.Name)
		}
		t.nodes[id].children = kids
	default:
		n.payload = tag
	}
	return id
}

// release returns a subtree's handles to the free list.
func (t *Tree) release(id NodeID) {
	for _, c := range t.nodes[id].children {
		t.release(c)
	}
	t.nodes[id] = node{}
	t.free = append(t.free, id)
}

// valid reports whether id addresses a live node.
func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].inUse
}

// Resolve walks a path from the root, failing with ErrNotFound when a step
// does not exist or addresses the wrong container kind.
func (t *Tree) Resolve(p Path) (NodeID, error) {
	id := t.root
	for _, s := range p {
		n := &t.nodes[id]
		next := InvalidNode
		if s.IsKey {
			if n.kind != nbt.KindCompound {
				return InvalidNode, fmt.Errorf("%w: %s is not inside a compound", ErrNotFound, p)
			}
			for _, c := range n.children {
				if t.nodes[c].key == s.Key {
					next = c
					break
				}
			}
		} else if s.Index >= 0 && s.Index < len(n.children) {
			next = n.children[s.Index]
		}
		if next == InvalidNode {
			return InvalidNode, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		id = next
	}
	return id, nil
}

// PathOf recomputes the path of a live node by walking parent handles.
func (t *Tree) PathOf(id NodeID) Path {
	var rev []Step
	for id != t.root {
		n := t.nodes[id]
		p := t.nodes[n.parent]
		if p.kind == nbt.KindCompound {
			rev = append(rev, Key(n.key))
		} else {
			rev = append(rev, Index(t.indexIn(n.parent, id)))
		}
		id = n.parent
	}
	out := make(Path, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

// indexIn returns the position of child within parent's child list, or -1.
func (t *Tree) indexIn(parent, child NodeID) int {
	for i, c := range t.nodes[parent].children {
		if c == child {
			return i
		}
	}
	return -1
}

// isAncestor reports whether a is b or an ancestor of b, walking b's parent
// handles. This is the cyclic-move guard.
func (t *Tree) isAncestor(a, b NodeID) bool {
	for b != InvalidNode {
		if a == b {
			return true
		}
		b = t.nodes[b].parent
	}
	return false
}

// KindOf returns the node's tag kind.
func (t *Tree) KindOf(id NodeID) nbt.Kind { return t.nodes[id].kind }

// KeyOf returns the node's key and whether it is a compound child.
func (t *Tree) KeyOf(id NodeID) (string, bool) {
	n := t.nodes[id]
	if n.parent != InvalidNode && t.nodes[n.parent].kind == nbt.KindCompound {
		return n.key, true
	}
	return "", false
}

// Children returns the node's child handles in storage order. The returned
// slice is shared; callers must not mutate it.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

// Len returns the node's child count.
func (t *Tree) Len(id NodeID) int { return len(t.nodes[id].children) }

// DisplayOf returns the node's one-line value text, mirroring nbt.Tag.Display.
func (t *Tree) DisplayOf(id NodeID) string {
	n := t.nodes[id]
	if n.payload != nil {
		return n.payload.Display()
	}
	c := len(n.children)
	if c == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", c)
}

// TagOf materializes the subtree rooted at id into a detached tag tree.
func (t *Tree) TagOf(id NodeID) *nbt.Tag {
	n := t.nodes[id]
	switch n.kind {
	case nbt.KindList:
		out := nbt.NewListOf(n.elem)
		for _, c := range n.children {
			// Children were kind-checked on insert; Append cannot fail here.
			_ = out.List().Append(t.TagOf(c))
		}
		return out
	case nbt.KindCompound:
		out := nbt.NewCompound()
		for _, c := range n.children {
			_ = out.Compound().Append(t.nodes[c].key, t.TagOf(c))
		}
		return out
	default:
		return n.payload.Copy()
	}
}

// Value materializes the whole tree. The result is detached: mutating it
// does not affect the tree.
func (t *Tree) Value() *nbt.Tag { return t.TagOf(t.root) }

// Expanded reports the node's presentation state.
func (t *Tree) Expanded(id NodeID) bool { return t.nodes[id].expanded }

// Expand marks the node at path as expanded. Presentation only: not logged,
// not undoable.
func (t *Tree) Expand(p Path) error {
	id, err := t.Resolve(p)
	if err != nil {
		return err
	}
	t.nodes[id].expanded = true
	return nil
}

// Collapse marks the node at path as collapsed.
func (t *Tree) Collapse(p Path) error {
	id, err := t.Resolve(p)
	if err != nil {
		return err
	}
	t.nodes[id].expanded = false
	return nil
}

// ExpandAll expands the node at path and its whole subtree.
func (t *Tree) ExpandAll(p Path) error {
	id, err := t.Resolve(p)
	if err != nil {
		return err
	}
	t.expandAll(id)
	return nil
}

func (t *Tree) expandAll(id NodeID) {
	t.nodes[id].expanded = true
	for _, c := range t.nodes[id].children {
		t.expandAll(c)
	}
}
