package tree

import (
	"fmt"

	"github.com/Jarva/nbtworkbench/nbt"
)

// Op names the edit operation a command performs.
type Op uint8

const (
	OpInsert Op = iota
	OpRemove
	OpMove
	OpRename
	OpSetValue
	OpDuplicate
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpRename:
		return "rename"
	case OpSetValue:
		return "set-value"
	case OpDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// command is one invertible structural or value change. apply validates
// fully before mutating — a failed command leaves the tree untouched — and
// returns the command that exactly reverses it, built from post-apply state
// so its paths are valid for as long as the command sits on top of the log.
type command interface {
	op() Op
	apply(t *Tree) (inverse command, err error)
}

// undoLog is the pair of command stacks backing undo/redo. Applying the top
// of undo restores the previous state; applying the top of redo replays the
// most recently undone edit.
type undoLog struct {
	undo []command
	redo []command
}

// record pushes a fresh edit's inverse and invalidates redo history.
func (l *undoLog) record(inverse command) {
	l.undo = append(l.undo, inverse)
	l.redo = nil
}

// UndoDepth returns the number of edits that can be undone.
func (t *Tree) UndoDepth() int { return len(t.log.undo) }

// RedoDepth returns the number of undone edits that can be replayed.
func (t *Tree) RedoDepth() int { return len(t.log.redo) }

// Undo reverses the most recent edit. It reports whether an edit was undone;
// an empty log is a no-op, not an error.
func (t *Tree) Undo() bool {
	n := len(t.log.undo)
	if n == 0 {
		return false
	}
	c := t.log.undo[n-1]
	redo, err := c.apply(t)
	if err != nil {
		// Inverses replay against the exact state they were recorded in, so
		// this cannot happen unless the log was corrupted externally.
		panic(fmt.Sprintf("tree: undo %s failed: %v", c.op(), err))
	}
	t.log.undo = t.log.undo[:n-1]
	t.log.redo = append(t.log.redo, redo)
	return true
}

// Redo replays the most recently undone edit. It reports whether an edit
// was replayed; an empty log is a no-op, not an error.
func (t *Tree) Redo() bool {
	n := len(t.log.redo)
	if n == 0 {
		return false
	}
	c := t.log.redo[n-1]
	undo, err := c.apply(t)
	if err != nil {
		panic(fmt.Sprintf("tree: redo %s failed: %v", c.op(), err))
	}
	t.log.redo = t.log.redo[:n-1]
	t.log.undo = append(t.log.undo, undo)
	return true
}

// do applies a fresh command and records its inverse.
func (t *Tree) do(c command) error {
	inverse, err := c.apply(t)
	if err != nil {
		return err
	}
	t.log.record(inverse)
	return nil
}

// ----------------------------------------------------------------------------
// insert
// ----------------------------------------------------------------------------

type insertCmd struct {
	parent Path
	index  int
	key    string // compound parents only
	value  *nbt.Tag
}

func (c *insertCmd) op() Op { return OpInsert }

func (c *insertCmd) apply(t *Tree) (command, error) {
	pid, err := t.Resolve(c.parent)
	if err != nil {
		return nil, err
	}
	p := &t.nodes[pid]
	switch p.kind {
	case nbt.KindCompound:
		for _, ch := range p.children {
			if t.nodes[ch].key == c.key {
				return nil, fmt.Errorf("%w: %q in %s", nbt.ErrKeyCollision, c.key, c.parent)
			}
		}
	case nbt.KindList:
		if p.elem != nbt.KindEnd && c.value.Kind() != p.elem {
			return nil, fmt.Errorf("%w: %s into list of %s", nbt.ErrKindMismatch, c.value.Kind(), p.elem)
		}
	default:
		return nil, fmt.Errorf("%w: cannot insert into %s", ErrInvalidTarget, p.kind)
	}
	if c.index < 0 || c.index > len(p.children) {
		return nil, fmt.Errorf("%w: index %d", nbt.ErrIndexOutOfRange, c.index)
	}

	id := t.build(c.value.Copy(), pid, c.key)
	p = &t.nodes[pid] // build may grow the arena
	bound := false
	if p.kind == nbt.KindList && p.elem == nbt.KindEnd {
		p.elem = c.value.Kind()
		bound = true
	}
	p.children = append(p.children, InvalidNode)
	copy(p.children[c.index+1:], p.children[c.index:])
	p.children[c.index] = id

	return &removeCmd{path: t.PathOf(id), unbind: bound}, nil
}

// ----------------------------------------------------------------------------
// remove
// ----------------------------------------------------------------------------

type removeCmd struct {
	path Path
	// unbind resets the parent list's element kind after the removal. Set
	// only on inverses of the edit that bound the kind, so undo restores the
	// list to accepting any element kind again.
	unbind bool
}

func (c *removeCmd) op() Op { return OpRemove }

func (c *removeCmd) apply(t *Tree) (command, error) {
	id, err := t.Resolve(c.path)
	if err != nil {
		return nil, err
	}
	if id == t.root {
		return nil, fmt.Errorf("%w: cannot remove the root", ErrInvalidTarget)
	}
	n := t.nodes[id]
	idx := t.indexIn(n.parent, id)

	// Snapshot before detaching so undo can reinsert verbatim, original
	// position included.
	inverse := &insertCmd{
		parent: t.PathOf(n.parent),
		index:  idx,
		key:    n.key,
		value:  t.TagOf(id),
	}

	t.detach(id)
	t.release(id)
	if c.unbind {
		t.nodes[n.parent].elem = nbt.KindEnd
	}
	return inverse, nil
}

// detach unlinks id from its parent's child list without releasing it.
func (t *Tree) detach(id NodeID) {
	pid := t.nodes[id].parent
	kids := t.nodes[pid].children
	i := t.indexIn(pid, id)
	t.nodes[pid].children = append(kids[:i], kids[i+1:]...)
	t.nodes[id].parent = InvalidNode
}

// attach links id under pid at index i. Callers validate first.
func (t *Tree) attach(id, pid NodeID, i int) {
	kids := t.nodes[pid].children
	kids = append(kids, InvalidNode)
	copy(kids[i+1:], kids[i:])
	kids[i] = id
	t.nodes[pid].children = kids
	t.nodes[id].parent = pid
}

// ----------------------------------------------------------------------------
// move
// ----------------------------------------------------------------------------

type moveCmd struct {
	from     Path
	toParent Path
	toIndex  int
	// unbind resets the source list's element kind after the node leaves it,
	// mirroring removeCmd.unbind for moves that bound an empty list.
	unbind bool
}

func (c *moveCmd) op() Op { return OpMove }

func (c *moveCmd) apply(t *Tree) (command, error) {
	id, err := t.Resolve(c.from)
	if err != nil {
		return nil, err
	}
	if id == t.root {
		return nil, fmt.Errorf("%w: cannot move the root", ErrInvalidTarget)
	}
	pid, err := t.Resolve(c.toParent)
	if err != nil {
		return nil, err
	}
	if t.isAncestor(id, pid) {
		return nil, fmt.Errorf("%w: %s into %s", ErrCyclicMove, c.from, c.toParent)
	}

	n := t.nodes[id]
	dst := t.nodes[pid]
	oldParent := n.parent
	oldIndex := t.indexIn(oldParent, id)

	switch dst.kind {
	case nbt.KindCompound:
		// The node keeps whatever key it carries; a former list element
		// arrives with its last key (possibly empty). Only collisions block.
		if oldParent != pid {
			for _, ch := range dst.children {
				if t.nodes[ch].key == n.key {
					return nil, fmt.Errorf("%w: %q in %s", nbt.ErrKeyCollision, n.key, c.toParent)
				}
			}
		}
	case nbt.KindList:
		if dst.elem != nbt.KindEnd && n.kind != dst.elem {
			return nil, fmt.Errorf("%w: %s into list of %s", nbt.ErrKindMismatch, n.kind, dst.elem)
		}
	default:
		return nil, fmt.Errorf("%w: cannot move into %s", ErrInvalidTarget, dst.kind)
	}

	// toIndex addresses the destination child list after detach.
	limit := len(dst.children)
	if oldParent == pid {
		limit--
	}
	if c.toIndex < 0 || c.toIndex > limit {
		return nil, fmt.Errorf("%w: index %d", nbt.ErrIndexOutOfRange, c.toIndex)
	}

	t.detach(id)
	if c.unbind {
		t.nodes[oldParent].elem = nbt.KindEnd
	}
	t.attach(id, pid, c.toIndex)
	bound := false
	if t.nodes[pid].kind == nbt.KindList && t.nodes[pid].elem == nbt.KindEnd {
		t.nodes[pid].elem = t.nodes[id].kind
		bound = true
	}

	return &moveCmd{
		from:     t.PathOf(id),
		toParent: t.PathOf(oldParent),
		toIndex:  oldIndex,
		unbind:   bound,
	}, nil
}

// ----------------------------------------------------------------------------
// rename
// ----------------------------------------------------------------------------

type renameCmd struct {
	path   Path
	newKey string
}

func (c *renameCmd) op() Op { return OpRename }

func (c *renameCmd) apply(t *Tree) (command, error) {
	id, err := t.Resolve(c.path)
	if err != nil {
		return nil, err
	}
	oldKey, named := t.KeyOf(id)
	if !named {
		return nil, fmt.Errorf("%w: only compound children have keys", ErrInvalidTarget)
	}
	if oldKey == c.newKey {
		return &renameCmd{path: c.path, newKey: oldKey}, nil
	}
	for _, ch := range t.nodes[t.nodes[id].parent].children {
		if t.nodes[ch].key == c.newKey {
			return nil, fmt.Errorf("%w: %q", nbt.ErrKeyCollision, c.newKey)
		}
	}
	t.nodes[id].key = c.newKey
	return &renameCmd{path: t.PathOf(id), newKey: oldKey}, nil
}

// ----------------------------------------------------------------------------
// set-value
// ----------------------------------------------------------------------------

type setValueCmd struct {
	path  Path
	value *nbt.Tag
}

func (c *setValueCmd) op() Op { return OpSetValue }

func (c *setValueCmd) apply(t *Tree) (command, error) {
	id, err := t.Resolve(c.path)
	if err != nil {
		return nil, err
	}
	n := &t.nodes[id]
	if n.payload == nil {
		return nil, fmt.Errorf("%w: %s holds children, not a value", ErrInvalidTarget, n.kind)
	}
	if c.value.Kind() != n.kind {
		return nil, fmt.Errorf("%w: %s value for %s tag", nbt.ErrKindMismatch, c.value.Kind(), n.kind)
	}
	old := n.payload
	n.payload = c.value.Copy()
	return &setValueCmd{path: c.path, value: old}, nil
}

// ----------------------------------------------------------------------------
// duplicate
// ----------------------------------------------------------------------------

type duplicateCmd struct {
	path Path
}

func (c *duplicateCmd) op() Op { return OpDuplicate }

func (c *duplicateCmd) apply(t *Tree) (command, error) {
	id, err := t.Resolve(c.path)
	if err != nil {
		return nil, err
	}
	if id == t.root {
		return nil, fmt.Errorf("%w: cannot duplicate the root", ErrInvalidTarget)
	}
	pid := t.nodes[id].parent
	idx := t.indexIn(pid, id)

	key := ""
	if t.nodes[pid].kind == nbt.KindCompound {
		key = t.copyKey(pid, t.nodes[id].key)
	}

	dup := t.build(t.TagOf(id), pid, key)
	t.attach(dup, pid, idx+1)

	return &removeCmd{path: t.PathOf(dup)}, nil
}

// copyKey derives an unused key for a duplicate: "key (copy)", then
// "key (copy 2)", and so on.
func (t *Tree) copyKey(pid NodeID, base string) string {
	used := make(map[string]bool, len(t.nodes[pid].children))
	for _, ch := range t.nodes[pid].children {
		used[t.nodes[ch].key] = true
	}
	candidate := base + " (copy)"
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s (copy %d)", base, i)
	}
	return candidate
}
