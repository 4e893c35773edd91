package tree

import (
	"fmt"

	"github.com/Jarva/nbtworkbench/nbt"
)

// Insert adds value as a child of the container at parent. For compound
// parents key names the new child; list parents ignore key. index positions
// the child among its siblings, with -1 meaning append at the end. The value
// is deep-copied into the tree.
func (t *Tree) Insert(parent Path, index int, key string, value *nbt.Tag) error {
	if value == nil || value.Kind() == nbt.KindEnd {
		return fmt.Errorf("%w: nothing to insert", ErrInvalidTarget)
	}
	if index < 0 {
		pid, err := t.Resolve(parent)
		if err != nil {
			return err
		}
		index = len(t.nodes[pid].children)
	}
	return t.do(&insertCmd{parent: parent, index: index, key: key, value: value})
}

// Remove deletes the node at path and its whole subtree. The root cannot be
// removed.
func (t *Tree) Remove(path Path) error {
	return t.do(&removeCmd{path: path})
}

// Move detaches the node at from and reattaches it under newParent at
// newIndex, with -1 meaning append. newIndex addresses the destination's
// child list as it stands after the detach. A compound child keeps its key
// and must not collide in the destination; moving a node beneath itself
// fails with ErrCyclicMove.
func (t *Tree) Move(from, newParent Path, newIndex int) error {
	if newIndex < 0 {
		id, err := t.Resolve(from)
		if err != nil {
			return err
		}
		pid, err := t.Resolve(newParent)
		if err != nil {
			return err
		}
		newIndex = len(t.nodes[pid].children)
		if t.nodes[id].parent == pid {
			newIndex--
		}
	}
	return t.do(&moveCmd{from: from, toParent: newParent, toIndex: newIndex})
}

// Rename changes the key of a compound child. Renaming to the existing key
// records a no-op edit; renaming onto a sibling's key fails with
// nbt.ErrKeyCollision.
func (t *Tree) Rename(path Path, newKey string) error {
	return t.do(&renameCmd{path: path, newKey: newKey})
}

// SetValue replaces the payload of a leaf node with a value of the same
// kind. Containers reject SetValue; edit their children instead.
func (t *Tree) SetValue(path Path, value *nbt.Tag) error {
	if value == nil {
		return fmt.Errorf("%w: nothing to set", ErrInvalidTarget)
	}
	return t.do(&setValueCmd{path: path, value: value})
}

// Duplicate inserts a deep copy of the node at path directly after it. In a
// compound the copy gets a derived key ("key (copy)", "key (copy 2)", ...).
func (t *Tree) Duplicate(path Path) error {
	return t.do(&duplicateCmd{path: path})
}
