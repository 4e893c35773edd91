package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jarva/nbtworkbench/nbt"
)

// playerRoot builds the canonical fixture:
//
//	{name: "Steve", health: 20s, pos: [1.5, 64.0, -3.5]d}
func playerRoot(t *testing.T) *nbt.Tag {
	t.Helper()
	root := nbt.NewCompound()
	c := root.Compound()
	require.NoError(t, c.Append("name", nbt.NewString("Steve")))
	require.NoError(t, c.Append("health", nbt.NewShort(20)))
	pos := nbt.NewList()
	for _, v := range []float64{1.5, 64.0, -3.5} {
		require.NoError(t, pos.List().Append(nbt.NewDouble(v)))
	}
	require.NoError(t, c.Append("pos", pos))
	return root
}

// -----------------------------------------------------------------------------
// Wrapping, resolution, and display
// -----------------------------------------------------------------------------

func TestTree_ResolveAndPathOfRoundTrip(t *testing.T) {
	tr := Wrap(playerRoot(t))

	p := Path{Key("pos"), Index(1)}
	id, err := tr.Resolve(p)
	require.NoError(t, err)
	require.Equal(t, nbt.KindDouble, tr.KindOf(id))
	require.True(t, tr.PathOf(id).Equal(p))
	require.Equal(t, ".pos[1]", tr.PathOf(id).String())
}

func TestTree_ResolveMissingKeyFails(t *testing.T) {
	tr := Wrap(playerRoot(t))

	_, err := tr.Resolve(Path{Key("mana")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = tr.Resolve(Path{Key("pos"), Index(3)})
	require.ErrorIs(t, err, ErrNotFound)

	// Key steps only apply inside compounds.
	_, err = tr.Resolve(Path{Key("pos"), Key("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTree_DisplayMatchesTagDisplay(t *testing.T) {
	tr := Wrap(playerRoot(t))

	id, err := tr.Resolve(Path{Key("health")})
	require.NoError(t, err)
	require.Equal(t, "20s", tr.DisplayOf(id))

	id, err = tr.Resolve(Path{Key("pos")})
	require.NoError(t, err)
	require.Equal(t, "3 entries", tr.DisplayOf(id))
}

// -----------------------------------------------------------------------------
// Insert
// -----------------------------------------------------------------------------

func TestTree_InsertIntoCompoundAppends(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.Insert(Path{}, -1, "level", nbt.NewInt(30)))
	id, err := tr.Resolve(Path{Key("level")})
	require.NoError(t, err)
	require.Equal(t, "30", tr.DisplayOf(id))
	require.Equal(t, 3, tr.indexIn(tr.Root(), id))
}

func TestTree_InsertDuplicateKeyFailsAndLeavesTreeUntouched(t *testing.T) {
	tr := Wrap(playerRoot(t))
	before := tr.Value()

	err := tr.Insert(Path{}, -1, "name", nbt.NewString("Alex"))
	require.ErrorIs(t, err, nbt.ErrKeyCollision)
	require.True(t, before.Equal(tr.Value()))
	require.Equal(t, 0, tr.UndoDepth())
}

func TestTree_InsertWrongKindIntoListFails(t *testing.T) {
	tr := Wrap(playerRoot(t))

	err := tr.Insert(Path{Key("pos")}, 0, "", nbt.NewInt(7))
	require.ErrorIs(t, err, nbt.ErrKindMismatch)
}

func TestTree_InsertBindsEmptyListKind(t *testing.T) {
	tr := Wrap(playerRoot(t))
	require.NoError(t, tr.Insert(Path{}, -1, "tags", nbt.NewList()))

	require.NoError(t, tr.Insert(Path{Key("tags")}, 0, "", nbt.NewString("boss")))
	err := tr.Insert(Path{Key("tags")}, 0, "", nbt.NewInt(1))
	require.ErrorIs(t, err, nbt.ErrKindMismatch)

	// The binding survives emptying the list again.
	require.NoError(t, tr.Remove(Path{Key("tags"), Index(0)}))
	err = tr.Insert(Path{Key("tags")}, 0, "", nbt.NewInt(1))
	require.ErrorIs(t, err, nbt.ErrKindMismatch)
}

func TestTree_UndoInsertUnbindsEmptyListKind(t *testing.T) {
	tr := Wrap(playerRoot(t))
	require.NoError(t, tr.Insert(Path{}, -1, "tags", nbt.NewList()))

	require.NoError(t, tr.Insert(Path{Key("tags")}, 0, "", nbt.NewString("boss")))
	require.True(t, tr.Undo())

	// Undo restores the unbound state, so the list accepts any kind again.
	require.NoError(t, tr.Insert(Path{Key("tags")}, 0, "", nbt.NewInt(1)))
}

func TestTree_UndoMoveOutOfListUnbindsKind(t *testing.T) {
	tr := Wrap(playerRoot(t))
	require.NoError(t, tr.Insert(Path{}, -1, "tags", nbt.NewList()))

	require.NoError(t, tr.Move(Path{Key("name")}, Path{Key("tags")}, -1))
	require.True(t, tr.Undo())

	require.NoError(t, tr.Insert(Path{Key("tags")}, 0, "", nbt.NewInt(1)))
}

func TestTree_InsertIntoLeafFails(t *testing.T) {
	tr := Wrap(playerRoot(t))

	err := tr.Insert(Path{Key("name")}, 0, "x", nbt.NewInt(1))
	require.ErrorIs(t, err, ErrInvalidTarget)
}

// -----------------------------------------------------------------------------
// Remove
// -----------------------------------------------------------------------------

func TestTree_RemoveThenUndoRestoresPositionAndValue(t *testing.T) {
	tr := Wrap(playerRoot(t))
	before := tr.Value()

	require.NoError(t, tr.Remove(Path{Key("health")}))
	_, err := tr.Resolve(Path{Key("health")})
	require.ErrorIs(t, err, ErrNotFound)

	require.True(t, tr.Undo())
	require.True(t, before.Equal(tr.Value()))

	// health sits back at its original position, not at the end.
	id, err := tr.Resolve(Path{Key("health")})
	require.NoError(t, err)
	require.Equal(t, 1, tr.indexIn(tr.Root(), id))
}

func TestTree_RemoveRootFails(t *testing.T) {
	tr := Wrap(playerRoot(t))
	require.ErrorIs(t, tr.Remove(Path{}), ErrInvalidTarget)
}

// -----------------------------------------------------------------------------
// Move
// -----------------------------------------------------------------------------

func TestTree_MoveReordersWithinList(t *testing.T) {
	tr := Wrap(playerRoot(t))

	// [1.5, 64, -3.5] -> [64, 1.5, -3.5]
	require.NoError(t, tr.Move(Path{Key("pos"), Index(0)}, Path{Key("pos")}, 1))

	id, err := tr.Resolve(Path{Key("pos"), Index(0)})
	require.NoError(t, err)
	require.Equal(t, "64d", tr.DisplayOf(id))

	require.True(t, tr.Undo())
	id, err = tr.Resolve(Path{Key("pos"), Index(0)})
	require.NoError(t, err)
	require.Equal(t, "1.5d", tr.DisplayOf(id))
}

func TestTree_MoveIntoOwnSubtreeFails(t *testing.T) {
	root := nbt.NewCompound()
	inner := nbt.NewCompound()
	require.NoError(t, inner.Compound().Append("leaf", nbt.NewInt(1)))
	require.NoError(t, root.Compound().Append("outer", inner))
	tr := Wrap(root)

	err := tr.Move(Path{Key("outer")}, Path{Key("outer")}, 0)
	require.ErrorIs(t, err, ErrCyclicMove)

	err = tr.Move(Path{}, Path{Key("outer")}, 0)
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestTree_MoveCompoundChildIntoListAndBack(t *testing.T) {
	root := nbt.NewCompound()
	require.NoError(t, root.Compound().Append("speed", nbt.NewDouble(0.1)))
	nums := nbt.NewListOf(nbt.KindDouble)
	require.NoError(t, root.Compound().Append("nums", nums))
	tr := Wrap(root)
	before := tr.Value()

	require.NoError(t, tr.Move(Path{Key("speed")}, Path{Key("nums")}, 0))
	id, err := tr.Resolve(Path{Key("nums"), Index(0)})
	require.NoError(t, err)
	require.Equal(t, "0.1d", tr.DisplayOf(id))

	// Undo routes the element back into the compound under its old key.
	require.True(t, tr.Undo())
	require.True(t, before.Equal(tr.Value()))
}

func TestTree_MoveKeyCollisionFails(t *testing.T) {
	root := nbt.NewCompound()
	a := nbt.NewCompound()
	require.NoError(t, a.Compound().Append("id", nbt.NewInt(1)))
	require.NoError(t, root.Compound().Append("a", a))
	require.NoError(t, root.Compound().Append("id", nbt.NewInt(2)))
	tr := Wrap(root)

	err := tr.Move(Path{Key("a"), Key("id")}, Path{}, 0)
	require.ErrorIs(t, err, nbt.ErrKeyCollision)
}

// -----------------------------------------------------------------------------
// Rename and SetValue
// -----------------------------------------------------------------------------

func TestTree_RenameThenUndoRestoresKey(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.Rename(Path{Key("health")}, "hp"))
	_, err := tr.Resolve(Path{Key("health")})
	require.ErrorIs(t, err, ErrNotFound)
	id, err := tr.Resolve(Path{Key("hp")})
	require.NoError(t, err)
	require.Equal(t, 1, tr.indexIn(tr.Root(), id))

	require.True(t, tr.Undo())
	_, err = tr.Resolve(Path{Key("health")})
	require.NoError(t, err)
}

func TestTree_RenameListElementFails(t *testing.T) {
	tr := Wrap(playerRoot(t))
	err := tr.Rename(Path{Key("pos"), Index(0)}, "x")
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestTree_RenameOntoSiblingFails(t *testing.T) {
	tr := Wrap(playerRoot(t))
	err := tr.Rename(Path{Key("health")}, "name")
	require.ErrorIs(t, err, nbt.ErrKeyCollision)
}

func TestTree_SetValueSameKindOnly(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.SetValue(Path{Key("health")}, nbt.NewShort(15)))
	id, err := tr.Resolve(Path{Key("health")})
	require.NoError(t, err)
	require.Equal(t, "15s", tr.DisplayOf(id))

	err = tr.SetValue(Path{Key("health")}, nbt.NewInt(15))
	require.ErrorIs(t, err, nbt.ErrKindMismatch)

	err = tr.SetValue(Path{Key("pos")}, nbt.NewList())
	require.ErrorIs(t, err, ErrInvalidTarget)
}

// -----------------------------------------------------------------------------
// Duplicate
// -----------------------------------------------------------------------------

func TestTree_DuplicateCompoundChildDerivesKey(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.Duplicate(Path{Key("health")}))
	id, err := tr.Resolve(Path{Key("health (copy)")})
	require.NoError(t, err)
	require.Equal(t, "20s", tr.DisplayOf(id))
	require.Equal(t, 2, tr.indexIn(tr.Root(), id))

	require.NoError(t, tr.Duplicate(Path{Key("health")}))
	_, err = tr.Resolve(Path{Key("health (copy 2)")})
	require.NoError(t, err)

	require.True(t, tr.Undo())
	require.True(t, tr.Undo())
	_, err = tr.Resolve(Path{Key("health (copy)")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTree_DuplicateListElementInsertsAfter(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.Duplicate(Path{Key("pos"), Index(0)}))
	id, err := tr.Resolve(Path{Key("pos")})
	require.NoError(t, err)
	require.Equal(t, 4, tr.Len(id))

	dup, err := tr.Resolve(Path{Key("pos"), Index(1)})
	require.NoError(t, err)
	require.Equal(t, "1.5d", tr.DisplayOf(dup))
}

// -----------------------------------------------------------------------------
// Undo / redo discipline
// -----------------------------------------------------------------------------

func TestTree_UndoAllRestoresInitialStateRedoAllReplays(t *testing.T) {
	tr := Wrap(playerRoot(t))
	initial := tr.Value()

	require.NoError(t, tr.Insert(Path{}, -1, "level", nbt.NewInt(30)))
	require.NoError(t, tr.Rename(Path{Key("health")}, "hp"))
	require.NoError(t, tr.SetValue(Path{Key("hp")}, nbt.NewShort(5)))
	require.NoError(t, tr.Move(Path{Key("pos"), Index(2)}, Path{Key("pos")}, 0))
	require.NoError(t, tr.Remove(Path{Key("name")}))
	final := tr.Value()

	for tr.Undo() {
	}
	require.Equal(t, 0, tr.UndoDepth())
	require.True(t, initial.Equal(tr.Value()))

	for tr.Redo() {
	}
	require.Equal(t, 0, tr.RedoDepth())
	require.True(t, final.Equal(tr.Value()))
}

func TestTree_FreshEditClearsRedo(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.Rename(Path{Key("health")}, "hp"))
	require.True(t, tr.Undo())
	require.Equal(t, 1, tr.RedoDepth())

	require.NoError(t, tr.Rename(Path{Key("health")}, "vitality"))
	require.Equal(t, 0, tr.RedoDepth())
	require.False(t, tr.Redo())
}

func TestTree_UndoRedoOnEmptyLogAreNoOps(t *testing.T) {
	tr := Wrap(playerRoot(t))
	require.False(t, tr.Undo())
	require.False(t, tr.Redo())
}

func TestTree_FailedCommandRecordsNothing(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.Error(t, tr.Rename(Path{Key("health")}, "name"))
	require.Equal(t, 0, tr.UndoDepth())
}

// -----------------------------------------------------------------------------
// Presentation state
// -----------------------------------------------------------------------------

func TestTree_ExpandCollapseAreNotLogged(t *testing.T) {
	tr := Wrap(playerRoot(t))

	require.NoError(t, tr.ExpandAll(Path{}))
	id, err := tr.Resolve(Path{Key("pos")})
	require.NoError(t, err)
	require.True(t, tr.Expanded(id))

	require.NoError(t, tr.Collapse(Path{Key("pos")}))
	require.False(t, tr.Expanded(id))

	require.Equal(t, 0, tr.UndoDepth())
	require.False(t, tr.Undo())
}
