// Package tree implements the edit model over a decoded tag tree.
//
// A Tree wraps an nbt.Tag root in an arena of nodes addressed by stable
// NodeID handles. All mutation goes through the operation methods (Insert,
// Remove, Move, Rename, SetValue, Duplicate), each of which validates fully
// before touching the arena and records an invertible command on the undo
// log. Undo and redo replay those commands; a fresh edit clears the redo
// stack. Presentation state (expanded/collapsed) lives on the nodes but is
// never logged.
//
// A Tree is not safe for concurrent use; callers serialize access to one
// tree, typically one tree per open document.
package tree
