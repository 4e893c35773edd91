package tree

import "errors"

var (
	// ErrNotFound indicates a path that does not resolve to a node.
	ErrNotFound = errors.New("tree: node not found")

	// ErrCyclicMove indicates a move whose destination is the moved node or
	// one of its descendants.
	ErrCyclicMove = errors.New("tree: cannot move a node beneath itself")

	// ErrInvalidTarget indicates an operation applied to a node kind that
	// does not support it, such as renaming a list element or setting the
	// value of a container.
	ErrInvalidTarget = errors.New("tree: operation not applicable to target node")
)
