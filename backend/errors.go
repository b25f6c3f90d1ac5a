package treemodel

import "errors"

var (
	// ErrStaleItem is returned when an Item no longer refers to a live node,
	// usually because the node was removed.
	ErrStaleItem = errors.New("item no longer present")

	// ErrNotContainer is returned when adding a child under a Leaf node.
	ErrNotContainer = errors.New("item is not a container")

	// ErrTypeCoercion is returned when a Value can't be converted to the type
	// a field stores.
	ErrTypeCoercion = errors.New("value has wrong type")

	// ErrEditNotPermitted is returned when a column can't be edited for the
	// target node, e.g. leaf-only fields on a Branch.
	ErrEditNotPermitted = errors.New("edit not permitted")

	// ErrColumnMismatch reports columns that don't line up between a model,
	// its fields and a display surface. It is a wiring error.
	ErrColumnMismatch = errors.New("column configuration mismatch")

	// ErrUnknownCommand is returned by Commands.Dispatch for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")
)
