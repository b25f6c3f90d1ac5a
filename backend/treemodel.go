package treemodel

import (
	"fmt"
)

// Field binds a Column to one field of a node type T.
//
// Get extracts the cell value. Set stores an edited value and returns an error
// wrapping ErrTypeCoercion when the value can't be converted; a nil Set makes
// the field read-only. Compare orders two nodes by this field; when nil, the
// values from Get are compared as Column.Type.
//
// Kinds limits the field to some node kinds. Nodes of other kinds show an
// empty cell and reject edits.
type Field[T any] struct {
	Column
	Kinds   KindSet
	Get     func(node *T) Value
	Set     func(node *T, value Value) error
	Compare func(a, b *T) int
}

// TreeModel is a DataSource over a Tree, with one Field per column.
type TreeModel[T any] struct {
	tree      *Tree[T]
	fields    []Field[T]
	rootValue func(column int) Value
}

// TreeOption configures a TreeModel.
type TreeOption[T any] func(*TreeModel[T])

// WithRootValue synthesizes values for the invisible root's row, for display
// surfaces that render it.
func WithRootValue[T any](fn func(column int) Value) TreeOption[T] {
	return func(tm *TreeModel[T]) {
		tm.rootValue = fn
	}
}

// NewTreeModel creates a data source for tree. The fields' column indices must
// be 0..n-1 in order.
func NewTreeModel[T any](tree *Tree[T], fields []Field[T], opts ...TreeOption[T]) (*TreeModel[T], error) {
	for i, f := range fields {
		if f.Get == nil {
			return nil, fmt.Errorf("field %q has no getter: %w", f.Title, ErrColumnMismatch)
		}
		if f.Index != i {
			return nil, fmt.Errorf("field %q has index %d at position %d: %w", f.Title, f.Index, i, ErrColumnMismatch)
		}
	}
	tm := &TreeModel[T]{
		tree:   tree,
		fields: fields,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Columns returns the column descriptors of the fields, for NewModel.
func (tm *TreeModel[T]) Columns() []Column {
	columns := make([]Column, len(tm.fields))
	for i, f := range tm.fields {
		columns[i] = f.Column
	}
	return columns
}

// Tree returns the tree behind the data source.
func (tm *TreeModel[T]) Tree() *Tree[T] {
	return tm.tree
}

func (tm *TreeModel[T]) Parent(item Item) Item {
	parent, _ := tm.tree.Parent(item)
	return parent
}

func (tm *TreeModel[T]) IsContainer(item Item) bool {
	kind, ok := tm.tree.Kind(item)
	return ok && kind == Branch
}

func (tm *TreeModel[T]) Children(item Item) []Item {
	if !tm.IsContainer(item) {
		return nil
	}
	return tm.tree.Children(item)
}

func (tm *TreeModel[T]) field(item Item, column int) (*T, *Field[T], bool) {
	if column < 0 || column >= len(tm.fields) {
		return nil, nil, false
	}
	node, ok := tm.tree.Get(item)
	if !ok {
		return nil, nil, false
	}
	kind, _ := tm.tree.Kind(item)
	f := &tm.fields[column]
	if !f.Kinds.Has(kind) {
		return node, nil, true
	}
	return node, f, true
}

func (tm *TreeModel[T]) Value(item Item, column int) Value {
	if item.IsRoot() {
		if tm.rootValue != nil && column >= 0 && column < len(tm.fields) {
			return tm.rootValue(column)
		}
		return Empty
	}
	node, f, ok := tm.field(item, column)
	if !ok || f == nil {
		return Empty
	}
	return f.Get(node)
}

func (tm *TreeModel[T]) SetValue(item Item, column int, value Value) bool {
	return tm.Edit(item, column, value) == nil
}

// Edit is SetValue with the reason for a rejection: ErrStaleItem,
// ErrEditNotPermitted or ErrTypeCoercion.
func (tm *TreeModel[T]) Edit(item Item, column int, value Value) error {
	node, f, ok := tm.field(item, column)
	if !ok {
		return fmt.Errorf("edit %s column %d: %w", item, column, ErrStaleItem)
	}
	if f == nil || f.Set == nil || !f.Editable {
		return fmt.Errorf("edit %s column %d: %w", item, column, ErrEditNotPermitted)
	}

	// Set on a copy so a failed coercion leaves the node untouched
	edited := *node
	if err := f.Set(&edited, value); err != nil {
		return fmt.Errorf("edit %s column %d: %w", item, column, err)
	}
	*node = edited
	return nil
}

func (tm *TreeModel[T]) Compare(a, b Item, column int, ascending bool) int {
	if column < 0 || column >= len(tm.fields) {
		return 0
	}
	f := &tm.fields[column]
	na, fa, _ := tm.field(a, column)
	nb, fb, _ := tm.field(b, column)

	var c int
	if f.Compare != nil {
		// nodes the field doesn't apply to sort before all others
		switch {
		case fa != nil && fb != nil:
			c = f.Compare(na, nb)
		case fa != nil:
			c = 1
		case fb != nil:
			c = -1
		}
	} else {
		var va, vb Value
		if fa != nil {
			va = f.Get(na)
		}
		if fb != nil {
			vb = f.Get(nb)
		}
		c = CompareValues(va, vb, f.Type)
	}
	return Directed(c, ascending)
}
