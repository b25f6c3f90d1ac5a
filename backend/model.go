package treemodel

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
)

// DataSource provides the data of a hierarchical model. It is implemented once
// per dataset shape; TreeModel implements it for any Tree.
//
// All methods are called on the UI goroutine and must be total: an Item that
// no longer resolves is answered with Root, false, nil or Empty as appropriate
// rather than an error or a panic.
type DataSource interface {
	// Parent returns the parent of item, or Root for top-level nodes.
	Parent(item Item) Item
	// IsContainer returns whether item may have children.
	IsContainer(item Item) bool
	// Children returns item's children in dataset order.
	Children(item Item) []Item
	// Value returns one cell of item's row.
	Value(item Item, column int) Value
	// SetValue stores an edited cell, returning false if the edit is rejected.
	// A rejected edit must not change the node.
	SetValue(item Item, column int, value Value) bool
	// Compare orders two items by column; the result is negated when
	// ascending is false.
	Compare(a, b Item, column int, ascending bool) int
}

// Surface is a display surface attached to a Model. It receives structural
// change notifications and must drop anything it cached for the affected items
// before it next queries the model.
type Surface interface {
	// Columns returns the columns the surface is configured with. They are
	// checked against the model's columns when the surface is attached.
	Columns() []Column

	ItemAdded(parent, item Item)
	ItemDeleted(parent, item Item)
	ItemChanged(item Item)
	// Cleared signals that everything changed, e.g. after a reorder or reload.
	Cleared()
}

// Model adapts a DataSource to any number of display surfaces.
//
// Surfaces pull from the model with ParentOf, IsContainer, ChildrenOf,
// GetValue, SetValue and Compare. When the application changes the dataset
// itself, it must call ItemAdded, ItemDeleted or ItemChanged right after the
// change and before anything else queries the model.
type Model struct {
	source   DataSource
	columns  []Column
	surfaces []Surface
	log      *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for notifications and rejected edits.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		m.log = l
	}
}

// NewModel creates a model for source. Column indices must be 0..n-1 in order,
// or ErrColumnMismatch is returned.
func NewModel(source DataSource, columns []Column, opts ...Option) (*Model, error) {
	if err := checkColumns(columns); err != nil {
		return nil, err
	}
	m := &Model{
		source:  source,
		columns: append([]Column(nil), columns...),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Columns returns a copy of the model's columns.
func (m *Model) Columns() []Column {
	return append([]Column(nil), m.columns...)
}

// Source returns the data source behind the model.
func (m *Model) Source() DataSource {
	return m.source
}

// Attach connects a display surface. The surface's columns must match the
// model's (see MatchColumns); a mismatch is a wiring error and the surface is
// not attached. Surfaces are told apart by ==, so a surface must be of a
// comparable type, usually a pointer.
func (m *Model) Attach(s Surface) error {
	if !reflect.TypeOf(s).Comparable() {
		return fmt.Errorf("surface of type %T is not comparable, attach a pointer", s)
	}
	if err := MatchColumns(m.columns, s.Columns()); err != nil {
		return err
	}
	for _, e := range m.surfaces {
		if e == s {
			return nil
		}
	}
	m.surfaces = append(m.surfaces, s)
	return nil
}

// Detach disconnects a display surface. It is a no-op for unknown surfaces.
func (m *Model) Detach(s Surface) {
	if s == nil || !reflect.TypeOf(s).Comparable() {
		return
	}
	for i, e := range m.surfaces {
		if e == s {
			m.surfaces = append(m.surfaces[:i], m.surfaces[i+1:]...)
			return
		}
	}
}

// ParentOf returns the parent of item. Root, top-level items and items that no
// longer resolve all return Root.
func (m *Model) ParentOf(item Item) Item {
	if item.IsRoot() {
		return Root
	}
	return m.source.Parent(item)
}

// IsContainer returns whether item may have children. Root is always a
// container.
func (m *Model) IsContainer(item Item) bool {
	if item.IsRoot() {
		return true
	}
	return m.source.IsContainer(item)
}

// ChildrenOf returns item's children in dataset order. The list is computed
// from the data source on every call.
func (m *Model) ChildrenOf(item Item) []Item {
	if !m.IsContainer(item) {
		return nil
	}
	return m.source.Children(item)
}

// GetValue returns one cell. Unmapped columns return Empty.
func (m *Model) GetValue(item Item, column int) Value {
	if column < 0 || column >= len(m.columns) {
		return Empty
	}
	return m.source.Value(item, column)
}

// SetValue commits an edit from a display surface. It returns false if the
// column is out of range or not editable, or if the data source rejects the
// edit. It does not notify surfaces; the surface that made the edit already
// shows the new value, and View.Edit notifies the rest.
func (m *Model) SetValue(item Item, column int, value Value) bool {
	if column < 0 || column >= len(m.columns) || !m.columns[column].Editable {
		m.log.Debug("edit rejected", "item", item, "column", column, "reason", "column not editable")
		return false
	}
	if !m.source.SetValue(item, column, value) {
		m.log.Debug("edit rejected", "item", item, "column", column, "value", value.String())
		return false
	}
	return true
}

// Compare orders two items by column for sorting.
func (m *Model) Compare(a, b Item, column int, ascending bool) int {
	if column < 0 || column >= len(m.columns) {
		return 0
	}
	return m.source.Compare(a, b, column, ascending)
}

// ItemAdded notifies surfaces that item was added under parent.
func (m *Model) ItemAdded(parent, item Item) {
	m.log.Debug("item added", "parent", parent, "item", item)
	for _, s := range m.surfaces {
		s.ItemAdded(parent, item)
	}
}

// ItemDeleted notifies surfaces that item was removed from parent.
func (m *Model) ItemDeleted(parent, item Item) {
	m.log.Debug("item deleted", "parent", parent, "item", item)
	for _, s := range m.surfaces {
		s.ItemDeleted(parent, item)
	}
}

// ItemChanged notifies surfaces that item's values changed.
func (m *Model) ItemChanged(item Item) {
	m.log.Debug("item changed", "item", item)
	for _, s := range m.surfaces {
		s.ItemChanged(item)
	}
}

// ItemsChanged is ItemChanged for several items.
func (m *Model) ItemsChanged(items ...Item) {
	for _, item := range items {
		m.ItemChanged(item)
	}
}

// Cleared notifies surfaces that the whole dataset changed.
func (m *Model) Cleared() {
	m.log.Debug("model cleared")
	for _, s := range m.surfaces {
		s.Cleared()
	}
}
