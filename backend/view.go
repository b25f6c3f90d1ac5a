package treemodel

import (
	"fmt"
)

// Row is one visible row of a View.
type Row struct {
	Item      Item
	Parent    Item
	Depth     int
	Container bool
	Expanded  bool
	Values    []Value
}

// View is an in-process display surface. It keeps the flattened list of
// visible rows as a cache, the way a native virtual tree control does, and
// rebuilds it lazily after structural notifications.
//
// It is used by the command line tools and is a reference for how surfaces
// are expected to react to notifications.
type View struct {
	model    *Model
	columns  []Column
	expanded map[Item]bool

	sortColumn int
	ascending  bool
	sorted     bool

	rows    []Row
	valid   bool
	rebuilt int
}

// NewView creates a view configured with columns. Attach it with Bind.
func NewView(columns []Column) *View {
	return &View{
		columns:  append([]Column(nil), columns...),
		expanded: make(map[Item]bool),
	}
}

// Bind attaches the view to a model.
func (v *View) Bind(m *Model) error {
	if err := m.Attach(v); err != nil {
		return err
	}
	v.model = m
	v.valid = false
	return nil
}

func (v *View) Columns() []Column {
	return v.columns
}

// SortBy sorts siblings by column. A negative column restores dataset order.
func (v *View) SortBy(column int, ascending bool) {
	v.sorted = column >= 0
	v.sortColumn = column
	v.ascending = ascending
	v.valid = false
}

// Expand shows item's children.
func (v *View) Expand(item Item) {
	if !v.expanded[item] {
		v.expanded[item] = true
		v.valid = false
	}
}

// Collapse hides item's children.
func (v *View) Collapse(item Item) {
	if v.expanded[item] {
		delete(v.expanded, item)
		v.valid = false
	}
}

// ExpandAll expands every container currently reachable from the root.
func (v *View) ExpandAll() {
	var walk func(Item)
	walk = func(item Item) {
		for _, c := range v.model.ChildrenOf(item) {
			if v.model.IsContainer(c) {
				v.expanded[c] = true
				walk(c)
			}
		}
	}
	walk(Root)
	v.valid = false
}

// Rows returns the visible rows, rebuilding the cache if a notification
// invalidated it.
func (v *View) Rows() []Row {
	if v.model == nil {
		return nil
	}
	if !v.valid {
		v.rebuild()
	}
	return v.rows
}

// Row returns the visible row showing item.
func (v *View) Row(item Item) (Row, int, bool) {
	for i, r := range v.Rows() {
		if r.Item == item {
			return r, i, true
		}
	}
	return Row{}, -1, false
}

func (v *View) rebuild() {
	v.rows = make([]Row, 0, len(v.rows))
	var walk func(parent Item, depth int)
	walk = func(parent Item, depth int) {
		var children []Item
		if v.sorted {
			children = v.model.SortedChildren(parent, v.sortColumn, v.ascending)
		} else {
			children = v.model.ChildrenOf(parent)
		}
		for _, c := range children {
			container := v.model.IsContainer(c)
			row := Row{
				Item:      c,
				Parent:    parent,
				Depth:     depth,
				Container: container,
				Expanded:  container && v.expanded[c],
				Values:    v.values(c),
			}
			v.rows = append(v.rows, row)
			if row.Expanded {
				walk(c, depth+1)
			}
		}
	}
	walk(Root, 0)
	v.valid = true
	v.rebuilt++
}

func (v *View) values(item Item) []Value {
	values := make([]Value, len(v.columns))
	for i := range values {
		values[i] = v.model.GetValue(item, i)
	}
	return values
}

// Edit commits an in-place edit of a visible row. On success the row shows the
// new value and other surfaces are notified.
func (v *View) Edit(row, column int, value Value) error {
	rows := v.Rows()
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	item := rows[row].Item
	if !v.model.SetValue(item, column, value) {
		return fmt.Errorf("edit of %s column %d rejected", item, column)
	}
	v.model.ItemChanged(item)
	return nil
}

func (v *View) ItemAdded(parent, item Item) {
	v.valid = false
}

func (v *View) ItemDeleted(parent, item Item) {
	v.prune()
	v.valid = false
}

func (v *View) ItemChanged(item Item) {
	if !v.valid {
		return
	}
	if v.sorted {
		// a changed value may move the row
		v.valid = false
		return
	}
	for i := range v.rows {
		if v.rows[i].Item == item {
			v.rows[i].Values = v.values(item)
		}
	}
}

func (v *View) Cleared() {
	v.prune()
	v.valid = false
}

// prune drops expansion state of items that are gone. Expansion survives
// reorders but not removals.
func (v *View) prune() {
	for item := range v.expanded {
		if !v.model.IsContainer(item) {
			delete(v.expanded, item)
		}
	}
}
