package treemodel

import (
	"sort"
)

// SortedChildren returns parent's children ordered by column. Items that
// compare equal keep their dataset order.
func (m *Model) SortedChildren(parent Item, column int, ascending bool) []Item {
	children := m.ChildrenOf(parent)
	sort.SliceStable(children, func(i, j int) bool {
		return m.Compare(children[i], children[j], column, ascending) < 0
	})
	return children
}

// SortPosition returns the index at which item belongs in siblings, which must
// already be sorted by the same column and direction. Among equal items the new
// one goes last, so repeated inserts keep their insertion order.
func SortPosition(m *Model, siblings []Item, item Item, column int, ascending bool) int {
	return sort.Search(len(siblings), func(i int) bool {
		return m.Compare(item, siblings[i], column, ascending) < 0
	})
}

// InsertSorted adds item to a sorted sibling list and returns the new list
// and the position it was inserted at.
func InsertSorted(m *Model, siblings []Item, item Item, column int, ascending bool) ([]Item, int) {
	n := SortPosition(m, siblings, item, column, ascending)
	siblings = append(siblings, Root)
	copy(siblings[n+1:], siblings[n:])
	siblings[n] = item
	return siblings, n
}
