package treemodel

import (
	"fmt"
	"sort"
)

// Kind classifies a node as able to hold children or not.
type Kind uint8

const (
	Leaf Kind = iota
	Branch
)

func (k Kind) String() string {
	switch k {
	case Branch:
		return "branch"
	case Leaf:
		return "leaf"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// KindSet is a set of node kinds. The zero KindSet contains every kind.
type KindSet uint8

const (
	AnyKind    KindSet = 0
	LeafOnly   KindSet = 1 << Leaf
	BranchOnly KindSet = 1 << Branch
)

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return s == AnyKind || s&(1<<k) != 0
}

type slot[T any] struct {
	gen      uint32
	live     bool
	kind     Kind
	parent   Item
	children []Item
	value    *T
}

// Tree is an arena of nodes addressed by Item. Parent and child links are
// stored as Items rather than pointers, so there are no reference cycles and
// removing a node is a matter of marking its slots free.
//
// Values are heap allocated individually; the *T returned by Get stays valid
// for as long as the node is live, even as the arena grows.
//
// Tree is not safe for concurrent use.
type Tree[T any] struct {
	// slots[0] is never used; index 0 is reserved for Root
	slots []slot[T]
	free  []uint32
	top   []Item
	count int
}

// NewTree creates an empty tree.
func NewTree[T any]() *Tree[T] {
	return &Tree[T]{
		slots: make([]slot[T], 1, 64),
	}
}

func (t *Tree[T]) slot(item Item) *slot[T] {
	if item.IsRoot() || int(item.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[item.index]
	if !s.live || s.gen != item.gen {
		return nil
	}
	return s
}

// Contains reports whether item refers to a live node. Root is always
// contained.
func (t *Tree[T]) Contains(item Item) bool {
	return item.IsRoot() || t.slot(item) != nil
}

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int {
	return t.count
}

// Add appends a new node at the end of parent's children.
func (t *Tree[T]) Add(parent Item, kind Kind, value T) (Item, error) {
	return t.Insert(parent, -1, kind, value)
}

// Insert adds a new node at position pos among parent's children. A negative
// or out of range pos appends.
func (t *Tree[T]) Insert(parent Item, pos int, kind Kind, value T) (Item, error) {
	var siblings *[]Item
	if parent.IsRoot() {
		siblings = &t.top
	} else {
		ps := t.slot(parent)
		if ps == nil {
			return Root, fmt.Errorf("insert under %s: %w", parent, ErrStaleItem)
		}
		if ps.kind != Branch {
			return Root, fmt.Errorf("insert under %s: %w", parent, ErrNotContainer)
		}
		siblings = &ps.children
	}

	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[T]{})
		index = uint32(len(t.slots) - 1)
	}

	// siblings may point into t.slots; re-resolve after a possible append
	if !parent.IsRoot() {
		siblings = &t.slots[parent.index].children
	}

	s := &t.slots[index]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.kind = kind
	s.parent = parent
	s.children = nil
	v := value
	s.value = &v

	item := Item{index: index, gen: s.gen}
	if pos < 0 || pos >= len(*siblings) {
		*siblings = append(*siblings, item)
	} else {
		*siblings = append(*siblings, Root)
		copy((*siblings)[pos+1:], (*siblings)[pos:])
		(*siblings)[pos] = item
	}
	t.count++
	return item, nil
}

// Remove deletes item and its whole subtree, returning the parent it was
// removed from. Every Item inside the subtree becomes stale.
func (t *Tree[T]) Remove(item Item) (Item, error) {
	s := t.slot(item)
	if s == nil {
		return Root, fmt.Errorf("remove %s: %w", item, ErrStaleItem)
	}
	parent := s.parent

	if parent.IsRoot() {
		t.top = removeItem(t.top, item)
	} else if ps := t.slot(parent); ps != nil {
		ps.children = removeItem(ps.children, item)
	}

	t.release(item)
	return parent, nil
}

func (t *Tree[T]) release(item Item) {
	s := &t.slots[item.index]
	for _, c := range s.children {
		t.release(c)
	}
	s.live = false
	s.children = nil
	s.value = nil
	s.parent = Root
	t.free = append(t.free, item.index)
	t.count--
}

func removeItem(list []Item, item Item) []Item {
	for i, c := range list {
		if c == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Clear removes every node. All outstanding Items become stale.
func (t *Tree[T]) Clear() {
	for _, item := range t.top {
		t.release(item)
	}
	t.top = nil
}

// Get returns the value stored for item.
func (t *Tree[T]) Get(item Item) (*T, bool) {
	s := t.slot(item)
	if s == nil {
		return nil, false
	}
	return s.value, true
}

// Kind returns the classification of item. Root reports Branch.
func (t *Tree[T]) Kind(item Item) (Kind, bool) {
	if item.IsRoot() {
		return Branch, true
	}
	s := t.slot(item)
	if s == nil {
		return Leaf, false
	}
	return s.kind, true
}

// Parent returns the parent of item, which is Root for top-level nodes.
func (t *Tree[T]) Parent(item Item) (Item, bool) {
	s := t.slot(item)
	if s == nil {
		return Root, false
	}
	return s.parent, true
}

// Children returns a copy of item's children in dataset order. Root returns
// the top-level nodes; leaves and stale items return nil.
func (t *Tree[T]) Children(item Item) []Item {
	var list []Item
	if item.IsRoot() {
		list = t.top
	} else if s := t.slot(item); s != nil {
		list = s.children
	}
	if len(list) == 0 {
		return nil
	}
	return append([]Item(nil), list...)
}

// IndexOf returns the position of item among its siblings, or -1.
func (t *Tree[T]) IndexOf(item Item) int {
	parent, ok := t.Parent(item)
	if !ok {
		return -1
	}
	list := t.top
	if !parent.IsRoot() {
		list = t.slots[parent.index].children
	}
	for i, c := range list {
		if c == item {
			return i
		}
	}
	return -1
}

// Walk visits every node depth-first in dataset order. Returning false from fn
// skips the node's children.
func (t *Tree[T]) Walk(fn func(item Item, depth int) bool) {
	var walk func(list []Item, depth int)
	walk = func(list []Item, depth int) {
		for _, item := range list {
			if fn(item, depth) {
				walk(t.slots[item.index].children, depth+1)
			}
		}
	}
	walk(t.top, 0)
}

// SortChildren reorders parent's children in place. cmp follows the usual
// negative/zero/positive convention; the sort is stable.
func (t *Tree[T]) SortChildren(parent Item, cmp func(a, b Item) int) error {
	list := t.top
	if !parent.IsRoot() {
		s := t.slot(parent)
		if s == nil {
			return fmt.Errorf("sort children of %s: %w", parent, ErrStaleItem)
		}
		list = s.children
	}
	sort.SliceStable(list, func(i, j int) bool {
		return cmp(list[i], list[j]) < 0
	})
	return nil
}
