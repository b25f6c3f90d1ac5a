package treemodel

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is an opaque handle to one node of a Tree. It is a slot index plus the
// generation of that slot at the time the node was created, so it stays cheap
// to copy and compare, and a handle to a removed node can never resolve to a
// node created later in the same slot.
//
// The zero Item is Root.
type Item struct {
	index uint32
	gen   uint32
}

// Root is the invisible root: the parent of all top-level nodes. It is never
// rendered, is always a container, and has no data of its own.
var Root Item

// IsRoot returns true for the invisible root.
func (i Item) IsRoot() bool {
	return i == Root
}

func (i Item) String() string {
	if i.IsRoot() {
		return "root"
	}
	return fmt.Sprintf("%d:%d", i.index, i.gen)
}

// ParseItem parses the text form produced by Item.String.
func ParseItem(s string) (Item, error) {
	if s == "root" || s == "" {
		return Root, nil
	}
	idx, gen, ok := strings.Cut(s, ":")
	if !ok {
		return Root, fmt.Errorf("invalid item %q", s)
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Root, fmt.Errorf("invalid item %q: %w", s, err)
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil {
		return Root, fmt.Errorf("invalid item %q: %w", s, err)
	}
	if i == 0 || g == 0 {
		return Root, fmt.Errorf("invalid item %q", s)
	}
	return Item{index: uint32(i), gen: uint32(g)}, nil
}

func (i Item) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Item) UnmarshalText(text []byte) error {
	item, err := ParseItem(string(text))
	if err != nil {
		return err
	}
	*i = item
	return nil
}
