package treemodel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type song struct {
	Title  string
	Artist string
	Year   int
}

const (
	colTitle = iota
	colArtist
	colYear
)

func songFields() []Field[song] {
	return []Field[song]{
		{
			Column: Column{Index: colTitle, Title: "Title", Width: 200, Editable: true, Type: TypeString},
			Get:    func(s *song) Value { return StringValue(s.Title) },
			Set: func(s *song, v Value) error {
				t, err := v.AsString()
				s.Title = t
				return err
			},
		},
		{
			Column: Column{Index: colArtist, Title: "Artist", Width: 150, Editable: true, Type: TypeString},
			Kinds:  LeafOnly,
			Get:    func(s *song) Value { return StringValue(s.Artist) },
			Set: func(s *song, v Value) error {
				a, err := v.AsString()
				s.Artist = a
				return err
			},
		},
		{
			Column: Column{Index: colYear, Title: "Year", Width: 60, Align: AlignRight, Editable: true, Type: TypeInt},
			Kinds:  LeafOnly,
			Get: func(s *song) Value {
				if s.Year == 0 {
					return Empty
				}
				return IntValue(int64(s.Year))
			},
			Set: func(s *song, v Value) error {
				i, err := v.AsInt()
				if err != nil {
					return err
				}
				s.Year = int(i)
				return nil
			},
		},
	}
}

type songFixture struct {
	tree   *Tree[song]
	source *TreeModel[song]
	model  *Model
	items  map[string]Item
}

func newSongFixture(t *testing.T) *songFixture {
	t.Helper()
	f := &songFixture{
		tree:  NewTree[song](),
		items: make(map[string]Item),
	}

	add := func(parent Item, kind Kind, s song) Item {
		item, err := f.tree.Add(parent, kind, s)
		require.NoError(t, err)
		f.items[s.Title] = item
		return item
	}
	music := add(Root, Branch, song{Title: "My Music"})
	pop := add(music, Branch, song{Title: "Pop"})
	add(pop, Leaf, song{Title: "Yesterday", Artist: "The Beatles", Year: 1965})
	add(pop, Leaf, song{Title: "Take a bow", Artist: "Madonna", Year: 1994})
	add(pop, Leaf, song{Title: "You are not alone", Artist: "Michael Jackson", Year: 1995})
	classical := add(music, Branch, song{Title: "Classical"})
	add(classical, Leaf, song{Title: "Ninth symphony", Artist: "Ludwig van Beethoven", Year: 1824})
	add(music, Branch, song{Title: "Empty"})

	var err error
	f.source, err = NewTreeModel(f.tree, songFields())
	require.NoError(t, err)
	f.model, err = NewModel(f.source, f.source.Columns())
	require.NoError(t, err)
	return f
}

type recordingSurface struct {
	columns []Column
	events  []string
}

func (r *recordingSurface) Columns() []Column { return r.columns }
func (r *recordingSurface) ItemAdded(parent, item Item) {
	r.events = append(r.events, fmt.Sprintf("added %s %s", parent, item))
}
func (r *recordingSurface) ItemDeleted(parent, item Item) {
	r.events = append(r.events, fmt.Sprintf("deleted %s %s", parent, item))
}
func (r *recordingSurface) ItemChanged(item Item) {
	r.events = append(r.events, fmt.Sprintf("changed %s", item))
}
func (r *recordingSurface) Cleared() {
	r.events = append(r.events, "cleared")
}

func TestNavigationRoundTrip(t *testing.T) {
	f := newSongFixture(t)

	var visit func(item Item)
	visited := 0
	visit = func(item Item) {
		for _, child := range f.model.ChildrenOf(item) {
			visited++
			assert.Equal(t, item, f.model.ParentOf(child), "parent of %s", child)
			visit(child)
		}
	}
	visit(Root)
	assert.Equal(t, f.tree.Len(), visited)
}

func TestLeafHasNoChildren(t *testing.T) {
	f := newSongFixture(t)

	f.tree.Walk(func(item Item, _ int) bool {
		if !f.model.IsContainer(item) {
			assert.Empty(t, f.model.ChildrenOf(item), "leaf %s", item)
		}
		return true
	})
	assert.True(t, f.model.IsContainer(Root))
	assert.False(t, f.model.IsContainer(f.items["Yesterday"]))
}

func TestEmptyBranchIsContainer(t *testing.T) {
	f := newSongFixture(t)

	empty := f.items["Empty"]
	assert.True(t, f.model.IsContainer(empty))
	assert.Empty(t, f.model.ChildrenOf(empty))
}

func TestRootChildren(t *testing.T) {
	f := newSongFixture(t)

	assert.Equal(t, []Item{f.items["My Music"]}, f.model.ChildrenOf(Root))
	assert.Equal(t, Root, f.model.ParentOf(f.items["My Music"]))
	assert.Equal(t, Root, f.model.ParentOf(Root))
}

func TestChildrenInDatasetOrder(t *testing.T) {
	f := newSongFixture(t)

	want := []Item{f.items["Yesterday"], f.items["Take a bow"], f.items["You are not alone"]}
	if diff := cmp.Diff(want, f.model.ChildrenOf(f.items["Pop"]), cmp.AllowUnexported(Item{})); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestGetValue(t *testing.T) {
	f := newSongFixture(t)
	yesterday := f.items["Yesterday"]

	assert.Equal(t, StringValue("Yesterday"), f.model.GetValue(yesterday, colTitle))
	assert.Equal(t, IntValue(1965), f.model.GetValue(yesterday, colYear))
	assert.Equal(t, Empty, f.model.GetValue(yesterday, 7), "unmapped column")
	assert.Equal(t, Empty, f.model.GetValue(yesterday, -1), "negative column")
	assert.Equal(t, Empty, f.model.GetValue(f.items["Pop"], colArtist), "leaf-only field on branch")
	assert.Equal(t, Empty, f.model.GetValue(Root, colTitle), "root without root value")
}

func TestRootValue(t *testing.T) {
	f := newSongFixture(t)
	source, err := NewTreeModel(f.tree, songFields(), WithRootValue[song](func(column int) Value {
		if column == colTitle {
			return StringValue(fmt.Sprintf("%d songs", f.tree.Len()))
		}
		return Empty
	}))
	require.NoError(t, err)
	model, err := NewModel(source, source.Columns())
	require.NoError(t, err)

	assert.Equal(t, StringValue("8 songs"), model.GetValue(Root, colTitle))
	assert.Equal(t, Empty, model.GetValue(Root, colYear))
}

func TestSetValueRejectsBadNumber(t *testing.T) {
	f := newSongFixture(t)
	yesterday := f.items["Yesterday"]

	assert.False(t, f.model.SetValue(yesterday, colYear, StringValue("abc")))
	assert.Equal(t, IntValue(1965), f.model.GetValue(yesterday, colYear))

	err := f.source.Edit(yesterday, colYear, StringValue("abc"))
	assert.True(t, errors.Is(err, ErrTypeCoercion), "got %v", err)
}

func TestSetValueChangesOneField(t *testing.T) {
	f := newSongFixture(t)
	item := f.items["Take a bow"]

	require.True(t, f.model.SetValue(item, colTitle, StringValue("New Title")))
	node, ok := f.tree.Get(item)
	require.True(t, ok)
	assert.Equal(t, song{Title: "New Title", Artist: "Madonna", Year: 1994}, *node)
}

func TestSetValueNumericFromText(t *testing.T) {
	f := newSongFixture(t)
	item := f.items["Take a bow"]

	require.True(t, f.model.SetValue(item, colYear, StringValue(" 1995 ")))
	assert.Equal(t, IntValue(1995), f.model.GetValue(item, colYear))
}

func TestSetValueBranchRestriction(t *testing.T) {
	f := newSongFixture(t)
	pop := f.items["Pop"]

	assert.False(t, f.model.SetValue(pop, colArtist, StringValue("Anyone")))
	node, _ := f.tree.Get(pop)
	assert.Equal(t, song{Title: "Pop"}, *node)

	err := f.source.Edit(pop, colArtist, StringValue("Anyone"))
	assert.ErrorIs(t, err, ErrEditNotPermitted)

	assert.True(t, f.model.SetValue(pop, colTitle, StringValue("Pop music")))
}

func TestSetValueNotEditableColumn(t *testing.T) {
	f := newSongFixture(t)
	columns := f.source.Columns()
	columns[colTitle].Editable = false
	model, err := NewModel(f.source, columns)
	require.NoError(t, err)

	assert.False(t, model.SetValue(f.items["Yesterday"], colTitle, StringValue("x")))
	assert.False(t, model.SetValue(f.items["Yesterday"], 9, StringValue("x")))
	assert.Equal(t, StringValue("Yesterday"), model.GetValue(f.items["Yesterday"], colTitle))
}

func TestCompareTitles(t *testing.T) {
	f := newSongFixture(t)
	pop := f.items["Pop"]
	var items []Item
	for _, title := range []string{"banana", "Apple", "cherry"} {
		item, err := f.tree.Add(pop, Leaf, song{Title: title})
		require.NoError(t, err)
		items = append(items, item)
	}
	banana, apple, cherry := items[0], items[1], items[2]

	assert.Negative(t, f.model.Compare(apple, banana, colTitle, true))
	assert.Negative(t, f.model.Compare(banana, cherry, colTitle, true))
	assert.Negative(t, f.model.Compare(apple, cherry, colTitle, true))
	assert.Positive(t, f.model.Compare(apple, banana, colTitle, false))
	assert.Positive(t, f.model.Compare(banana, cherry, colTitle, false))

	for _, a := range items {
		for _, b := range items {
			for _, asc := range []bool{true, false} {
				assert.Equal(t, f.model.Compare(a, b, colTitle, asc), -f.model.Compare(b, a, colTitle, asc))
			}
		}
	}

	// transitivity over every permutation
	for _, a := range items {
		for _, b := range items {
			for _, c := range items {
				if f.model.Compare(a, b, colTitle, true) < 0 && f.model.Compare(b, c, colTitle, true) < 0 {
					assert.Negative(t, f.model.Compare(a, c, colTitle, true))
				}
			}
		}
	}
}

func TestCompareYearMissingIsZero(t *testing.T) {
	f := newSongFixture(t)
	noYear, err := f.tree.Add(f.items["Pop"], Leaf, song{Title: "Unknown"})
	require.NoError(t, err)

	assert.Negative(t, f.model.Compare(noYear, f.items["Yesterday"], colYear, true))
	assert.Positive(t, f.model.Compare(f.items["Take a bow"], f.items["Yesterday"], colYear, true))
	assert.Zero(t, f.model.Compare(noYear, f.items["Pop"], colYear, true))
}

func TestSortedChildren(t *testing.T) {
	f := newSongFixture(t)
	pop := f.items["Pop"]

	byTitle := f.model.SortedChildren(pop, colTitle, true)
	assert.Equal(t, []Item{f.items["Take a bow"], f.items["Yesterday"], f.items["You are not alone"]}, byTitle)

	byYearDesc := f.model.SortedChildren(pop, colYear, false)
	assert.Equal(t, []Item{f.items["You are not alone"], f.items["Take a bow"], f.items["Yesterday"]}, byYearDesc)

	// dataset order is untouched
	assert.Equal(t, f.items["Yesterday"], f.model.ChildrenOf(pop)[0])
}

func TestInsertSorted(t *testing.T) {
	f := newSongFixture(t)
	pop := f.items["Pop"]
	sorted := f.model.SortedChildren(pop, colTitle, true)

	item, err := f.tree.Add(pop, Leaf, song{Title: "Vogue"})
	require.NoError(t, err)

	assert.Equal(t, 1, SortPosition(f.model, sorted, item, colTitle, true))
	sorted, pos := InsertSorted(f.model, sorted, item, colTitle, true)
	assert.Equal(t, 1, pos)
	assert.Equal(t, f.model.SortedChildren(pop, colTitle, true), sorted)
}

func TestStaleItem(t *testing.T) {
	f := newSongFixture(t)
	surface := &recordingSurface{columns: f.model.Columns()}
	require.NoError(t, f.model.Attach(surface))

	item := f.items["Take a bow"]
	parent, err := f.tree.Remove(item)
	require.NoError(t, err)
	f.model.ItemDeleted(parent, item)

	assert.Equal(t, Root, f.model.ParentOf(item))
	assert.Equal(t, Empty, f.model.GetValue(item, colTitle))
	assert.False(t, f.model.IsContainer(item))
	assert.Empty(t, f.model.ChildrenOf(item))
	assert.False(t, f.model.SetValue(item, colTitle, StringValue("x")))
	assert.NotContains(t, f.model.ChildrenOf(f.items["Pop"]), item)
	assert.ErrorIs(t, f.source.Edit(item, colTitle, StringValue("x")), ErrStaleItem)

	// a node created in the recycled slot is not reachable through the old Item
	reused, err := f.tree.Add(f.items["Pop"], Leaf, song{Title: "Frozen"})
	require.NoError(t, err)
	assert.NotEqual(t, item, reused)
	assert.Equal(t, Empty, f.model.GetValue(item, colTitle))
	assert.Equal(t, StringValue("Frozen"), f.model.GetValue(reused, colTitle))
}

func TestStaleItemsCompareAsEmpty(t *testing.T) {
	f := newSongFixture(t)
	item := f.items["Take a bow"]
	_, err := f.tree.Remove(item)
	require.NoError(t, err)

	assert.Negative(t, f.model.Compare(item, f.items["Yesterday"], colTitle, true))
	assert.Zero(t, f.model.Compare(item, item, colTitle, true))
}

func TestAddedItemVisible(t *testing.T) {
	f := newSongFixture(t)
	surface := &recordingSurface{columns: f.model.Columns()}
	require.NoError(t, f.model.Attach(surface))

	item, err := f.tree.Add(Root, Branch, song{Title: "Podcasts"})
	require.NoError(t, err)
	f.model.ItemAdded(Root, item)

	assert.Equal(t, []Item{f.items["My Music"], item}, f.model.ChildrenOf(Root))
	assert.Equal(t, []string{fmt.Sprintf("added root %s", item)}, surface.events)
}

func TestNotificationsFanOut(t *testing.T) {
	f := newSongFixture(t)
	a := &recordingSurface{columns: f.model.Columns()}
	b := &recordingSurface{columns: f.model.Columns()}
	require.NoError(t, f.model.Attach(a))
	require.NoError(t, f.model.Attach(b))
	require.NoError(t, f.model.Attach(a), "attaching twice is a no-op")

	item := f.items["Yesterday"]
	f.model.ItemChanged(item)
	f.model.ItemsChanged(item, f.items["Pop"])
	f.model.Cleared()

	want := []string{
		"changed " + item.String(),
		"changed " + item.String(),
		"changed " + f.items["Pop"].String(),
		"cleared",
	}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)

	f.model.Detach(a)
	f.model.ItemChanged(item)
	assert.Len(t, a.events, 4)
	assert.Len(t, b.events, 5)
}

func TestColumnMismatch(t *testing.T) {
	f := newSongFixture(t)

	_, err := NewModel(f.source, []Column{{Index: 1}, {Index: 0}})
	assert.ErrorIs(t, err, ErrColumnMismatch)

	fields := songFields()
	fields[1].Index = 2
	_, err = NewTreeModel(f.tree, fields)
	assert.ErrorIs(t, err, ErrColumnMismatch)

	short := &recordingSurface{columns: f.model.Columns()[:2]}
	assert.ErrorIs(t, f.model.Attach(short), ErrColumnMismatch)

	retyped := &recordingSurface{columns: f.model.Columns()}
	retyped.columns[colYear].Type = TypeString
	assert.ErrorIs(t, f.model.Attach(retyped), ErrColumnMismatch)

	retitled := &recordingSurface{columns: f.model.Columns()}
	retitled.columns[colTitle].Title = "Name"
	assert.NoError(t, f.model.Attach(retitled), "titles are presentation only")
}

// sliceSurface is a non-comparable value type.
type sliceSurface struct {
	columns []Column
}

func (s sliceSurface) Columns() []Column             { return s.columns }
func (s sliceSurface) ItemAdded(parent, item Item)   {}
func (s sliceSurface) ItemDeleted(parent, item Item) {}
func (s sliceSurface) ItemChanged(item Item)         {}
func (s sliceSurface) Cleared()                      {}

func TestAttachNonComparableSurface(t *testing.T) {
	f := newSongFixture(t)
	recorder := &recordingSurface{columns: f.model.Columns()}
	require.NoError(t, f.model.Attach(recorder))

	s := sliceSurface{columns: f.model.Columns()}
	assert.Error(t, f.model.Attach(s))
	assert.NotPanics(t, func() { f.model.Detach(s) })

	f.model.ItemChanged(f.items["Pop"])
	assert.Len(t, recorder.events, 1, "other surfaces stay attached")
}
