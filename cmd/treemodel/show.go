package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/backend"
	"github.com/CrimsonAS/treemodel/examples/music"
)

var (
	showDepth int
	showSort  string
	showDesc  bool
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#666666")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	folderStyle = lipgloss.NewStyle().
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

func init() {
	cmd := newShowCmd()
	cmd.Flags().IntVar(&showDepth, "depth", 0, "Maximum depth to show (0 = unlimited)")
	cmd.Flags().StringVar(&showSort, "sort", "", "Sort siblings by column (index or title)")
	cmd.Flags().BoolVar(&showDesc, "desc", false, "Sort descending")
	rootCmd.AddCommand(cmd)
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Show the library as a tree of rows",
		Long: `The show command prints the library, or the folder at path, one row per
node with a cell per column. Sorting only affects the output; use the sort
command to change the stored order.

Example:
  treemodel show
  treemodel show "My Music/Pop music" --sort year --desc
  treemodel show --depth 1 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args)
		},
	}
	return cmd
}

// shownRow is the JSON form of a row.
type shownRow struct {
	Path      string                     `json:"path"`
	Depth     int                        `json:"depth"`
	Container bool                       `json:"container"`
	Values    map[string]treemodel.Value `json:"values"`
}

func runShow(args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}

	columns, err := cfg.Apply(lib.Model().Columns())
	if err != nil {
		return err
	}
	view := treemodel.NewView(columns)
	if err := view.Bind(lib.Model()); err != nil {
		return err
	}
	defer lib.Model().Detach(view)

	sortColumn, ascending := cfg.View.SortColumn, cfg.View.Ascending
	if showSort != "" {
		if sortColumn, err = findColumn(columns, showSort); err != nil {
			return err
		}
		ascending = !showDesc
	}
	view.SortBy(sortColumn, ascending)

	top := treemodel.Root
	if len(args) > 0 {
		if top, err = lib.Lookup(args[0]); err != nil {
			return err
		}
	}
	if cfg.View.ExpandAll || top != treemodel.Root {
		view.ExpandAll()
	}

	rows := visibleRows(lib, view, top)
	if jsonOut {
		out := make([]shownRow, 0, len(rows))
		for _, r := range rows {
			values := make(map[string]treemodel.Value, len(columns))
			for i, c := range columns {
				values[c.Title] = r.Values[i]
			}
			out = append(out, shownRow{Path: lib.PathOf(r.Item), Depth: r.Depth, Container: r.Container, Values: values})
		}
		return printJSON(out)
	}

	printInfo("%s\n", renderRows(columns, rows))
	return nil
}

// visibleRows keeps the rows below top, re-based to its depth and cut at
// --depth.
func visibleRows(lib *music.Library, view *treemodel.View, top treemodel.Item) []treemodel.Row {
	base := 0
	if top != treemodel.Root {
		row, _, ok := view.Row(top)
		if !ok {
			return nil
		}
		base = row.Depth + 1
	}

	var out []treemodel.Row
	for _, r := range view.Rows() {
		if top != treemodel.Root && !isBelow(lib.Model(), r.Item, top) {
			continue
		}
		r.Depth -= base
		if showDepth > 0 && r.Depth >= showDepth {
			continue
		}
		out = append(out, r)
	}
	return out
}

func isBelow(m *treemodel.Model, item, ancestor treemodel.Item) bool {
	for p := m.ParentOf(item); !p.IsRoot(); p = m.ParentOf(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}

// cellWidth converts a column width in pixels to terminal cells.
func cellWidth(c treemodel.Column) int {
	return max(c.Width/10, 6)
}

func position(a treemodel.Align) lipgloss.Position {
	switch a {
	case treemodel.AlignCenter:
		return lipgloss.Center
	case treemodel.AlignRight:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

func cell(c treemodel.Column, text string, style lipgloss.Style) string {
	w := cellWidth(c)
	text = runewidth.Truncate(text, w-1, "…")
	return style.Width(w).Align(position(c.Align)).Render(text)
}

func renderRows(columns []treemodel.Column, rows []treemodel.Row) string {
	var b strings.Builder

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = cell(c, c.Title, headerStyle)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	if len(rows) == 0 {
		b.WriteString("\n" + emptyStyle.Render("(empty)"))
		return b.String()
	}

	for _, r := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			text := r.Values[i].String()
			style := lipgloss.NewStyle()
			if i == 0 {
				text = strings.Repeat("  ", r.Depth) + marker(r) + text
				if r.Container {
					style = folderStyle
				}
			} else if r.Values[i].IsEmpty() {
				text, style = "-", emptyStyle
			}
			cells[i] = cell(c, text, style)
		}
		fmt.Fprintf(&b, "\n%s", lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

func marker(r treemodel.Row) string {
	switch {
	case r.Expanded:
		return "▾ "
	case r.Container:
		return "▸ "
	default:
		return "  "
	}
}
