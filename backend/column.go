package treemodel

import "fmt"

// Align is the horizontal alignment of a column.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign accepts "left", "center" and "right". An empty string is left.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("unknown alignment %q", s)
	}
}

func (a Align) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Align) UnmarshalText(text []byte) error {
	v, err := ParseAlign(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Column describes one column of a model as configured on a display surface.
type Column struct {
	Index    int       `json:"index"`
	Title    string    `json:"title"`
	Width    int       `json:"width"`
	Align    Align     `json:"align"`
	Editable bool      `json:"editable"`
	Type     ValueType `json:"type"`
}

// checkColumns verifies that columns are numbered 0..n-1 in order.
func checkColumns(columns []Column) error {
	for i, c := range columns {
		if c.Index != i {
			return fmt.Errorf("column %q has index %d at position %d: %w", c.Title, c.Index, i, ErrColumnMismatch)
		}
	}
	return nil
}

// MatchColumns verifies that a display surface's configured columns line up
// with a model's: same count, and the same index and type at each position.
// Titles, widths and alignment are presentation and may differ.
func MatchColumns(model, surface []Column) error {
	if len(model) != len(surface) {
		return fmt.Errorf("model has %d columns, surface has %d: %w", len(model), len(surface), ErrColumnMismatch)
	}
	for i := range model {
		if model[i].Index != surface[i].Index || model[i].Type != surface[i].Type {
			return fmt.Errorf("column %d (%q) does not match surface column %q: %w",
				i, model[i].Title, surface[i].Title, ErrColumnMismatch)
		}
	}
	return nil
}
