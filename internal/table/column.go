package table

import "fmt"

// Style tells a renderer how to present a cell.
type Style int

const (
	StylePlain Style = iota
	StyleBold
)

// String returns the CSS-friendly name of the style.
func (s Style) String() string {
	switch s {
	case StyleBold:
		return "bold"
	default:
		return "plain"
	}
}

// SortingFn compares two cell values of the same column ascending.
// It returns a negative number when a sorts before b, positive when after,
// and zero when they are equal.
type SortingFn func(a, b any) int

// Column declares how a field of R is extracted, labelled, sorted and shown.
// Columns are displayed in the order they are passed to New.
type Column[R any] struct {
	ID       string
	Header   string
	Accessor func(R) any

	// SortingFn overrides the comparator inferred from the first row.
	SortingFn SortingFn

	Style Style

	// Format renders a value as cell text. Defaults to fmt.Sprint.
	Format func(any) string

	DisableSorting      bool
	DisableGlobalFilter bool
}

func (c *Column[R]) format(v any) string {
	if c.Format != nil {
		return c.Format(v)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
