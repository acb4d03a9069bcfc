// Package table is an in-memory table state engine: it filters, sorts and
// paginates a fixed set of rows according to a State value, and produces
// the header and row view models a renderer needs.
//
// State changes go through Reduce, a pure function, so callers can keep the
// current State wherever they like and swap it atomically.
package table

import (
	"fmt"
	"slices"
	"strings"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultPageSize            = 6
	DefaultMaxMultiSortColumns = 2
)

// DefaultPageSizeOptions are the page sizes offered when Options leaves them unset.
var DefaultPageSizeOptions = []int{6, 10, 20, 25, 50}

// FilterResult is the outcome of testing one cell against the global filter.
// Meta is kept on the row so a renderer can highlight why it matched.
type FilterResult struct {
	Passed bool
	Meta   any
}

// FilterFn tests a cell value against the global filter text.
type FilterFn func(value any, filter string) FilterResult

// IncludesString passes values whose text contains the filter, ignoring case.
func IncludesString(value any, filter string) FilterResult {
	return FilterResult{
		Passed: strings.Contains(strings.ToLower(toString(value)), strings.ToLower(filter)),
	}
}

// Options tunes a Table.
type Options struct {
	// GlobalFilterFn decides whether a cell matches the global filter.
	// Defaults to IncludesString.
	GlobalFilterFn FilterFn

	// PageSizeOptions are the sizes set_page_size accepts.
	PageSizeOptions []int

	// InitialPageSize is the page size of InitialState. It must be one of PageSizeOptions.
	InitialPageSize int

	// MaxMultiSortColumns caps how many columns a multi-sort keeps.
	MaxMultiSortColumns int
}

// Table holds rows and the column schema. It is immutable after New and
// safe for concurrent use.
type Table[R any] struct {
	columns []Column[R]
	rows    []R
	opts    Options

	byID       map[string]int
	sortFns    []SortingFn
	filterable []bool
}

// New builds a table over rows. Sorting functions and global filterability
// are inferred from the first row when the column does not set them.
func New[R any](columns []Column[R], rows []R, opts Options) (*Table[R], error) {
	if opts.GlobalFilterFn == nil {
		opts.GlobalFilterFn = IncludesString
	}
	if len(opts.PageSizeOptions) == 0 {
		opts.PageSizeOptions = DefaultPageSizeOptions
	}
	opts.PageSizeOptions = slices.Clone(opts.PageSizeOptions)
	if opts.InitialPageSize == 0 {
		opts.InitialPageSize = opts.PageSizeOptions[0]
		if slices.Contains(opts.PageSizeOptions, DefaultPageSize) {
			opts.InitialPageSize = DefaultPageSize
		}
	}
	if opts.MaxMultiSortColumns <= 0 {
		opts.MaxMultiSortColumns = DefaultMaxMultiSortColumns
	}
	for _, size := range opts.PageSizeOptions {
		if size <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
		}
	}
	if !slices.Contains(opts.PageSizeOptions, opts.InitialPageSize) {
		return nil, fmt.Errorf("%w: initial size %d is not offered", ErrInvalidPageSize, opts.InitialPageSize)
	}

	t := &Table[R]{
		columns:    slices.Clone(columns),
		rows:       rows,
		opts:       opts,
		byID:       make(map[string]int, len(columns)),
		sortFns:    make([]SortingFn, len(columns)),
		filterable: make([]bool, len(columns)),
	}

	for i := range t.columns {
		col := &t.columns[i]
		if col.ID == "" {
			return nil, fmt.Errorf("%w: column %d has no id", ErrInvalidColumn, i)
		}
		if col.Accessor == nil {
			return nil, fmt.Errorf("%w: column %q has no accessor", ErrInvalidColumn, col.ID)
		}
		if _, dup := t.byID[col.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate column id %q", ErrInvalidColumn, col.ID)
		}
		t.byID[col.ID] = i

		var sample any
		if len(rows) > 0 {
			sample = col.Accessor(rows[0])
		}

		t.sortFns[i] = col.SortingFn
		if t.sortFns[i] == nil {
			t.sortFns[i] = inferSortingFn(sample)
		}

		_, isString := sample.(string)
		t.filterable[i] = !col.DisableGlobalFilter && (isString || isNumber(sample))
	}

	return t, nil
}

// Columns returns the column definitions in display order.
func (t *Table[R]) Columns() []Column[R] {
	return slices.Clone(t.columns)
}

// Column looks up a column by id.
func (t *Table[R]) Column(id string) (Column[R], bool) {
	i, ok := t.byID[id]
	if !ok {
		return Column[R]{}, false
	}
	return t.columns[i], true
}

// RowCount is the number of rows before filtering.
func (t *Table[R]) RowCount() int {
	return len(t.rows)
}

// PageSizeOptions returns the page sizes set_page_size accepts.
func (t *Table[R]) PageSizeOptions() []int {
	return slices.Clone(t.opts.PageSizeOptions)
}

// InitialState is the state of a freshly opened table: first page,
// initial page size, no filter and no sort.
func (t *Table[R]) InitialState() State {
	return State{
		Pagination: Pagination{PageIndex: 0, PageSize: t.opts.InitialPageSize},
	}
}

// Validate reports whether s only refers to known, sortable columns and an
// offered page size. Out-of-range page indexes are not an error; Model clamps them.
func (t *Table[R]) Validate(s State) error {
	if len(s.Sorting) > t.opts.MaxMultiSortColumns {
		return fmt.Errorf("%w: %d sort columns, at most %d allowed",
			ErrColumnNotSortable, len(s.Sorting), t.opts.MaxMultiSortColumns)
	}
	seen := make(map[string]bool, len(s.Sorting))
	for _, cs := range s.Sorting {
		if err := t.checkSortable(cs.ID); err != nil {
			return err
		}
		if seen[cs.ID] {
			return fmt.Errorf("%w: %q sorted twice", ErrColumnNotSortable, cs.ID)
		}
		seen[cs.ID] = true
	}
	if !slices.Contains(t.opts.PageSizeOptions, s.Pagination.PageSize) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, s.Pagination.PageSize)
	}
	return nil
}

func (t *Table[R]) checkSortable(id string) error {
	i, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	if t.columns[i].DisableSorting {
		return fmt.Errorf("%w: %q", ErrColumnNotSortable, id)
	}
	return nil
}

// pageCount is ceil(rows/size), never less than one.
func pageCount(rows, size int) int {
	if size <= 0 || rows <= 0 {
		return 1
	}
	return (rows + size - 1) / size
}

func clampIndex(index, count int) int {
	return max(0, min(index, count-1))
}
