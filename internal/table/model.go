package table

import (
	"slices"
)

// Cell is one rendered value.
type Cell struct {
	ColumnID string `json:"column"`
	Value    any    `json:"value"`
	Text     string `json:"text"`
	Style    Style  `json:"-"`
}

// Row is a source row with its cells in column order.
type Row[R any] struct {
	// Index is the row's position in the unfiltered data.
	Index    int
	Original R
	Cells    []Cell

	// FilterMeta holds the global filter's metadata per column id.
	// It is nil when no filter is active.
	FilterMeta map[string]any
}

// Header describes one column header and its sort affordance.
type Header struct {
	ColumnID      string        `json:"id"`
	Label         string        `json:"label"`
	CanSort       bool          `json:"canSort"`
	SortDirection SortDirection `json:"sort,omitempty"`

	// SortIndex is the column's position in a multi-sort, or -1 when unsorted.
	SortIndex int `json:"sortIndex"`
}

// ToggleAction is the action a click on this header dispatches.
func (h Header) ToggleAction(multi bool) Action {
	return Action{Type: ActionToggleSorting, Column: h.ColumnID, Multi: multi}
}

// HeaderGroup is one header row. The engine produces a single flat group.
type HeaderGroup struct {
	ID      string   `json:"id"`
	Headers []Header `json:"headers"`
}

// Summary is the "showing first to last of total" triple, 1-based.
// First and Last are both zero when there are no rows.
type Summary struct {
	First int `json:"first"`
	Last  int `json:"last"`
	Total int `json:"total"`
}

// Model is the derived view of a table for one State.
type Model[R any] struct {
	state        State
	headerGroups []HeaderGroup
	sorted       []Row[R]
	page         []Row[R]
	pageCount    int
	pageSizes    []int
}

// Model computes the filtered, sorted and paginated view for s.
// A page index outside the page range is clamped.
func (t *Table[R]) Model(s State) *Model[R] {
	s = s.clone()
	if s.Pagination.PageSize <= 0 {
		s.Pagination.PageSize = t.opts.InitialPageSize
	}

	filtered := t.filter(s.GlobalFilter)
	sorted := t.sort(filtered, s.Sorting)

	count := pageCount(len(sorted), s.Pagination.PageSize)
	s.Pagination.PageIndex = clampIndex(s.Pagination.PageIndex, count)

	start := min(s.Pagination.PageIndex*s.Pagination.PageSize, len(sorted))
	end := min(start+s.Pagination.PageSize, len(sorted))

	return &Model[R]{
		state:        s,
		headerGroups: t.headerGroups(s),
		sorted:       sorted,
		page:         sorted[start:end:end],
		pageCount:    count,
		pageSizes:    t.opts.PageSizeOptions,
	}
}

func (t *Table[R]) headerGroups(s State) []HeaderGroup {
	headers := make([]Header, len(t.columns))
	for i, col := range t.columns {
		headers[i] = Header{
			ColumnID:      col.ID,
			Label:         col.Header,
			CanSort:       !col.DisableSorting,
			SortDirection: s.SortDirection(col.ID),
			SortIndex:     s.sortIndex(col.ID),
		}
	}
	return []HeaderGroup{{ID: "header", Headers: headers}}
}

// filter returns the rows passing the global filter, with cells built.
// A row passes when any globally filterable column passes.
func (t *Table[R]) filter(query string) []Row[R] {
	out := make([]Row[R], 0, len(t.rows))
	for idx, rec := range t.rows {
		row := t.buildRow(idx, rec)
		if query == "" {
			out = append(out, row)
			continue
		}

		passed := false
		for i, cell := range row.Cells {
			if !t.filterable[i] {
				continue
			}
			res := t.opts.GlobalFilterFn(cell.Value, query)
			if res.Meta != nil {
				if row.FilterMeta == nil {
					row.FilterMeta = make(map[string]any)
				}
				row.FilterMeta[cell.ColumnID] = res.Meta
			}
			passed = passed || res.Passed
		}
		if passed {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table[R]) buildRow(idx int, rec R) Row[R] {
	cells := make([]Cell, len(t.columns))
	for i := range t.columns {
		col := &t.columns[i]
		v := col.Accessor(rec)
		cells[i] = Cell{ColumnID: col.ID, Value: v, Text: col.format(v), Style: col.Style}
	}
	return Row[R]{Index: idx, Original: rec, Cells: cells}
}

// sort orders rows by each sort entry in turn. Desc inverts the
// comparator; full ties keep the original row order.
func (t *Table[R]) sort(rows []Row[R], sorting []ColumnSort) []Row[R] {
	if len(sorting) == 0 {
		return rows
	}

	type key struct {
		col  int
		fn   SortingFn
		desc bool
	}
	keys := make([]key, 0, len(sorting))
	for _, cs := range sorting {
		i, ok := t.byID[cs.ID]
		if !ok || t.columns[i].DisableSorting {
			continue
		}
		keys = append(keys, key{col: i, fn: t.sortFns[i], desc: cs.Desc})
	}

	slices.SortStableFunc(rows, func(a, b Row[R]) int {
		for _, k := range keys {
			c := k.fn(a.Cells[k.col].Value, b.Cells[k.col].Value)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return a.Index - b.Index
	})
	return rows
}

// State returns the state the model was computed for, with the page index clamped.
func (m *Model[R]) State() State { return m.state.clone() }

// HeaderGroups returns the header rows.
func (m *Model[R]) HeaderGroups() []HeaderGroup { return m.headerGroups }

// Rows returns the rows of the current page.
func (m *Model[R]) Rows() []Row[R] { return m.page }

// SortedRows returns every row that passed the filter, in sorted order.
func (m *Model[R]) SortedRows() []Row[R] { return m.sorted }

// FilteredRowCount is the number of rows passing the filter.
func (m *Model[R]) FilteredRowCount() int { return len(m.sorted) }

// PageIndex is the zero-based current page.
func (m *Model[R]) PageIndex() int { return m.state.Pagination.PageIndex }

// PageSize is the number of rows per page.
func (m *Model[R]) PageSize() int { return m.state.Pagination.PageSize }

// PageCount is the number of pages, at least one.
func (m *Model[R]) PageCount() int { return m.pageCount }

// PageOptions lists every page index, 0 to PageCount-1.
func (m *Model[R]) PageOptions() []int {
	opts := make([]int, m.pageCount)
	for i := range opts {
		opts[i] = i
	}
	return opts
}

// PageSizeOptions returns the page sizes the selector offers.
func (m *Model[R]) PageSizeOptions() []int { return slices.Clone(m.pageSizes) }

func (m *Model[R]) CanPreviousPage() bool { return m.state.Pagination.PageIndex > 0 }

func (m *Model[R]) CanNextPage() bool { return m.state.Pagination.PageIndex < m.pageCount-1 }

// Summary returns the 1-based first and last row numbers shown and the filtered total.
func (m *Model[R]) Summary() Summary {
	total := len(m.sorted)
	if len(m.page) == 0 {
		return Summary{Total: total}
	}
	first := m.state.Pagination.PageIndex*m.state.Pagination.PageSize + 1
	return Summary{First: first, Last: first + len(m.page) - 1, Total: total}
}
