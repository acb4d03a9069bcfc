// Package templates holds the templ components of the web frontend and the
// view structs they render. Views are plain strings and flags so the
// components stay free of formatting logic.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/table"
)

// HeaderView is one column header.
type HeaderView struct {
	ColumnID  string
	Label     string
	CanSort   bool
	Indicator string
	Class     string
	AriaSort  string
}

// CellView is one body cell.
type CellView struct {
	Text  string
	Class string
}

// RowView is one body row.
type RowView struct {
	Cells []CellView
}

// NavButton is one of the first/previous/next/last pager buttons.
type NavButton struct {
	Label    string
	Action   string
	Disabled bool
}

// PageButton jumps to a page. Value is the 0-based page index.
type PageButton struct {
	Label   string
	Value   string
	Current bool
}

// SizeOption is one entry of the page-size selector.
type SizeOption struct {
	Label    string
	Value    string
	Selected bool
}

// TableView is everything the table fragment renders.
type TableView struct {
	Seq         string
	Headers     []HeaderView
	Rows        []RowView
	ColumnCount string
	Empty       string

	First    NavButton
	Previous NavButton
	Next     NavButton
	Last     NavButton
	Pages    []PageButton
	Sizes    []SizeOption
	Summary  string
}

// PageView is the full page around the table fragment.
type PageView struct {
	Lang              string
	Title             string
	SearchPlaceholder string
	Search            string
	ExportCSV         string
	ExportPDF         string
	Table             TableView
}

// NewTableView builds the fragment view for a model.
func NewTableView[R any](m *table.Model[R], l *locale.Labels, seq uint64) TableView {
	v := TableView{Seq: strconv.FormatUint(seq, 10), Empty: l.Empty}

	for _, g := range m.HeaderGroups() {
		for _, h := range g.Headers {
			v.Headers = append(v.Headers, headerView(h, l))
		}
	}
	v.ColumnCount = strconv.Itoa(len(v.Headers))

	for _, row := range m.Rows() {
		rv := RowView{Cells: make([]CellView, len(row.Cells))}
		for i, c := range row.Cells {
			rv.Cells[i] = CellView{Text: c.Text, Class: c.Style.String()}
		}
		v.Rows = append(v.Rows, rv)
	}

	canPrev, canNext := m.CanPreviousPage(), m.CanNextPage()
	v.First = NavButton{Label: l.First, Action: string(table.ActionFirstPage), Disabled: !canPrev}
	v.Previous = NavButton{Label: l.Previous, Action: string(table.ActionPreviousPage), Disabled: !canPrev}
	v.Next = NavButton{Label: l.Next, Action: string(table.ActionNextPage), Disabled: !canNext}
	v.Last = NavButton{Label: l.Last, Action: string(table.ActionLastPage), Disabled: !canNext}

	for _, i := range m.PageOptions() {
		v.Pages = append(v.Pages, PageButton{
			Label:   strconv.Itoa(i + 1),
			Value:   strconv.Itoa(i),
			Current: i == m.PageIndex(),
		})
	}
	for _, size := range m.PageSizeOptions() {
		v.Sizes = append(v.Sizes, SizeOption{
			Label:    l.PageSizeLabel(size),
			Value:    strconv.Itoa(size),
			Selected: size == m.PageSize(),
		})
	}

	sum := m.Summary()
	v.Summary = l.SummaryText(sum.First, sum.Last, sum.Total)
	return v
}

func headerView(h table.Header, l *locale.Labels) HeaderView {
	hv := HeaderView{
		ColumnID:  h.ColumnID,
		Label:     h.Label,
		CanSort:   h.CanSort,
		Indicator: l.SortIndicator(string(h.SortDirection)),
		AriaSort:  "none",
	}
	if h.CanSort {
		hv.Class = "sortable"
	}
	switch h.SortDirection {
	case table.SortAsc:
		hv.Class += " asc"
		hv.AriaSort = "ascending"
	case table.SortDesc:
		hv.Class += " desc"
		hv.AriaSort = "descending"
	}
	return hv
}

// NewPageView wraps a table view in the page shell. search is the text to
// show in the search box, which may be ahead of the applied filter.
func NewPageView(tv TableView, l *locale.Labels, search string) PageView {
	return PageView{
		Lang:              l.Locale,
		Title:             l.Title,
		SearchPlaceholder: l.SearchPlaceholder,
		Search:            search,
		ExportCSV:         l.ExportCSV,
		ExportPDF:         l.ExportPDF,
		Table:             tv,
	}
}
