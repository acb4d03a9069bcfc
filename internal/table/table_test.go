package table

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name   string
	Age    int
	Status string
}

func people(n int) []person {
	out := make([]person, n)
	for i := range out {
		out[i] = person{
			Name:   fmt.Sprintf("person %d", i+1),
			Age:    20 + (i*7)%30,
			Status: []string{"Activo", "Inactivo"}[i%2],
		}
	}
	return out
}

func personColumns() []Column[person] {
	return []Column[person]{
		{ID: "name", Header: "Nombre", Accessor: func(p person) any { return p.Name }, Style: StyleBold},
		{ID: "age", Header: "edad", Accessor: func(p person) any { return p.Age }, Style: StyleBold},
		{ID: "status", Header: "Estado", Accessor: func(p person) any { return p.Status }, Style: StyleBold},
	}
}

func newTable(t *testing.T, rows []person) *Table[person] {
	t.Helper()
	tbl, err := New(personColumns(), rows, Options{})
	require.NoError(t, err)
	return tbl
}

func reduce(t *testing.T, tbl *Table[person], s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = tbl.Reduce(s, a)
		require.NoError(t, err, "action %s", a.Type)
	}
	return s
}

func names(rows []Row[person]) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Original.Name
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	tbl := newTable(t, people(3))

	s := tbl.InitialState()
	assert.Equal(t, 6, s.Pagination.PageSize)
	assert.Equal(t, 0, s.Pagination.PageIndex)
	assert.Empty(t, s.GlobalFilter)
	assert.Empty(t, s.Sorting)
	assert.Equal(t, []int{6, 10, 20, 25, 50}, tbl.PageSizeOptions())
	assert.Equal(t, 3, tbl.RowCount())
}

func TestNew_InvalidColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column[person]
	}{
		{"missing id", []Column[person]{{Accessor: func(p person) any { return p.Name }}}},
		{"missing accessor", []Column[person]{{ID: "name"}}},
		{"duplicate id", []Column[person]{
			{ID: "name", Accessor: func(p person) any { return p.Name }},
			{ID: "name", Accessor: func(p person) any { return p.Status }},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns, people(1), Options{})
			assert.ErrorIs(t, err, ErrInvalidColumn)
		})
	}
}

func TestNew_InitialPageSizeMustBeOffered(t *testing.T) {
	_, err := New(personColumns(), people(1), Options{PageSizeOptions: []int{10, 20}, InitialPageSize: 6})
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	tbl, err := New(personColumns(), people(1), Options{PageSizeOptions: []int{10, 20}})
	require.NoError(t, err)
	assert.Equal(t, 10, tbl.InitialState().Pagination.PageSize)
}

func TestModel_SevenRowsTwoPages(t *testing.T) {
	tbl := newTable(t, people(7))
	s := tbl.InitialState()

	m := tbl.Model(s)
	assert.Equal(t, 2, m.PageCount())
	assert.Len(t, m.Rows(), 6)
	assert.Equal(t, Summary{First: 1, Last: 6, Total: 7}, m.Summary())
	assert.False(t, m.CanPreviousPage())
	assert.True(t, m.CanNextPage())

	s = reduce(t, tbl, s, Action{Type: ActionNextPage})
	m = tbl.Model(s)
	assert.Equal(t, 1, m.PageIndex())
	assert.Equal(t, []string{"person 7"}, names(m.Rows()))
	assert.Equal(t, Summary{First: 7, Last: 7, Total: 7}, m.Summary())
	assert.True(t, m.CanPreviousPage())
	assert.False(t, m.CanNextPage())
}

func TestModel_PageSizeTwentySinglePage(t *testing.T) {
	tbl := newTable(t, people(7))
	s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionSetPageSize, Size: 20})

	m := tbl.Model(s)
	assert.Equal(t, 1, m.PageCount())
	assert.Equal(t, []int{0}, m.PageOptions())
	assert.False(t, m.CanPreviousPage())
	assert.False(t, m.CanNextPage())
	assert.Equal(t, Summary{First: 1, Last: 7, Total: 7}, m.Summary())
}

func TestModel_NoMatches(t *testing.T) {
	tbl := newTable(t, people(7))
	s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionSetGlobalFilter, Value: "zzz"})

	m := tbl.Model(s)
	assert.Equal(t, 0, m.FilteredRowCount())
	assert.Empty(t, m.Rows())
	assert.Equal(t, 1, m.PageCount())
	assert.Equal(t, Summary{First: 0, Last: 0, Total: 0}, m.Summary())
	assert.False(t, m.CanPreviousPage())
	assert.False(t, m.CanNextPage())
}

func TestModel_EmptyDataset(t *testing.T) {
	tbl := newTable(t, nil)
	s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionLastPage})

	m := tbl.Model(s)
	assert.Equal(t, 0, m.PageIndex())
	assert.Equal(t, 1, m.PageCount())
	assert.Equal(t, Summary{}, m.Summary())
	assert.False(t, m.CanNextPage())
}

func TestModel_SummaryMatchesRowsOnPage(t *testing.T) {
	tbl := newTable(t, people(53))

	for _, size := range tbl.PageSizeOptions() {
		s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionSetPageSize, Size: size})
		count := tbl.Model(s).PageCount()
		for page := 0; page < count; page++ {
			s = reduce(t, tbl, s, Action{Type: ActionSetPageIndex, Index: page})
			m := tbl.Model(s)
			sum := m.Summary()

			rowsOnPage := min(size, 53-page*size)
			require.Len(t, m.Rows(), rowsOnPage, "size=%d page=%d", size, page)
			assert.Equal(t, rowsOnPage, sum.Last-sum.First+1, "size=%d page=%d", size, page)
			assert.Equal(t, page*size+1, sum.First)
			assert.LessOrEqual(t, len(m.Rows()), size)
		}
	}
}

func TestModel_ClampsOutOfRangeIndex(t *testing.T) {
	tbl := newTable(t, people(7))
	s := tbl.InitialState()
	s.Pagination.PageIndex = 40

	m := tbl.Model(s)
	assert.Equal(t, 1, m.PageIndex())
	assert.Equal(t, 1, m.State().Pagination.PageIndex)
}

func TestReduce_SortCycleRoundTrip(t *testing.T) {
	tbl := newTable(t, people(7))
	s := tbl.InitialState()

	want := []SortDirection{SortAsc, SortDesc, SortNone}
	for i, dir := range want {
		s = reduce(t, tbl, s, Action{Type: ActionToggleSorting, Column: "age"})
		assert.Equal(t, dir, s.SortDirection("age"), "click %d", i+1)
	}
	assert.Empty(t, s.Sorting)
	assert.Equal(t, tbl.InitialState(), s)
}

func TestReduce_SortReplacesOtherColumn(t *testing.T) {
	tbl := newTable(t, people(7))
	s := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionToggleSorting, Column: "age"},
		Action{Type: ActionToggleSorting, Column: "age"},
		Action{Type: ActionToggleSorting, Column: "name"},
	)

	assert.Equal(t, []ColumnSort{{ID: "name", Desc: false}}, s.Sorting)
	assert.Equal(t, SortNone, s.SortDirection("age"))
}

func TestReduce_MultiSort(t *testing.T) {
	tbl := newTable(t, people(7))
	s := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionToggleSorting, Column: "status"},
		Action{Type: ActionToggleSorting, Column: "age", Multi: true},
	)
	assert.Equal(t, []ColumnSort{{ID: "status"}, {ID: "age"}}, s.Sorting)

	// Toggling within a multi-sort flips the entry in place.
	s = reduce(t, tbl, s, Action{Type: ActionToggleSorting, Column: "age", Multi: true})
	assert.Equal(t, []ColumnSort{{ID: "status"}, {ID: "age", Desc: true}}, s.Sorting)

	// A third column drops the oldest.
	s = reduce(t, tbl, s, Action{Type: ActionToggleSorting, Column: "name", Multi: true})
	assert.Equal(t, []ColumnSort{{ID: "age", Desc: true}, {ID: "name"}}, s.Sorting)

	// A plain click on a column that is not the last one replaces the sort.
	s = reduce(t, tbl, s, Action{Type: ActionToggleSorting, Column: "age"})
	assert.Equal(t, []ColumnSort{{ID: "age"}}, s.Sorting)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	tbl := newTable(t, people(7))
	s := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionToggleSorting, Column: "status"},
		Action{Type: ActionToggleSorting, Column: "age", Multi: true},
	)
	before := s.clone()

	_ = reduce(t, tbl, s, Action{Type: ActionToggleSorting, Column: "age", Multi: true})
	assert.Equal(t, before, s)
}

func TestModel_SortAgeAscDescReversed(t *testing.T) {
	rows := people(7)
	tbl := newTable(t, rows)

	asc := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionSetPageSize, Size: 20},
		Action{Type: ActionToggleSorting, Column: "age"},
	)
	desc := reduce(t, tbl, asc, Action{Type: ActionToggleSorting, Column: "age"})

	ascNames := names(tbl.Model(asc).Rows())
	descNames := names(tbl.Model(desc).Rows())
	require.Len(t, ascNames, 7)

	for i := range ascNames {
		assert.Equal(t, ascNames[i], descNames[len(descNames)-1-i])
	}

	ages := make([]int, 0, len(rows))
	for _, r := range tbl.Model(asc).Rows() {
		ages = append(ages, r.Original.Age)
	}
	assert.IsNonDecreasing(t, ages)
}

func TestModel_SortTiesKeepDatasetOrder(t *testing.T) {
	rows := []person{
		{Name: "b", Age: 30}, {Name: "a", Age: 20}, {Name: "c", Age: 30}, {Name: "d", Age: 20},
	}
	tbl := newTable(t, rows)

	asc := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionToggleSorting, Column: "age"})
	assert.Equal(t, []string{"a", "d", "b", "c"}, names(tbl.Model(asc).Rows()))

	desc := reduce(t, tbl, asc, Action{Type: ActionToggleSorting, Column: "age"})
	assert.Equal(t, []string{"b", "c", "a", "d"}, names(tbl.Model(desc).Rows()))
}

func TestModel_NaturalSortForMixedText(t *testing.T) {
	tbl := newTable(t, people(12))
	s := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionSetPageSize, Size: 20},
		Action{Type: ActionToggleSorting, Column: "name"},
	)

	got := names(tbl.Model(s).Rows())
	assert.Equal(t, "person 1", got[0])
	assert.Equal(t, "person 2", got[1])
	assert.Equal(t, "person 12", got[11])
}

func TestReduce_FilterResetsPage(t *testing.T) {
	tbl := newTable(t, people(20))
	s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionLastPage})
	require.Equal(t, 3, s.Pagination.PageIndex)

	s = reduce(t, tbl, s, Action{Type: ActionSetGlobalFilter, Value: "inactivo"})
	assert.Equal(t, 0, s.Pagination.PageIndex)
	assert.Equal(t, 10, tbl.Model(s).FilteredRowCount())

	s = reduce(t, tbl, s, Action{Type: ActionNextPage}, Action{Type: ActionToggleSorting, Column: "age"})
	assert.Equal(t, 0, s.Pagination.PageIndex)
}

func TestReduce_Navigation(t *testing.T) {
	tbl := newTable(t, people(20)) // 4 pages of 6

	tests := []struct {
		name   string
		start  int
		action Action
		want   int
	}{
		{"next", 0, Action{Type: ActionNextPage}, 1},
		{"next on last page stays", 3, Action{Type: ActionNextPage}, 3},
		{"previous", 2, Action{Type: ActionPreviousPage}, 1},
		{"previous on first page stays", 0, Action{Type: ActionPreviousPage}, 0},
		{"first", 3, Action{Type: ActionFirstPage}, 0},
		{"last", 0, Action{Type: ActionLastPage}, 3},
		{"jump", 0, Action{Type: ActionSetPageIndex, Index: 2}, 2},
		{"jump past end clamps", 0, Action{Type: ActionSetPageIndex, Index: 9}, 3},
		{"negative jump clamps", 2, Action{Type: ActionSetPageIndex, Index: -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tbl.InitialState()
			s.Pagination.PageIndex = tt.start
			s = reduce(t, tbl, s, tt.action)
			assert.Equal(t, tt.want, s.Pagination.PageIndex)
		})
	}
}

func TestReduce_SetPageSizeKeepsTopRowAndClamps(t *testing.T) {
	tbl := newTable(t, people(53))

	// Page 3 of size 6 starts at row 18; with size 10 that row is on page 1.
	s := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionSetPageIndex, Index: 3},
		Action{Type: ActionSetPageSize, Size: 10},
	)
	assert.Equal(t, 1, s.Pagination.PageIndex)
	assert.Equal(t, 10, s.Pagination.PageSize)

	// With a filter narrowing the rows, the kept index is clamped to the last page.
	s = reduce(t, tbl, tbl.InitialState(), Action{Type: ActionSetGlobalFilter, Value: "person 1"})
	s.Pagination.PageIndex = 2
	s = reduce(t, tbl, s, Action{Type: ActionSetPageSize, Size: 10})
	m := tbl.Model(s)
	assert.Equal(t, m.PageCount()-1, s.Pagination.PageIndex)
}

func TestReduce_Errors(t *testing.T) {
	cols := personColumns()
	cols[2].DisableSorting = true
	tbl, err := New(cols, people(7), Options{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"unknown column", Action{Type: ActionToggleSorting, Column: "height"}, ErrUnknownColumn},
		{"not sortable", Action{Type: ActionToggleSorting, Column: "status"}, ErrColumnNotSortable},
		{"page size not offered", Action{Type: ActionSetPageSize, Size: 7}, ErrInvalidPageSize},
		{"unknown action", Action{Type: "explode"}, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tbl.InitialState()
			next, err := tbl.Reduce(s, tt.action)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, s, next)
		})
	}
}

func TestReduce_Reset(t *testing.T) {
	tbl := newTable(t, people(20))
	s := reduce(t, tbl, tbl.InitialState(),
		Action{Type: ActionSetGlobalFilter, Value: "activo"},
		Action{Type: ActionToggleSorting, Column: "age"},
		Action{Type: ActionSetPageSize, Size: 10},
		Action{Type: ActionReset},
	)
	assert.Equal(t, tbl.InitialState(), s)
}

func TestModel_GlobalFilterColumns(t *testing.T) {
	rows := []person{{Name: "Tanner", Age: 33, Status: "Activo"}, {Name: "Kevin", Age: 27, Status: "Inactivo"}}
	cols := personColumns()
	cols[2].DisableGlobalFilter = true

	var seen []any
	tbl, err := New(cols, rows, Options{
		GlobalFilterFn: func(value any, filter string) FilterResult {
			seen = append(seen, value)
			res := IncludesString(value, filter)
			res.Meta = strings.ToUpper(filter)
			return res
		},
	})
	require.NoError(t, err)

	s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionSetGlobalFilter, Value: "33"})
	m := tbl.Model(s)
	require.Len(t, m.Rows(), 1)
	assert.Equal(t, "Tanner", m.Rows()[0].Original.Name)
	assert.Equal(t, map[string]any{"name": "33", "age": "33"}, m.Rows()[0].FilterMeta)
	assert.NotContains(t, seen, "Activo")

	// Status is excluded from the global filter.
	s = reduce(t, tbl, s, Action{Type: ActionSetGlobalFilter, Value: "inactivo"})
	assert.Zero(t, tbl.Model(s).FilteredRowCount())
}

func TestModel_HeadersCarrySortState(t *testing.T) {
	tbl := newTable(t, people(3))
	s := reduce(t, tbl, tbl.InitialState(), Action{Type: ActionToggleSorting, Column: "age"})

	groups := tbl.Model(s).HeaderGroups()
	require.Len(t, groups, 1)
	headers := groups[0].Headers
	require.Len(t, headers, 3)

	assert.Equal(t, "Nombre", headers[0].Label)
	assert.Equal(t, SortNone, headers[0].SortDirection)
	assert.Equal(t, -1, headers[0].SortIndex)
	assert.Equal(t, SortAsc, headers[1].SortDirection)
	assert.Equal(t, 0, headers[1].SortIndex)
	assert.Equal(t, Action{Type: ActionToggleSorting, Column: "age"}, headers[1].ToggleAction(false))
}

func TestModel_CellsFormatted(t *testing.T) {
	cols := personColumns()
	cols[1].Format = func(v any) string { return fmt.Sprintf("%d años", v) }
	tbl, err := New(cols, []person{{Name: "Ana", Age: 41, Status: "Activo"}}, Options{})
	require.NoError(t, err)

	cells := tbl.Model(tbl.InitialState()).Rows()[0].Cells
	assert.Equal(t, "Ana", cells[0].Text)
	assert.Equal(t, "41 años", cells[1].Text)
	assert.Equal(t, 41, cells[1].Value)
	assert.Equal(t, StyleBold, cells[2].Style)
}

func TestValidate(t *testing.T) {
	cols := personColumns()
	cols[2].DisableSorting = true
	tbl, err := New(cols, people(3), Options{})
	require.NoError(t, err)

	ok := tbl.InitialState()
	ok.Sorting = []ColumnSort{{ID: "age", Desc: true}}
	assert.NoError(t, tbl.Validate(ok))

	bad := ok
	bad.Sorting = []ColumnSort{{ID: "height"}}
	assert.ErrorIs(t, tbl.Validate(bad), ErrUnknownColumn)

	bad = ok
	bad.Sorting = []ColumnSort{{ID: "status"}}
	assert.ErrorIs(t, tbl.Validate(bad), ErrColumnNotSortable)

	bad = ok
	bad.Pagination.PageSize = 3
	assert.ErrorIs(t, tbl.Validate(bad), ErrInvalidPageSize)
}

func TestCompareAlphanumeric(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"row 2", "row 10", -1},
		{"row 10", "row 2", 1},
		{"Row 2", "row 2", 0},
		{"a1", "a1b", -1},
		{"abc", "123", -1},
		{"item 007", "item 7", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, compareAlphanumeric(tt.a, tt.b))
		})
	}
}

func TestCompareText(t *testing.T) {
	assert.Negative(t, compareText("alba", "Bruno"))
	assert.Zero(t, compareText("Linsley", "linsley"))
	assert.Positive(t, compareBasic(33, 4))
	assert.Negative(t, compareBasic(2.5, 10))
}
