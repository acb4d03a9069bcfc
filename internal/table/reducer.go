package table

import (
	"fmt"
	"slices"
)

// ActionType names a state transition.
type ActionType string

const (
	ActionSetGlobalFilter ActionType = "set_global_filter"
	ActionToggleSorting   ActionType = "toggle_sorting"
	ActionSetPageIndex    ActionType = "set_page_index"
	ActionFirstPage       ActionType = "first_page"
	ActionPreviousPage    ActionType = "previous_page"
	ActionNextPage        ActionType = "next_page"
	ActionLastPage        ActionType = "last_page"
	ActionSetPageSize     ActionType = "set_page_size"
	ActionReset           ActionType = "reset"
)

// Action is a user intent. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType `json:"type"`
	Column string     `json:"column,omitempty"` // toggle_sorting
	Value  string     `json:"value,omitempty"`  // set_global_filter
	Index  int        `json:"index,omitempty"`  // set_page_index
	Size   int        `json:"size,omitempty"`   // set_page_size
	Multi  bool       `json:"multi,omitempty"`  // toggle_sorting: add to the sort instead of replacing it
}

// Reduce returns the state that results from applying a to s.
// It does not modify s. Filter and sort changes return to the first page;
// the returned page index is always within the page range.
func (t *Table[R]) Reduce(s State, a Action) (State, error) {
	next := s.clone()
	if next.Pagination.PageSize <= 0 {
		next.Pagination.PageSize = t.opts.InitialPageSize
	}

	switch a.Type {
	case ActionSetGlobalFilter:
		if next.GlobalFilter != a.Value {
			next.GlobalFilter = a.Value
			next.Pagination.PageIndex = 0
		}

	case ActionToggleSorting:
		if err := t.checkSortable(a.Column); err != nil {
			return s, err
		}
		next.Sorting = t.toggleSorting(next.Sorting, a.Column, a.Multi)
		next.Pagination.PageIndex = 0

	case ActionSetPageIndex:
		next.Pagination.PageIndex = a.Index

	case ActionFirstPage:
		next.Pagination.PageIndex = 0

	case ActionPreviousPage:
		next.Pagination.PageIndex--

	case ActionNextPage:
		next.Pagination.PageIndex++

	case ActionLastPage:
		next.Pagination.PageIndex = t.pageCountFor(next) - 1

	case ActionSetPageSize:
		if !slices.Contains(t.opts.PageSizeOptions, a.Size) {
			return s, fmt.Errorf("%w: %d", ErrInvalidPageSize, a.Size)
		}
		// Keep the row that was at the top of the page visible.
		topRow := next.Pagination.PageSize * next.Pagination.PageIndex
		next.Pagination.PageSize = a.Size
		next.Pagination.PageIndex = topRow / a.Size

	case ActionReset:
		return t.InitialState(), nil

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}

	next.Pagination.PageIndex = clampIndex(next.Pagination.PageIndex, t.pageCountFor(next))
	return next, nil
}

// toggleSorting advances the sort of column id through asc, desc and removed.
// A plain toggle replaces any other sorted column unless id is the last
// sorted column; a multi toggle appends and drops the oldest entries beyond
// the multi-sort cap.
func (t *Table[R]) toggleSorting(sorting []ColumnSort, id string, multi bool) []ColumnSort {
	existing := -1
	for i, cs := range sorting {
		if cs.ID == id {
			existing = i
			break
		}
	}

	nextDesc, remove := false, false
	if existing >= 0 {
		if sorting[existing].Desc {
			remove = true
		} else {
			nextDesc = true
		}
	}

	if !multi {
		if len(sorting) > 0 && existing != len(sorting)-1 {
			// Another column was last sorted: start this one fresh.
			return []ColumnSort{{ID: id, Desc: nextDesc}}
		}
		if existing < 0 {
			return []ColumnSort{{ID: id}}
		}
	}

	switch {
	case existing < 0:
		sorting = append(sorting, ColumnSort{ID: id})
		if over := len(sorting) - t.opts.MaxMultiSortColumns; over > 0 {
			sorting = sorting[over:]
		}
	case remove:
		sorting = slices.Delete(sorting, existing, existing+1)
	default:
		sorting[existing].Desc = nextDesc
	}

	if len(sorting) == 0 {
		return nil
	}
	return sorting
}

func (t *Table[R]) pageCountFor(s State) int {
	return pageCount(len(t.filter(s.GlobalFilter)), s.Pagination.PageSize)
}
