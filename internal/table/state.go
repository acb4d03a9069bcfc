package table

// SortDirection is the sort applied to one column.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ColumnSort is one entry of the sort order.
type ColumnSort struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// Direction returns asc or desc.
func (c ColumnSort) Direction() SortDirection {
	if c.Desc {
		return SortDesc
	}
	return SortAsc
}

// Pagination is the requested page window.
type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// State is everything a user can change about the table view.
// It is a value: Reduce returns a new State and never mutates its input.
type State struct {
	GlobalFilter string       `json:"globalFilter"`
	Sorting      []ColumnSort `json:"sorting"`
	Pagination   Pagination   `json:"pagination"`
}

// SortDirection reports how the column with the given id is sorted.
func (s State) SortDirection(id string) SortDirection {
	for _, cs := range s.Sorting {
		if cs.ID == id {
			return cs.Direction()
		}
	}
	return SortNone
}

// sortIndex returns the position of id in the sort order, or -1.
func (s State) sortIndex(id string) int {
	for i, cs := range s.Sorting {
		if cs.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	next := s
	if s.Sorting != nil {
		next.Sorting = append([]ColumnSort(nil), s.Sorting...)
	}
	return next
}
