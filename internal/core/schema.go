package core

import (
	"fmt"

	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/locale"
	"github.com/JonMunkholm/datetable/internal/rank"
	"github.com/JonMunkholm/datetable/internal/table"
)

// Column ids of the people table, in display order.
const (
	ColumnName     = "name"
	ColumnLastName = "lastName"
	ColumnAge      = "age"
	ColumnStatus   = "status"
)

// PeopleColumns is the column schema of the people table. Headers come from labels.
func PeopleColumns(labels *locale.Labels) []table.Column[dataset.Record] {
	return []table.Column[dataset.Record]{
		{
			ID:       ColumnName,
			Header:   labels.Header(ColumnName),
			Accessor: func(r dataset.Record) any { return r.Name },
			Style:    table.StyleBold,
		},
		{
			ID:       ColumnLastName,
			Header:   labels.Header(ColumnLastName),
			Accessor: func(r dataset.Record) any { return r.LastName },
			Style:    table.StyleBold,
		},
		{
			ID:       ColumnAge,
			Header:   labels.Header(ColumnAge),
			Accessor: func(r dataset.Record) any { return r.Age },
			Style:    table.StyleBold,
		},
		{
			ID:       ColumnStatus,
			Header:   labels.Header(ColumnStatus),
			Accessor: func(r dataset.Record) any { return r.Status },
			Style:    table.StyleBold,
		},
	}
}

// FuzzyFilter adapts rank.Item to a table filter. The cell's Ranking is
// kept as the row's filter metadata.
func FuzzyFilter(opts ...rank.Option) table.FilterFn {
	return func(value any, filter string) table.FilterResult {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case nil:
		default:
			s = fmt.Sprint(v)
		}
		r := rank.Item(s, filter, opts...)
		return table.FilterResult{Passed: r.Passed, Meta: r}
	}
}
