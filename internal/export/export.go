// Package export writes the rows of a table view to downloadable files.
// Exports contain every row that passes the current filter, in the current
// sort order, not just the visible page.
package export

import (
	"errors"

	"github.com/JonMunkholm/datetable/internal/table"
)

// ErrExportFailed wraps any error raised while writing an export.
var ErrExportFailed = errors.New("export failed")

// Sheet is a rectangular snapshot of a table ready to be written.
type Sheet struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// FromModel snapshots every sorted row of m using each cell's display text.
func FromModel[R any](title string, m *table.Model[R]) Sheet {
	var headers []string
	for _, g := range m.HeaderGroups() {
		for _, h := range g.Headers {
			headers = append(headers, h.Label)
		}
	}

	sorted := m.SortedRows()
	rows := make([][]string, len(sorted))
	for i, row := range sorted {
		rec := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			rec[j] = c.Text
		}
		rows[i] = rec
	}

	return Sheet{Title: title, Headers: headers, Rows: rows}
}
