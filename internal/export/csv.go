package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvFlushInterval is how many rows are buffered between flushes.
const csvFlushInterval = 1000

// WriteCSV writes the header row followed by every data row.
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.Headers); err != nil {
		return fmt.Errorf("%w: csv header: %w", ErrExportFailed, err)
	}

	for i, row := range s.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: csv row %d: %w", ErrExportFailed, i+1, err)
		}
		if (i+1)%csvFlushInterval == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("%w: csv flush: %w", ErrExportFailed, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: csv flush: %w", ErrExportFailed, err)
	}
	return nil
}
