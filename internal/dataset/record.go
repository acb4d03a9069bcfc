// Package dataset provides the rows shown by the table and the sources they
// are loaded from. Rows are read once at startup and treated as immutable
// for the lifetime of the process.
package dataset

import "fmt"

// Record is one row of the table.
type Record struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Age      int    `json:"age"`
	Status   string `json:"status"`
}

// String returns a compact representation for logs and test failures.
func (r Record) String() string {
	return fmt.Sprintf("%s %s (%d, %s)", r.Name, r.LastName, r.Age, r.Status)
}
