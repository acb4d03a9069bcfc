package table

import "errors"

// Errors returned by New and Reduce.
var (
	// ErrUnknownColumn is returned when an action names a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrColumnNotSortable is returned when toggling sort on a column with sorting disabled.
	ErrColumnNotSortable = errors.New("column is not sortable")

	// ErrInvalidPageSize is returned when a page size is not one of the offered options.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrUnknownAction is returned for an action type the reducer does not handle.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidColumn is returned by New for a malformed column definition.
	ErrInvalidColumn = errors.New("invalid column definition")
)
