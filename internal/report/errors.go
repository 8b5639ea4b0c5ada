package report

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a required single-row lookup (profile)
	// matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCategory is returned for a fee category outside
	// tuition, hostel and transport.
	ErrInvalidCategory = errors.New("invalid fee category")

	// ErrInvalidSemester is returned for a semester outside 1..8.
	ErrInvalidSemester = errors.New("invalid semester")
)

// DataAccessError reports that the underlying fetch failed.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("report.%s: data access: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}
