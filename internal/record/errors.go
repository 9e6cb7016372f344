package record

import (
	"errors"
	"fmt"
)

// ErrEmptyExport is returned when an export is requested with no records.
var ErrEmptyExport = errors.New("No records to export.")

// ValidationError reports missing required fields at creation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError reports an unknown record id on update or delete.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Record with ID %s not found.", e.ID)
}
