package seeder

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection means the database could not be reached; the run aborts
	// before any table is touched.
	ErrConnection = errors.New("database connection failed")
	// ErrIntrospection means the table or column catalog query failed.
	ErrIntrospection = errors.New("schema introspection failed")
	// ErrRunInProgress is returned when another run holds the seeder.
	ErrRunInProgress = errors.New("a generation run is already in progress")

	errIncompatibleType = errors.New("incompatible column type")
	errUnknownOverride  = errors.New("unknown override type")
)

// encodeError marks a value that cannot be rendered in text format.
type encodeError struct {
	column string
	value  any
}

func (e *encodeError) Error() string {
	return fmt.Sprintf("cannot encode %T value for column %s", e.value, e.column)
}
