package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is wrapped by DataLoadError when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyFile is wrapped by DataLoadError when the file has no header row.
	ErrEmptyFile = errors.New("file is empty")
)

// DataLoadError reports a file that cannot be loaded at all.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// SchemaError reports a row whose values do not fit the record schema.
// Row is the 1-based line number in the file, the header being line 1.
type SchemaError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: column %s: %q %s", e.Row, e.Column, e.Value, e.Reason)
}
