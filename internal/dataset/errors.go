package dataset

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is matched by errors.Is when the requested file does not exist.
var ErrSourceNotFound = errors.New("source not found")

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported dataset format")

// SourceError reports a data source that could not be opened.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e == nil {
		return "source error"
	}
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// TableError indicates the SQLite table to load could not be determined.
type TableError struct {
	Path      string
	Requested string
	Available []string
}

func (e *TableError) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("table %q not found in %s (available: %v)", e.Requested, e.Path, e.Available)
	}
	if len(e.Available) == 0 {
		return fmt.Sprintf("no tables in %s", e.Path)
	}
	return fmt.Sprintf("%s has %d tables, choose one with --table: %v", e.Path, len(e.Available), e.Available)
}
