package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrSchema indicates the input table is missing a required column
	ErrSchema = errors.New("dataset schema is invalid")

	// ErrMalformedDuration indicates a duration string has no leading number
	ErrMalformedDuration = errors.New("malformed duration")

	// ErrEmptyResult indicates the active filters matched no records.
	// It is informational: callers render "no data" instead of failing.
	ErrEmptyResult = errors.New("no records match the current filters")

	// ErrDatasetNotLoaded indicates an operation needed a loaded dataset
	ErrDatasetNotLoaded = errors.New("dataset is not loaded")

	// ErrNoMatch indicates a name could not be resolved against the known values
	ErrNoMatch = errors.New("no matching value")

	// ErrUnsupportedFormat indicates an export path with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// SchemaError reports required columns absent from the raw table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// MalformedDurationError reports a duration string without a leading integer.
type MalformedDurationError struct {
	Title string // Title of the offending record
	Raw   string // Duration text as it appeared in the dataset
}

func (e *MalformedDurationError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("malformed duration %q", e.Raw)
	}
	return fmt.Sprintf("malformed duration %q for %q", e.Raw, e.Title)
}

func (e *MalformedDurationError) Unwrap() error { return ErrMalformedDuration }
