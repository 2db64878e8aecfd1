package pipeline

import (
	"errors"
	"fmt"

	"electarchive/internal"
)

var (
	// ErrMissingFragment marks a year whose file or table structure is absent.
	ErrMissingFragment = errors.New("missing table fragment")
	// ErrShapeMismatch marks a year whose rows disagree with the inferred schema.
	ErrShapeMismatch = errors.New("table shape mismatch")
)

type YearError struct {
	Year  int
	Table internal.TableKind
	Err   error
}

func (e *YearError) Error() string {
	return fmt.Sprintf("%s table %d: %v", e.Table, e.Year, e.Err)
}

func (e *YearError) Unwrap() error {
	return e.Err
}
