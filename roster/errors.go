/*
errors.go - Error types for the roster engine

ERROR CATEGORIES:
  1. Structural errors - the snapshot cannot be evaluated at all
  2. Selection errors - the repair workflow asked for a violation that
     does not exist
  3. Store errors - host-side persistence lookups

Data-quality gaps are NOT errors. They surface as violations or as nil/zero
results.
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNilSnapshot is returned when a nil snapshot is handed to the engine.
	ErrNilSnapshot = errors.New("nil roster snapshot")

	// ErrMissingPrograms is returned when the program list is absent.
	ErrMissingPrograms = errors.New("roster snapshot has no program list")

	// ErrMalformedProgramDate is returned when a daily program date does not parse.
	ErrMalformedProgramDate = errors.New("malformed program date")

	// ErrDuplicateProgramDate is returned when two programs claim the same date.
	ErrDuplicateProgramDate = errors.New("duplicate program date")

	// ErrInvalidWindow is returned when a window is empty, malformed or
	// longer than MaxWindowDays.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrSelectionOutOfRange is returned when a repair selection index does
	// not address a violation.
	ErrSelectionOutOfRange = errors.New("violation index out of range")

	// ErrSnapshotNotFound is returned by stores for unknown roster ids.
	ErrSnapshotNotFound = errors.New("roster snapshot not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ProgramDateError reports which program broke the one-program-per-date rule.
type ProgramDateError struct {
	Index    int
	Date     string
	Previous int // index of the earlier program for duplicates
	Err      error
}

func (e *ProgramDateError) Error() string {
	if errors.Is(e.Err, ErrDuplicateProgramDate) {
		return fmt.Sprintf("program %d: %v %q (already at %d)", e.Index, e.Err, e.Date, e.Previous)
	}
	return fmt.Sprintf("program %d: %v %q", e.Index, e.Err, e.Date)
}

func (e *ProgramDateError) Unwrap() error {
	return e.Err
}

// SelectionError reports an out-of-range violation index.
type SelectionError struct {
	Index int
	Len   int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("violation index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *SelectionError) Unwrap() error {
	return ErrSelectionOutOfRange
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNilSnapshot) ||
		errors.Is(err, ErrMissingPrograms) ||
		errors.Is(err, ErrMalformedProgramDate) ||
		errors.Is(err, ErrDuplicateProgramDate) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrSelectionOutOfRange)
}

// IsNotFound returns true if the error indicates a missing roster.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}
