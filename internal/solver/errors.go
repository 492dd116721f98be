package solver

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrSingularMatrix      = errors.New("singular matrix")
	ErrNonIntegralSolution = errors.New("non-integral solution")
	ErrDimension           = errors.New("dimension mismatch")
)

// SingularMatrixError reports a pivot column with no non-zero candidate
// at or below the current row.
type SingularMatrixError struct {
	Column int
	Size   int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular matrix: no non-zero pivot in column %d of %dx%d system", e.Column, e.Size, e.Size)
}

func (e *SingularMatrixError) Is(target error) bool { return target == ErrSingularMatrix }

// NonIntegralSolutionError reports a back-substitution step that does not
// divide evenly, i.e. the system has no integer solution.
type NonIntegralSolutionError struct {
	Row         int
	Numerator   string
	Denominator string
}

func (e *NonIntegralSolutionError) Error() string {
	return fmt.Sprintf("non-integral solution at row %d: %s / %s", e.Row, e.Numerator, e.Denominator)
}

func (e *NonIntegralSolutionError) Is(target error) bool { return target == ErrNonIntegralSolution }

// DimensionError reports a malformed system
type DimensionError struct {
	Reason string
}

func (e *DimensionError) Error() string {
	return "dimension mismatch: " + e.Reason
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }
