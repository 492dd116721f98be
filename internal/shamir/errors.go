package shamir

import (
	"errors"
	"fmt"
	"strings"

	"secret-recovery/internal/radix"
	"secret-recovery/internal/solver"
)

// Common errors
var (
	ErrMissingShare     = errors.New("missing share")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDuplicateShare   = errors.New("duplicate share")
)

// MissingShareError is returned when an input lacks one of the keys "1".."k"
type MissingShareError struct {
	Key string
	K   int
}

func (e *MissingShareError) Error() string {
	return fmt.Sprintf("missing share for key %q, which is required (k=%d)", e.Key, e.K)
}

func (e *MissingShareError) Is(target error) bool { return target == ErrMissingShare }

// InsufficientDataError is returned when fewer than k shares with indices
// 1..k are available
type InsufficientDataError struct {
	Need    int
	Have    int
	Missing []int
}

func (e *InsufficientDataError) Error() string {
	if e.Need < 1 {
		return fmt.Sprintf("insufficient data: threshold must be at least 1, got %d", e.Need)
	}
	if len(e.Missing) == 0 {
		return fmt.Sprintf("insufficient data: need %d shares, have %d", e.Need, e.Have)
	}
	missing := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		missing[i] = fmt.Sprint(m)
	}
	return fmt.Sprintf("insufficient data: need shares 1..%d, have %d, missing %s",
		e.Need, e.Have, strings.Join(missing, ","))
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// DuplicateShareError is returned when two points share an x-coordinate
type DuplicateShareError struct {
	X string
}

func (e *DuplicateShareError) Error() string {
	return fmt.Sprintf("duplicate share at x=%s", e.X)
}

func (e *DuplicateShareError) Is(target error) bool { return target == ErrDuplicateShare }

// ErrorKind names the failure kind of a reconstruction error, or "" when
// err is not one of the reconstruction failures.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, radix.ErrUnsupportedBase):
		return "UnsupportedBaseError"
	case errors.Is(err, radix.ErrInvalidDigit):
		return "InvalidDigitError"
	case errors.Is(err, ErrMissingShare):
		return "MissingShareError"
	case errors.Is(err, solver.ErrSingularMatrix):
		return "SingularMatrixError"
	case errors.Is(err, solver.ErrNonIntegralSolution):
		return "NonIntegralSolutionError"
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientDataError"
	case errors.Is(err, ErrDuplicateShare):
		return "DuplicateShareError"
	case errors.Is(err, solver.ErrDimension):
		return "DimensionError"
	}
	return ""
}
