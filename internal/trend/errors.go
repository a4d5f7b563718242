package trend

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidDegree is returned when a polynomial degree is below 1.
var ErrInvalidDegree = errors.New("polynomial degree must be >= 1")

// InsufficientDataError reports that a series has too few points (or too few
// distinct x values) for the requested computation.
type InsufficientDataError struct {
	Op     string
	Need   int
	Have   int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: insufficient data: %s (need %d, have %d)", e.Op, e.Reason, e.Need, e.Have)
	}
	return fmt.Sprintf("%s: insufficient data (need %d, have %d)", e.Op, e.Need, e.Have)
}

// InvalidRangeError reports a reversed x-range or too few curve samples.
type InvalidRangeError struct {
	Start   float64
	End     float64
	Samples int
	Reason  string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%g, %g]: %s", e.Start, e.End, e.Reason)
}

// NumericInstabilityWarning flags a polynomial fit whose design matrix is
// poorly conditioned. The fit is still returned; its coefficients may be
// dominated by rounding error.
type NumericInstabilityWarning struct {
	Condition float64
}

func (w *NumericInstabilityWarning) Error() string {
	return fmt.Sprintf("polynomial fit is numerically unstable (condition number %.3g); consider a lower degree or rescaling x", w.Condition)
}
