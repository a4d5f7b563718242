package trend

import (
	"fmt"
	"math"
	"strings"
)

// FormatEquation renders the fit as a human-readable equation with the given
// number of decimals per coefficient.
func FormatEquation(fit Fit, precision int) string {
	if precision < 0 {
		precision = 0
	}
	switch fit.Kind {
	case Linear:
		return "y = " + formatTerms([]float64{fit.Slope, fit.Intercept}, precision)
	case Average:
		return fmt.Sprintf("y = %.*f", precision, fit.Mean)
	default:
		return "y = " + formatTerms(fit.Coefficients, precision)
	}
}

func formatTerms(coeffs []float64, precision int) string {
	degree := len(coeffs) - 1
	var b strings.Builder
	for i, c := range coeffs {
		power := degree - i
		if i == 0 {
			fmt.Fprintf(&b, "%.*f", precision, c)
		} else {
			sign := "+"
			if math.Signbit(c) {
				sign = "-"
			}
			fmt.Fprintf(&b, " %s %.*f", sign, precision, math.Abs(c))
		}
		b.WriteString(termSuffix(power, degree))
	}
	return b.String()
}

func termSuffix(power, degree int) string {
	switch {
	case power == 0:
		return ""
	case degree == 1:
		return "x"
	case power == 1:
		return "*x"
	default:
		return fmt.Sprintf("*x^%d", power)
	}
}
