package trend

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// InstabilityThreshold is the Vandermonde condition number above which a
// polynomial fit carries a NumericInstabilityWarning.
const InstabilityThreshold = 1e10

// Kind identifies the model behind a Fit.
type Kind int

const (
	Linear Kind = iota
	Average
	Polynomial
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Average:
		return "average"
	case Polynomial:
		return "polynomial"
	default:
		return "unknown"
	}
}

// Request describes a fit over an x-range.
type Request struct {
	Kind   Kind
	Degree int
	Start  float64
	End    float64
}

// Validate checks the range ordering and the polynomial degree.
func (r Request) Validate() error {
	if r.Start > r.End {
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "start is greater than end"}
	}
	if r.Kind == Polynomial && r.Degree < 2 {
		return errors.Wrapf(ErrInvalidDegree, "polynomial request needs degree >= 2, got %d", r.Degree)
	}
	return nil
}

// Fit is the result of a trendline computation. Which fields are meaningful
// depends on Kind:
//
//	Linear:     Slope, Intercept, RSquared, R
//	Average:    Mean
//	Polynomial: Coefficients (highest power first), RSquared, Warning
type Fit struct {
	Kind         Kind
	Slope        float64
	Intercept    float64
	Mean         float64
	Coefficients []float64
	RSquared     float64
	R            float64
	Warning      *NumericInstabilityWarning
}

// Degree returns the polynomial degree of the fit (0 for Average, 1 for Linear).
func (f Fit) Degree() int {
	switch f.Kind {
	case Linear:
		return 1
	case Polynomial:
		return len(f.Coefficients) - 1
	default:
		return 0
	}
}

// Eval returns the fitted value at x.
func (f Fit) Eval(x float64) float64 {
	switch f.Kind {
	case Linear:
		return f.Slope*x + f.Intercept
	case Average:
		return f.Mean
	default:
		return horner(f.Coefficients, x)
	}
}

func horner(coeffs []float64, x float64) float64 {
	var y float64
	for _, c := range coeffs {
		y = y*x + c
	}
	return y
}

// Compute validates req and dispatches to the matching fit.
func Compute(series Series, req Request) (Fit, error) {
	if err := req.Validate(); err != nil {
		return Fit{}, err
	}
	switch req.Kind {
	case Linear:
		return FitLinear(series)
	case Average:
		return ComputeAverage(series)
	case Polynomial:
		return FitPolynomial(series, req.Degree)
	default:
		return Fit{}, errors.Errorf("unknown fit kind %d", req.Kind)
	}
}

// FitLinear performs ordinary least-squares regression of y on x.
func FitLinear(series Series) (Fit, error) {
	if len(series) < 2 {
		return Fit{}, &InsufficientDataError{Op: "linear fit", Need: 2, Have: len(series)}
	}
	if d := series.DistinctX(); d < 2 {
		return Fit{}, &InsufficientDataError{Op: "linear fit", Need: 2, Have: d, Reason: "all x values are identical"}
	}
	xs, ys := series.XS(), series.YS()
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := Fit{Kind: Linear, Slope: slope, Intercept: intercept}
	var ssTot float64
	fit.RSquared, ssTot = rSquared(series, fit)
	if ssTot > 0 {
		fit.R = math.Copysign(math.Sqrt(math.Max(fit.RSquared, 0)), slope)
	}
	return fit, nil
}

// FitPolynomial fits a least-squares polynomial of the given degree by QR
// decomposition of the Vandermonde matrix. High degrees over wide x-ranges
// produce ill-conditioned systems; such fits carry a Warning instead of
// failing.
func FitPolynomial(series Series, degree int) (Fit, error) {
	if degree < 1 {
		return Fit{}, errors.Wrapf(ErrInvalidDegree, "got %d", degree)
	}
	if d := series.DistinctX(); d < degree+1 {
		return Fit{}, &InsufficientDataError{
			Op:     "polynomial fit",
			Need:   degree + 1,
			Have:   d,
			Reason: "not enough distinct x values",
		}
	}

	a := vandermonde(series.XS(), degree)
	b := mat.NewDense(len(series), 1, series.YS())
	c := mat.NewDense(degree+1, 1, nil)

	var qr mat.QR
	qr.Factorize(a)
	var warning *NumericInstabilityWarning
	if err := qr.SolveTo(c, false, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return Fit{}, errors.Wrap(err, "polynomial fit")
		}
		warning = &NumericInstabilityWarning{Condition: float64(cond)}
	}
	if warning == nil {
		if cond := mat.Cond(a, 2); cond > InstabilityThreshold {
			warning = &NumericInstabilityWarning{Condition: cond}
		}
	}

	// c holds the constant term first; Fit stores the highest power first.
	coeffs := make([]float64, degree+1)
	for i := 0; i <= degree; i++ {
		coeffs[degree-i] = c.At(i, 0)
	}
	fit := Fit{Kind: Polynomial, Coefficients: coeffs, Warning: warning}
	fit.RSquared, _ = rSquared(series, fit)
	return fit, nil
}

func vandermonde(xs []float64, degree int) *mat.Dense {
	v := mat.NewDense(len(xs), degree+1, nil)
	for i, x := range xs {
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*x {
			v.Set(i, j, p)
		}
	}
	return v
}

// rSquared returns 1 - SS_res/SS_tot for the fit's predictions along with
// SS_tot. A constant series (SS_tot == 0) is reported as a perfect fit.
func rSquared(series Series, fit Fit) (float64, float64) {
	mean := stat.Mean(series.YS(), nil)
	var ssRes, ssTot float64
	for _, p := range series {
		r := p.Y - fit.Eval(p.X)
		d := p.Y - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		return 1, 0
	}
	return 1 - ssRes/ssTot, ssTot
}
