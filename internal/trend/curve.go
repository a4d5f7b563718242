package trend

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultSamples is the number of points used to draw a polynomial curve.
const DefaultSamples = 100

// RenderCurve samples the fitted model over [xStart, xEnd]. Linear and
// Average fits are straight, so only the two endpoints are returned; a
// polynomial is evaluated at samples evenly spaced x values, both ends
// included.
func RenderCurve(fit Fit, xStart, xEnd float64, samples int) ([]Point, error) {
	if xStart > xEnd {
		return nil, &InvalidRangeError{Start: xStart, End: xEnd, Samples: samples, Reason: "start is greater than end"}
	}
	if samples < 2 {
		return nil, &InvalidRangeError{Start: xStart, End: xEnd, Samples: samples, Reason: "need at least 2 samples"}
	}
	if fit.Kind != Polynomial {
		return []Point{
			{X: xStart, Y: fit.Eval(xStart)},
			{X: xEnd, Y: fit.Eval(xEnd)},
		}, nil
	}
	xs := floats.Span(make([]float64, samples), xStart, xEnd)
	out := make([]Point, samples)
	for i, x := range xs {
		out[i] = Point{X: x, Y: fit.Eval(x)}
	}
	return out, nil
}
