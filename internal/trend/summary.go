package trend

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics over the y values of a series.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// ComputeSummary returns min, max, mean and sample standard deviation (n-1
// divisor) of the series' y values. StdDev is NaN for a single point.
func ComputeSummary(series Series) (Summary, error) {
	if len(series) == 0 {
		return Summary{}, &InsufficientDataError{Op: "summary", Need: 1, Have: 0}
	}
	ys := series.YS()
	sum := Summary{
		Count: len(ys),
		Min:   floats.Min(ys),
		Max:   floats.Max(ys),
	}
	if len(ys) == 1 {
		sum.Mean = ys[0]
		sum.StdDev = math.NaN()
		return sum, nil
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(ys, nil)
	// Rounding in the sum can push the mean of near-identical values just outside [min, max].
	sum.Mean = math.Max(sum.Min, math.Min(sum.Max, sum.Mean))
	return sum, nil
}

// ComputeAverage fits a constant line at the mean of the y values.
func ComputeAverage(series Series) (Fit, error) {
	if len(series) == 0 {
		return Fit{}, &InsufficientDataError{Op: "average", Need: 1, Have: 0}
	}
	return Fit{Kind: Average, Mean: stat.Mean(series.YS(), nil)}, nil
}
