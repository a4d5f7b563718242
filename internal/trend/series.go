// Package trend fits trendlines and computes summary statistics over numeric series.
package trend

import (
	"sort"

	"github.com/pkg/errors"
)

// Point is a single (x, y) observation.
type Point struct {
	X float64
	Y float64
}

// Series is an ordered sequence of points. It may be empty.
type Series []Point

// NewSeries pairs xs and ys into a Series.
func NewSeries(xs, ys []float64) (Series, error) {
	if len(xs) != len(ys) {
		return nil, errors.Errorf("series length mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	out := make(Series, len(xs))
	for i := range xs {
		out[i] = Point{X: xs[i], Y: ys[i]}
	}
	return out, nil
}

// XS returns the x values in order.
func (s Series) XS() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.X
	}
	return out
}

// YS returns the y values in order.
func (s Series) YS() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Y
	}
	return out
}

// Filter keeps the points with start <= x <= end.
func (s Series) Filter(start, end float64) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.X >= start && p.X <= end {
			out = append(out, p)
		}
	}
	return out
}

// DistinctX counts the distinct x values.
func (s Series) DistinctX() int {
	if len(s) == 0 {
		return 0
	}
	xs := s.XS()
	sort.Float64s(xs)
	count := 1
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[i-1] {
			count++
		}
	}
	return count
}

// NormalizeRange returns a and b in ascending order.
func NormalizeRange(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
