package trend

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummaryConstant(t *testing.T) {
	s := Series{{0, 5}, {1, 5}, {2, 5}, {3, 5}, {4, 5}}
	sum, err := ComputeSummary(s)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Count)
	assert.Equal(t, 5.0, sum.Min)
	assert.Equal(t, 5.0, sum.Max)
	assert.Equal(t, 5.0, sum.Mean)
	assert.Equal(t, 0.0, sum.StdDev)
}

func TestComputeSummarySampleStdDev(t *testing.T) {
	s, err := NewSeries([]float64{0, 1, 2, 3}, []float64{2, 4, 4, 6})
	require.NoError(t, err)
	sum, err := ComputeSummary(s)
	require.NoError(t, err)

	assert.Equal(t, 2.0, sum.Min)
	assert.Equal(t, 6.0, sum.Max)
	assert.InDelta(t, 4.0, sum.Mean, 1e-12)
	// squared deviations 4+0+0+4 over n-1 = 3
	assert.InDelta(t, math.Sqrt(8.0/3.0), sum.StdDev, 1e-12)
}

func TestComputeSummaryMeanWithinBounds(t *testing.T) {
	inputs := [][]float64{
		{0.1, 0.1, 0.1},
		{1e-17, 3, -2.5, 7.25},
		{-4, -4.000000001, -3.999999999},
	}
	for _, ys := range inputs {
		xs := make([]float64, len(ys))
		s, err := NewSeries(xs, ys)
		require.NoError(t, err)
		sum, err := ComputeSummary(s)
		require.NoError(t, err)
		assert.LessOrEqual(t, sum.Min, sum.Mean)
		assert.LessOrEqual(t, sum.Mean, sum.Max)
	}
}

func TestComputeSummarySinglePoint(t *testing.T) {
	sum, err := ComputeSummary(Series{{1, 42}})
	require.NoError(t, err)
	assert.Equal(t, 42.0, sum.Mean)
	assert.True(t, math.IsNaN(sum.StdDev))
}

func TestComputeSummaryEmpty(t *testing.T) {
	_, err := ComputeSummary(Series{})
	var insufficient *InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestSeriesFilter(t *testing.T) {
	s := linearSeries(10, 1, 0)
	filtered := s.Filter(2, 5)
	assert.Equal(t, []float64{2, 3, 4, 5}, filtered.XS())
	assert.Empty(t, s.Filter(20, 30))
}

func TestNewSeriesLengthMismatch(t *testing.T) {
	_, err := NewSeries([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}
