package chart

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/trendplot/internal/model"
	"github.com/verte-zerg/trendplot/internal/table"
	"github.com/verte-zerg/trendplot/internal/trend"
)

const sampleCSV = `x,y,z,label
1,3,10,a
2,5,20,b
3,7,30,c
4,9,40,d
`

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Parse(strings.NewReader(sampleCSV), table.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

func build(t *testing.T, charts ...model.ChartConfig) Report {
	t.Helper()
	return BuildReport(context.Background(), quietLogger(), sampleTable(t), charts, model.DefaultViewConfig())
}

func TestBuildReportLinear(t *testing.T) {
	r := build(t, model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"y"}, Trend: model.TrendLinear})
	require.Len(t, r.Charts, 1)
	cr := r.Charts[0]
	require.NoError(t, cr.Err)
	assert.Equal(t, 1.0, cr.Start)
	assert.Equal(t, 4.0, cr.End)

	require.Len(t, cr.Series, 1)
	s := cr.Series[0]
	require.NoError(t, s.Err)
	require.NoError(t, s.FitErr)
	require.NotNil(t, s.Fit)
	assert.InDelta(t, 2, s.Fit.Slope, 1e-9)
	assert.InDelta(t, 1, s.Fit.Intercept, 1e-9)
	assert.Equal(t, "y = 2.00x + 1.00", s.Equation)
	assert.Len(t, s.Curve, 2)
	assert.Equal(t, 4, s.Summary.Count)
	assert.InDelta(t, 6, s.Summary.Mean, 1e-9)
}

func TestBuildReportRangeIsOrderedAndClamped(t *testing.T) {
	r := build(t, model.ChartConfig{
		Kind:     model.ChartScatter,
		XColumn:  "x",
		YColumns: []string{"y"},
		Range:    &model.Range{Start: 10, End: 2},
	})
	cr := r.Charts[0]
	require.NoError(t, cr.Err)
	assert.Equal(t, 2.0, cr.Start)
	assert.Equal(t, 4.0, cr.End)
	assert.Len(t, cr.Series[0].Points, 3)
	assert.Nil(t, cr.Series[0].Fit)
}

func TestBuildReportFailuresAreIsolated(t *testing.T) {
	r := build(t,
		model.ChartConfig{Kind: model.ChartLine, XColumn: "X-Axis", YColumns: []string{"y"}, Trend: model.TrendAverage},
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"label"}},
		model.ChartConfig{Kind: model.ChartLine, XColumn: "missing", YColumns: []string{"y"}},
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x"},
	)
	require.Len(t, r.Charts, 4)

	require.NoError(t, r.Charts[0].Err)
	require.NotNil(t, r.Charts[0].Series[0].Fit)
	assert.InDelta(t, 6, r.Charts[0].Series[0].Fit.Mean, 1e-9)

	require.NoError(t, r.Charts[1].Err)
	var kindErr *table.ColumnKindError
	assert.True(t, errors.As(r.Charts[1].Series[0].Err, &kindErr))

	assert.True(t, errors.Is(r.Charts[2].Err, table.ErrColumnNotFound))
	assert.Equal(t, ErrNoColumns, r.Charts[3].Err)

	for i, cr := range r.Charts {
		assert.Equal(t, i, cr.Index)
	}
}

func TestBuildReportInsufficientDataIsPerSeries(t *testing.T) {
	r := build(t, model.ChartConfig{
		Kind:     model.ChartLine,
		XColumn:  "x",
		YColumns: []string{"y"},
		Range:    &model.Range{Start: 2, End: 2},
		Trend:    model.TrendLinear,
	})
	cr := r.Charts[0]
	require.NoError(t, cr.Err)
	s := cr.Series[0]
	assert.Equal(t, 1, s.Summary.Count)
	assert.Nil(t, s.Fit)
	var insufficient *trend.InsufficientDataError
	assert.True(t, errors.As(s.FitErr, &insufficient))
}

func TestBuildReportSecondaryAxis(t *testing.T) {
	r := build(t, model.ChartConfig{
		Kind:       model.ChartBar,
		XColumn:    "x",
		YColumns:   []string{"y", "z"},
		SecondaryY: true,
		Trend:      model.TrendPolynomial,
		Degree:     2,
	})
	cr := r.Charts[0]
	require.NoError(t, cr.Err)
	require.Len(t, cr.Series, 2)
	assert.False(t, cr.Series[0].Secondary)
	assert.True(t, cr.Series[1].Secondary)
	assert.True(t, cr.HasSecondary())
	require.NotNil(t, cr.Series[1].Fit)
	assert.Equal(t, 2, cr.Series[1].Fit.Degree())
	assert.Len(t, cr.Series[1].Curve, model.DefaultViewConfig().Samples)
}

func TestBuildReportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := BuildReport(ctx, quietLogger(), sampleTable(t), []model.ChartConfig{
		{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"y"}},
	}, model.DefaultViewConfig())
	assert.ErrorIs(t, r.Charts[0].Err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(sampleTable(t))
	assert.Equal(t, model.ChartLine, cfg.Kind)
	assert.Equal(t, table.DefaultIndexColumn, cfg.XColumn)
	assert.Equal(t, []string{"x"}, cfg.YColumns)

	opts := table.DefaultOptions()
	opts.IndexColumn = ""
	tbl, err := table.Parse(strings.NewReader(sampleCSV), opts)
	require.NoError(t, err)
	cfg = DefaultConfig(tbl)
	assert.Equal(t, "x", cfg.XColumn)
	assert.Equal(t, []string{"y"}, cfg.YColumns)
}
