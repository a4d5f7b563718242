package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/trendplot/internal/model"
)

func TestRenderChart(t *testing.T) {
	r := build(t, model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"y"}, Trend: model.TrendLinear})
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, r.Charts[0], OptionsFor(model.DefaultViewConfig(), 40, false)))

	out := buf.String()
	assert.Contains(t, out, "Chart 1: Line")
	assert.Contains(t, out, "Linear Trendline for y: y = 2.00x + 1.00, R-value: 1.00, R²: 1.00")
	assert.Contains(t, out, "Chart 1 Summary")
	assert.Contains(t, out, "6.00000")
	assert.Contains(t, out, "2.58199")
	assert.Contains(t, out, "Legend:")
}

func TestRenderChartAverageAndErrors(t *testing.T) {
	r := build(t,
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"y"}, Trend: model.TrendAverage},
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x"},
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"y"}, Range: &model.Range{Start: 3, End: 3}, Trend: model.TrendLinear},
	)
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, r, OptionsFor(model.DefaultViewConfig(), 40, false)))

	out := buf.String()
	assert.Contains(t, out, "Average Trendline for y: Avg y = 6.00")
	assert.Contains(t, out, "Please select X-axis and Y-axis columns to generate the chart")
	assert.Contains(t, out, "Linear Trendline for y unavailable")
	assert.Contains(t, out, "n/a")
}

func TestRenderOverview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderOverview(&buf, sampleTable(t)))

	out := buf.String()
	assert.Contains(t, out, "Total Rows: 4")
	assert.Contains(t, out, "Total Columns: 5")
	lines := strings.Split(out, "\n")
	var label string
	for _, line := range lines {
		if strings.HasPrefix(line, "label") {
			label = line
		}
	}
	assert.Contains(t, label, "text")
}

func TestRenderHead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHead(&buf, sampleTable(t), []string{"x", "label"}, 2))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x  label", lines[0])
	assert.Equal(t, "1  a", lines[1])
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, " @", Sparkline([]float64{0, 9}))
	assert.Equal(t, "+++", Sparkline([]float64{2, 2, 2}))
	assert.Equal(t, "", Sparkline(nil))
}

func TestBucketMeans(t *testing.T) {
	assert.Equal(t, []float64{1.5, 3.5}, bucketMeans([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, bucketMeans([]float64{1, 2}, 5))
}
