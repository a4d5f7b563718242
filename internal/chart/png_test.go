package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/trendplot/internal/model"
)

func TestRenderPNG(t *testing.T) {
	r := build(t,
		model.ChartConfig{Kind: model.ChartScatter, XColumn: "x", YColumns: []string{"y", "z"}, SecondaryY: true, Trend: model.TrendLinear},
		model.ChartConfig{Kind: model.ChartBar, XColumn: "x", YColumns: []string{"y"}, Trend: model.TrendAverage},
	)
	for _, cr := range r.Charts {
		var buf bytes.Buffer
		require.NoError(t, RenderPNG(&buf, cr, 400, 300))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "chart %d is not a PNG", cr.Index+1)
	}
}

func TestRenderPNGSinglePoint(t *testing.T) {
	r := build(t, model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"y"}, Range: &model.Range{Start: 2, End: 2}})
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, r.Charts[0], 400, 300))
}

func TestRenderPNGErrors(t *testing.T) {
	r := build(t,
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x"},
		model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"label"}},
	)
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderPNG(&buf, r.Charts[0], 400, 300), ErrNoColumns)
	assert.Error(t, RenderPNG(&buf, r.Charts[1], 400, 300))
}
