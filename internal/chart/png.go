package chart

import (
	"io"
	"math"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/trendplot/internal/model"
)

// Default PNG dimensions in pixels.
const (
	DefaultPNGWidth  = 1024
	DefaultPNGHeight = 576
)

var pngPalette = []drawing.Color{
	gochart.ColorBlue,
	gochart.ColorGreen,
	gochart.ColorOrange,
	gochart.ColorCyan,
	gochart.ColorYellow,
	gochart.ColorAlternateGray,
}

// RenderPNG draws one chart as a PNG image.
func RenderPNG(w io.Writer, cr ChartReport, width, height int) error {
	if cr.Err != nil {
		return errors.Wrapf(cr.Err, "chart %d", cr.Index+1)
	}
	if width <= 0 {
		width = DefaultPNGWidth
	}
	if height <= 0 {
		height = DefaultPNGHeight
	}

	var series []gochart.Series
	var secondaryName string
	for i, s := range cr.Series {
		if s.Err != nil || len(s.Points) == 0 {
			continue
		}
		xs, ys := padSingle(s.Points.XS(), s.Points.YS())
		cs := gochart.ContinuousSeries{
			Name:    s.Column,
			XValues: xs,
			YValues: ys,
			Style:   dataStyle(cr.Config.Kind, pngPalette[i%len(pngPalette)]),
		}
		if s.Secondary {
			cs.YAxis = gochart.YAxisSecondary
			secondaryName = s.Column
		}
		series = append(series, cs)

		if len(s.Curve) < 2 {
			continue
		}
		curve := gochart.ContinuousSeries{
			Name:  s.Column + " trend",
			Style: trendStyle(cr.Config.Trend),
		}
		for _, pt := range s.Curve {
			curve.XValues = append(curve.XValues, pt.X)
			curve.YValues = append(curve.YValues, pt.Y)
		}
		if s.Secondary {
			curve.YAxis = gochart.YAxisSecondary
		}
		series = append(series, curve)
	}
	if len(series) == 0 {
		return errors.Errorf("chart %d has no data to draw", cr.Index+1)
	}

	xAxis := gochart.XAxis{Name: cr.Config.XColumn}
	if cr.End > cr.Start {
		xAxis.Range = &gochart.ContinuousRange{Min: cr.Start, Max: cr.End}
	}
	ch := gochart.Chart{
		Title:      cr.Title(),
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: primaryAxisName(cr), Range: flatRange(series, gochart.YAxisPrimary)},
		Series:     series,
	}
	if secondaryName != "" {
		ch.YAxisSecondary = gochart.YAxis{Name: secondaryName, Range: flatRange(series, gochart.YAxisSecondary)}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return errors.Wrapf(err, "failed to render chart %d", cr.Index+1)
	}
	return nil
}

func primaryAxisName(cr ChartReport) string {
	for _, s := range cr.Series {
		if !s.Secondary {
			return s.Column
		}
	}
	return ""
}

func dataStyle(kind model.ChartKind, col drawing.Color) gochart.Style {
	switch kind {
	case model.ChartScatter:
		return gochart.Style{
			StrokeWidth: 0,
			DotWidth:    4,
			DotColor:    col,
		}
	case model.ChartBar:
		// go-chart has no bar series on a continuous x axis; a filled area reads the same.
		return gochart.Style{
			StrokeColor: col,
			StrokeWidth: 1,
			FillColor:   col.WithAlpha(96),
		}
	default:
		return gochart.Style{
			StrokeColor: col,
			StrokeWidth: 2,
		}
	}
}

func trendStyle(kind model.TrendKind) gochart.Style {
	dash := []float64{6, 4}
	if kind == model.TrendAverage {
		dash = []float64{2, 4}
	}
	return gochart.Style{
		StrokeColor:     gochart.ColorRed,
		StrokeWidth:     2,
		StrokeDashArray: dash,
	}
}

// flatRange returns an explicit range for an axis whose values are all
// equal, since go-chart cannot scale a zero-height axis.
func flatRange(series []gochart.Series, axis gochart.YAxisType) gochart.Range {
	first := true
	var lo, hi float64
	for _, s := range series {
		cs, ok := s.(gochart.ContinuousSeries)
		if !ok || cs.YAxis != axis {
			continue
		}
		for _, y := range cs.YValues {
			if first {
				lo, hi, first = y, y, false
				continue
			}
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if first || hi > lo {
		return nil
	}
	return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// padSingle duplicates a lone point so go-chart gets a non-empty x range.
func padSingle(xs, ys []float64) ([]float64, []float64) {
	if len(xs) != 1 {
		return xs, ys
	}
	return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
}
