// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strings"
)

// MaxCharts caps how many charts can be configured at once.
const MaxCharts = 10

// ChartKind selects how data points are drawn.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
)

// ParseChartKind parses a chart kind name (case-insensitive).
func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(s))) {
	case ChartLine, "":
		return ChartLine, nil
	case ChartBar:
		return ChartBar, nil
	case ChartScatter:
		return ChartScatter, nil
	default:
		return "", fmt.Errorf("unknown chart type %q (use line, bar or scatter)", s)
	}
}

// Title returns the display name of the chart kind.
func (k ChartKind) Title() string {
	switch k {
	case ChartBar:
		return "Bar"
	case ChartScatter:
		return "Scatter"
	default:
		return "Line"
	}
}

// TrendKind selects the trendline drawn over a chart.
type TrendKind string

const (
	TrendNone       TrendKind = "none"
	TrendLinear     TrendKind = "linear"
	TrendAverage    TrendKind = "average"
	TrendPolynomial TrendKind = "polynomial"
)

// ParseTrendKind parses a trendline kind name (case-insensitive).
func ParseTrendKind(s string) (TrendKind, error) {
	switch TrendKind(strings.ToLower(strings.TrimSpace(s))) {
	case TrendNone, "", "off":
		return TrendNone, nil
	case TrendLinear:
		return TrendLinear, nil
	case TrendAverage, "avg", "mean":
		return TrendAverage, nil
	case TrendPolynomial, "poly":
		return TrendPolynomial, nil
	default:
		return "", fmt.Errorf("unknown trendline %q (use none, linear, average or polynomial)", s)
	}
}

// Title returns the display name of the trend kind.
func (k TrendKind) Title() string {
	switch k {
	case TrendLinear:
		return "Linear"
	case TrendAverage:
		return "Average"
	case TrendPolynomial:
		return "Polynomial"
	default:
		return "None"
	}
}

// Range is an inclusive x-axis interval.
type Range struct {
	Start float64
	End   float64
}

// ChartConfig defines one chart.
type ChartConfig struct {
	Kind       ChartKind
	XColumn    string
	YColumns   []string
	SecondaryY bool
	Range      *Range // nil means the full extent of XColumn
	Trend      TrendKind
	Degree     int
}

// DefaultDegree is the polynomial degree used when none is set.
const DefaultDegree = 2

// Validate checks the chart settings that do not depend on data.
func (c ChartConfig) Validate() error {
	if c.XColumn == "" {
		return fmt.Errorf("x column must not be empty")
	}
	if c.Trend == TrendPolynomial && c.Degree < 2 {
		return fmt.Errorf("polynomial degree must be >= 2")
	}
	if c.Range != nil && (math.IsNaN(c.Range.Start) || math.IsNaN(c.Range.End)) {
		return fmt.Errorf("range bounds must be numbers")
	}
	return nil
}

// ViewConfig defines rendering and computation options shared by all charts.
type ViewConfig struct {
	Samples          int
	Precision        int
	SummaryPrecision int
	PlotHeight       int
	Workers          int
	TableRows        int
	TableColumns     []string
}

// DefaultViewConfig returns the defaults used when nothing is configured.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Samples:          100,
		Precision:        2,
		SummaryPrecision: 5,
		PlotHeight:       12,
		Workers:          4,
		TableRows:        10,
	}
}

// Validate checks view options.
func (v ViewConfig) Validate() error {
	if v.Samples < 2 {
		return fmt.Errorf("--samples must be >= 2")
	}
	if v.Precision < 0 || v.SummaryPrecision < 0 {
		return fmt.Errorf("precision must be >= 0")
	}
	if v.PlotHeight < 2 {
		return fmt.Errorf("--height must be >= 2")
	}
	if v.Workers < 1 {
		return fmt.Errorf("--workers must be >= 1")
	}
	if v.TableRows < 1 {
		return fmt.Errorf("table rows must be >= 1")
	}
	return nil
}
