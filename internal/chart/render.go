package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/trendplot/internal/model"
	"github.com/verte-zerg/trendplot/internal/table"
	"github.com/verte-zerg/trendplot/internal/trend"
)

const (
	sparkChars = " .:-=+*#%@"
	sparkWidth = 24
)

// RenderOptions controls text rendering of a chart.
type RenderOptions struct {
	Width            int
	Height           int
	Precision        int
	SummaryPrecision int
	Color            bool
}

// OptionsFor derives render options from the view config.
func OptionsFor(view model.ViewConfig, width int, color bool) RenderOptions {
	return RenderOptions{
		Width:            width,
		Height:           view.PlotHeight,
		Precision:        view.Precision,
		SummaryPrecision: view.SummaryPrecision,
		Color:            color,
	}
}

// RenderReport prints every chart of the report separated by blank lines.
func RenderReport(w io.Writer, r Report, opts RenderOptions) error {
	for i, cr := range r.Charts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := RenderChart(w, cr, opts); err != nil {
			return err
		}
	}
	return nil
}

// RenderChart prints the plot, trendline details, warnings and summary of one chart.
func RenderChart(w io.Writer, cr ChartReport, opts RenderOptions) error {
	if cr.Err != nil {
		_, err := fmt.Fprintf(w, "%s\n%s\n", cr.Title(), capitalize(cr.Err.Error()))
		return err
	}

	p := Plot{
		Title:  fmt.Sprintf("%s (x: %s, range %s to %s)", cr.Title(), cr.Config.XColumn, formatValue(cr.Start, opts.Precision), formatValue(cr.End, opts.Precision)),
		XLabel: cr.Config.XColumn,
		XMin:   cr.Start,
		XMax:   cr.End,
		Layers: Layers(cr),
	}
	if len(p.Layers) == 0 {
		if _, err := fmt.Fprintln(w, p.Title); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "No data in the selected range."); err != nil {
			return err
		}
	} else if err := RenderPlot(w, p, opts.Width, opts.Height, opts.Color); err != nil {
		return err
	}

	for _, line := range trendLines(cr, opts.Precision) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, warn := range cr.Warnings {
		if _, err := fmt.Fprintf(w, "Warning: %s\n", warn); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nChart %d Summary\n", cr.Index+1); err != nil {
		return err
	}
	for _, line := range summaryTable(cr, opts.SummaryPrecision) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Layers converts a chart report to plot layers: one per usable series plus
// one per rendered trend curve.
func Layers(cr ChartReport) []Layer {
	mark := MarkLine
	switch cr.Config.Kind {
	case model.ChartScatter:
		mark = MarkScatter
	case model.ChartBar:
		mark = MarkBar
	}
	var layers []Layer
	for _, s := range cr.Series {
		if s.Err != nil || len(s.Points) == 0 {
			continue
		}
		layers = append(layers, Layer{Name: s.Column, Points: s.Points, Mark: mark, Secondary: s.Secondary})
	}
	for _, s := range cr.Series {
		if len(s.Curve) == 0 {
			continue
		}
		layers = append(layers, Layer{
			Name:      s.Column + " " + strings.ToLower(cr.Config.Trend.Title()) + " trend",
			Points:    s.Curve,
			Mark:      MarkLine,
			Secondary: s.Secondary,
			Trend:     true,
		})
	}
	return layers
}

func trendLines(cr ChartReport, precision int) []string {
	var lines []string
	for _, s := range cr.Series {
		if s.Err != nil {
			lines = append(lines, fmt.Sprintf("Column %s skipped: %v", s.Column, s.Err))
			continue
		}
		if s.FitErr != nil {
			lines = append(lines, fmt.Sprintf("%s Trendline for %s unavailable: %v", cr.Config.Trend.Title(), s.Column, s.FitErr))
			continue
		}
		if s.Fit == nil {
			continue
		}
		lines = append(lines, DescribeFit(s.Column, *s.Fit, s.Equation, precision))
	}
	return lines
}

// DescribeFit renders the one-line description of a trendline.
func DescribeFit(column string, fit trend.Fit, equation string, precision int) string {
	switch fit.Kind {
	case trend.Linear:
		return fmt.Sprintf("Linear Trendline for %s: %s, R-value: %s, R²: %s",
			column, equation, formatValue(fit.R, precision), formatValue(fit.RSquared, precision))
	case trend.Average:
		return fmt.Sprintf("Average Trendline for %s: Avg %s = %s", column, column, formatValue(fit.Mean, precision))
	default:
		return fmt.Sprintf("Polynomial Trendline (degree %d) for %s: %s, R²: %s",
			fit.Degree(), column, equation, formatValue(fit.RSquared, precision))
	}
}

func summaryTable(cr ChartReport, precision int) []string {
	headers := []string{"Column", "Points", "Min", "Max", "Average", "Std Dev"}
	rows := make([][]string, 0, len(cr.Series))
	for _, s := range cr.Series {
		if s.Err != nil || s.SummaryErr != nil {
			rows = append(rows, []string{s.Column, strconv.Itoa(len(s.Points)), "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			s.Column,
			strconv.Itoa(s.Summary.Count),
			formatValue(s.Summary.Min, precision),
			formatValue(s.Summary.Max, precision),
			formatValue(s.Summary.Mean, precision),
			formatValue(s.Summary.StdDev, precision),
		})
	}
	return FormatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true})
}

// RenderOverview prints row and column counts and one line per column.
func RenderOverview(w io.Writer, tbl *table.Table) error {
	names := tbl.Names()
	if _, err := fmt.Fprintf(w, "Total Rows: %s\nTotal Columns: %s\n\n",
		humanize.Comma(int64(tbl.Rows())), humanize.Comma(int64(len(names)))); err != nil {
		return err
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		col, err := tbl.Column(name)
		if err != nil {
			return err
		}
		row := []string{name, col.Kind.String(), "-", "-", "-", ""}
		if col.Kind == table.Numeric {
			values := present(col.Values)
			row[2] = humanize.Comma(int64(len(col.Values) - len(values)))
			if len(values) > 0 {
				lo, hi := minMax(values)
				row[3] = formatAxisValue(lo)
				row[4] = formatAxisValue(hi)
				row[5] = Sparkline(bucketMeans(values, sparkWidth))
			}
		}
		rows = append(rows, row)
	}
	for _, line := range FormatTable([]string{"Column", "Kind", "Missing", "Min", "Max", "Shape"}, rows, map[int]bool{2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHead prints the first n rows of the named columns.
func RenderHead(w io.Writer, tbl *table.Table, names []string, n int) error {
	if len(names) == 0 {
		names = tbl.Names()
	}
	rows, err := tbl.Head(names, n)
	if err != nil {
		return err
	}
	for _, line := range FormatTable(names, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// bucketMeans shrinks values to at most width points by averaging equal buckets.
func bucketMeans(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	bucket := float64(len(values)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(math.Floor(float64(i) * bucket))
		end := int(math.Floor(float64(i+1) * bucket))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func formatValue(v float64, precision int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
