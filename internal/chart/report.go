package chart

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/trendplot/internal/model"
	"github.com/verte-zerg/trendplot/internal/table"
	"github.com/verte-zerg/trendplot/internal/trend"
)

// ErrNoColumns is stored on a chart that has no y columns selected.
var ErrNoColumns = errors.New("please select X-axis and Y-axis columns to generate the chart")

// Report contains precomputed data for every configured chart.
type Report struct {
	Charts []ChartReport
}

// ChartReport holds the computed data of one chart. A non-nil Err means the
// chart could not be built at all; per-series problems live on the series.
type ChartReport struct {
	Index    int
	Config   model.ChartConfig
	Start    float64
	End      float64
	Series   []SeriesReport
	Err      error
	Warnings []error
}

// Title returns the heading used for the chart in text and image output.
func (c ChartReport) Title() string {
	return fmt.Sprintf("Chart %d: %s", c.Index+1, c.Config.Kind.Title())
}

// HasSecondary reports whether any series is drawn against the right axis.
func (c ChartReport) HasSecondary() bool {
	for _, s := range c.Series {
		if s.Secondary {
			return true
		}
	}
	return false
}

// SeriesReport holds one y column of a chart.
type SeriesReport struct {
	Column     string
	Secondary  bool
	Points     trend.Series
	Err        error
	Summary    trend.Summary
	SummaryErr error
	Fit        *trend.Fit
	FitErr     error
	Curve      []trend.Point
	Equation   string
}

// BuildReport computes every chart concurrently. Charts are independent: a
// failure is recorded on the chart and never stops the others.
func BuildReport(ctx context.Context, logger *log.Entry, tbl *table.Table, charts []model.ChartConfig, view model.ViewConfig) Report {
	out := make([]ChartReport, len(charts))
	workers := view.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range charts {
		g.Go(func() error {
			chartLog := logger.WithFields(log.Fields{"chart": i + 1, "x": cfg.XColumn, "y": cfg.YColumns})
			if err := ctx.Err(); err != nil {
				out[i] = ChartReport{Index: i, Config: cfg, Err: err}
				return nil
			}
			out[i] = buildChart(tbl, i, cfg, view)
			if out[i].Err != nil {
				chartLog.WithError(out[i].Err).Warn("chart not built")
				return nil
			}
			for _, s := range out[i].Series {
				switch {
				case s.Err != nil:
					chartLog.WithError(s.Err).Warnf("series %q skipped", s.Column)
				case s.FitErr != nil:
					chartLog.WithError(s.FitErr).Infof("no trendline for %q", s.Column)
				}
			}
			for _, w := range out[i].Warnings {
				chartLog.Warn(w.Error())
			}
			chartLog.WithField("range", [2]float64{out[i].Start, out[i].End}).Debug("chart built")
			return nil
		})
	}
	_ = g.Wait()
	return Report{Charts: out}
}

func buildChart(tbl *table.Table, idx int, cfg model.ChartConfig, view model.ViewConfig) ChartReport {
	cr := ChartReport{Index: idx, Config: cfg}
	if err := cfg.Validate(); err != nil {
		cr.Err = err
		return cr
	}
	if len(cfg.YColumns) == 0 {
		cr.Err = ErrNoColumns
		return cr
	}

	lo, hi, err := tbl.Range(cfg.XColumn)
	if err != nil {
		cr.Err = errors.Wrap(err, "x column")
		return cr
	}
	if math.IsNaN(lo) {
		cr.Err = errors.Errorf("x column %q has no values", cfg.XColumn)
		return cr
	}
	cr.Start, cr.End = resolveRange(cfg.Range, lo, hi)

	for j, name := range cfg.YColumns {
		sr := SeriesReport{
			Column:    name,
			Secondary: cfg.SecondaryY && len(cfg.YColumns) > 1 && j == 1,
		}
		sr.Points, sr.Err = tbl.Series(cfg.XColumn, name, cr.Start, cr.End)
		if sr.Err != nil {
			cr.Series = append(cr.Series, sr)
			continue
		}
		sr.Summary, sr.SummaryErr = trend.ComputeSummary(sr.Points)
		if kind, ok := fitKind(cfg.Trend); ok {
			fillFit(&sr, &cr, kind, cfg.Degree, view)
		}
		cr.Series = append(cr.Series, sr)
	}
	return cr
}

func fillFit(sr *SeriesReport, cr *ChartReport, kind trend.Kind, degree int, view model.ViewConfig) {
	fit, err := trend.Compute(sr.Points, trend.Request{Kind: kind, Degree: degree, Start: cr.Start, End: cr.End})
	if err != nil {
		sr.FitErr = err
		return
	}
	curve, err := trend.RenderCurve(fit, cr.Start, cr.End, view.Samples)
	if err != nil {
		sr.FitErr = err
		return
	}
	sr.Fit = &fit
	sr.Curve = curve
	sr.Equation = trend.FormatEquation(fit, view.Precision)
	if fit.Warning != nil {
		cr.Warnings = append(cr.Warnings, errors.Wrapf(fit.Warning, "%s", sr.Column))
	}
}

// DefaultConfig returns a line chart of the first numeric column against the
// row index, or against the first numeric column when there is no index.
func DefaultConfig(tbl *table.Table) model.ChartConfig {
	cfg := model.ChartConfig{Kind: model.ChartLine, Trend: model.TrendNone, Degree: model.DefaultDegree}
	numeric := tbl.NumericNames()
	if _, err := tbl.Column(table.DefaultIndexColumn); err == nil {
		cfg.XColumn = table.DefaultIndexColumn
	} else if len(numeric) > 0 {
		cfg.XColumn = numeric[0]
	}
	for _, name := range numeric {
		if name != cfg.XColumn {
			cfg.YColumns = []string{name}
			break
		}
	}
	return cfg
}

// resolveRange orders the requested bounds and clamps them to the data
// extent. Without a request the full extent is used.
func resolveRange(r *model.Range, lo, hi float64) (float64, float64) {
	if r == nil {
		return lo, hi
	}
	start, end := trend.NormalizeRange(r.Start, r.End)
	return clamp(start, lo, hi), clamp(end, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func fitKind(k model.TrendKind) (trend.Kind, bool) {
	switch k {
	case model.TrendLinear:
		return trend.Linear, true
	case model.TrendAverage:
		return trend.Average, true
	case model.TrendPolynomial:
		return trend.Polynomial, true
	default:
		return 0, false
	}
}
