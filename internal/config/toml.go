// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/trendplot/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	View   ViewConfig    `toml:"view"`
	Charts []ChartPreset `toml:"chart"`
}

// ViewConfig maps rendering settings.
type ViewConfig struct {
	Samples          *int     `toml:"samples"`
	Precision        *int     `toml:"precision"`
	SummaryPrecision *int     `toml:"summary-precision"`
	Height           *int     `toml:"height"`
	Workers          *int     `toml:"workers"`
	TableRows        *int     `toml:"table-rows"`
	TableColumns     []string `toml:"table-columns"`
}

// ChartPreset maps a [[chart]] entry.
type ChartPreset struct {
	Type       string   `toml:"type"`
	X          string   `toml:"x"`
	Y          []string `toml:"y"`
	SecondaryY bool     `toml:"secondary-y"`
	Start      *float64 `toml:"start"`
	End        *float64 `toml:"end"`
	Trendline  string   `toml:"trendline"`
	Degree     *int     `toml:"degree"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ChartConfigs converts the [[chart]] presets. A preset without x uses defaultX.
func (c FileConfig) ChartConfigs(defaultX string) ([]model.ChartConfig, error) {
	if len(c.Charts) > model.MaxCharts {
		return nil, fmt.Errorf("config defines %d charts; at most %d are supported", len(c.Charts), model.MaxCharts)
	}
	out := make([]model.ChartConfig, 0, len(c.Charts))
	for i, p := range c.Charts {
		kind, err := model.ParseChartKind(p.Type)
		if err != nil {
			return nil, fmt.Errorf("chart %d: %w", i+1, err)
		}
		trendKind, err := model.ParseTrendKind(p.Trendline)
		if err != nil {
			return nil, fmt.Errorf("chart %d: %w", i+1, err)
		}
		cfg := model.ChartConfig{
			Kind:       kind,
			XColumn:    p.X,
			YColumns:   append([]string(nil), p.Y...),
			SecondaryY: p.SecondaryY,
			Trend:      trendKind,
			Degree:     model.DefaultDegree,
		}
		if cfg.XColumn == "" {
			cfg.XColumn = defaultX
		}
		if p.Degree != nil {
			cfg.Degree = *p.Degree
		}
		if p.Start != nil && p.End != nil {
			cfg.Range = &model.Range{Start: *p.Start, End: *p.End}
		} else if p.Start != nil || p.End != nil {
			return nil, fmt.Errorf("chart %d: start and end must be set together", i+1)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("chart %d: %w", i+1, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}
