package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/trendplot/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if len(cfg.Charts) != 0 || cfg.View.Samples != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigCharts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[view]
samples = 50
table-columns = ["a", "b"]

[[chart]]
type = "scatter"
y = ["temp", "pressure"]
secondary-y = true
start = 10.0
end = 2.0
trendline = "polynomial"
degree = 3

[[chart]]
x = "time"
y = ["temp"]
trendline = "average"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.View.Samples == nil || *cfg.View.Samples != 50 {
		t.Fatalf("expected samples 50, got %v", cfg.View.Samples)
	}
	charts, err := cfg.ChartConfigs("X-Axis")
	if err != nil {
		t.Fatalf("chart configs: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(charts))
	}
	first := charts[0]
	if first.Kind != model.ChartScatter || first.XColumn != "X-Axis" || !first.SecondaryY {
		t.Fatalf("unexpected first chart: %+v", first)
	}
	if first.Trend != model.TrendPolynomial || first.Degree != 3 {
		t.Fatalf("unexpected trend settings: %+v", first)
	}
	if first.Range == nil || first.Range.Start != 10 || first.Range.End != 2 {
		t.Fatalf("unexpected range: %+v", first.Range)
	}
	if charts[1].Kind != model.ChartLine || charts[1].Trend != model.TrendAverage {
		t.Fatalf("unexpected second chart: %+v", charts[1])
	}
}

func TestChartConfigsRejectsHalfRange(t *testing.T) {
	start := 1.0
	cfg := FileConfig{Charts: []ChartPreset{{Y: []string{"a"}, Start: &start}}}
	if _, err := cfg.ChartConfigs("X-Axis"); err == nil {
		t.Fatalf("expected error for start without end")
	}
}
