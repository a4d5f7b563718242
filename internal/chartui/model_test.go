package chartui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/trendplot/internal/model"
	dataset "github.com/verte-zerg/trendplot/internal/table"
)

const sampleCSV = `x,y,z,label
1,3,10,a
2,5,20,b
3,7,30,c
4,9,40,d
`

func newTestModel(t *testing.T, charts ...model.ChartConfig) *Model {
	t.Helper()
	data, err := dataset.Parse(strings.NewReader(sampleCSV), dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	logger := log.New()
	logger.SetOutput(io.Discard)
	m := NewModel(log.NewEntry(logger), data, "sample.csv", charts, model.DefaultViewConfig())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			m.Update(tea.KeyMsg{Type: tea.KeyTab})
		case "left":
			m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		case "right":
			m.Update(tea.KeyMsg{Type: tea.KeyRight})
		default:
			m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func TestNewModelDefaultsToOneChart(t *testing.T) {
	m := newTestModel(t)
	charts := m.Charts()
	if len(charts) != 1 {
		t.Fatalf("expected 1 chart, got %d", len(charts))
	}
	if charts[0].XColumn != dataset.DefaultIndexColumn {
		t.Fatalf("expected index x column, got %q", charts[0].XColumn)
	}
	view := m.View()
	if !strings.Contains(view, "Data") || !strings.Contains(view, "Chart 1") {
		t.Fatalf("expected tabs in view: %s", view)
	}
	if !strings.Contains(view, "Total Rows: 4") {
		t.Fatalf("expected data overview: %s", view)
	}
}

func TestAddAndRemoveCharts(t *testing.T) {
	m := newTestModel(t)
	press(m, "+", "+")
	if got := len(m.Charts()); got != 3 {
		t.Fatalf("expected 3 charts, got %d", got)
	}
	if m.activeTab != 3 {
		t.Fatalf("expected new chart to be active, got tab %d", m.activeTab)
	}
	press(m, "-")
	if got := len(m.Charts()); got != 2 {
		t.Fatalf("expected 2 charts, got %d", got)
	}
	if len(m.viewports) != 3 {
		t.Fatalf("expected viewport per tab, got %d", len(m.viewports))
	}
	for i := 0; i < model.MaxCharts+2; i++ {
		press(m, "+")
	}
	if got := len(m.Charts()); got != model.MaxCharts {
		t.Fatalf("expected chart count capped at %d, got %d", model.MaxCharts, got)
	}
	if m.errMsg == "" {
		t.Fatalf("expected error when exceeding chart limit")
	}
}

func TestMoveTabWraps(t *testing.T) {
	m := newTestModel(t)
	press(m, "left")
	if m.activeTab != 1 {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	press(m, "right")
	if m.activeTab != tabData {
		t.Fatalf("expected wrap to data tab, got %d", m.activeTab)
	}
}

func TestChartFormAppliesSettings(t *testing.T) {
	m := newTestModel(t)
	press(m, "right", "/")
	if !m.formMode {
		t.Fatalf("expected form mode")
	}
	m.formInputs[fieldType].SetValue("scatter")
	m.formInputs[fieldX].SetValue("x")
	m.formInputs[fieldY].SetValue("y, z")
	m.formInputs[fieldSecondary].SetValue("yes")
	m.formInputs[fieldStart].SetValue("4")
	m.formInputs[fieldEnd].SetValue("2")
	m.formInputs[fieldTrend].SetValue("linear")
	press(m, "enter")

	if m.formMode {
		t.Fatalf("expected form to close, error: %s", m.formError)
	}
	cfg := m.Charts()[0]
	if cfg.Kind != model.ChartScatter || cfg.XColumn != "x" || len(cfg.YColumns) != 2 || !cfg.SecondaryY {
		t.Fatalf("unexpected chart config: %+v", cfg)
	}
	if cfg.Range == nil || cfg.Range.Start != 2 || cfg.Range.End != 4 {
		t.Fatalf("expected swapped range 2..4, got %+v", cfg.Range)
	}
	content := m.viewports[1].View()
	if !strings.Contains(content, "Linear Trendline for y") {
		t.Fatalf("expected trendline in chart view: %s", content)
	}
}

func TestChartFormRejectsInvalidInput(t *testing.T) {
	m := newTestModel(t)
	press(m, "right", "enter")
	m.formInputs[fieldStart].SetValue("abc")
	press(m, "enter")
	if !m.formMode {
		t.Fatalf("expected form to stay open")
	}
	if !strings.Contains(m.formError, "invalid start") {
		t.Fatalf("unexpected form error: %q", m.formError)
	}

	m.formInputs[fieldStart].SetValue("")
	m.formInputs[fieldY].SetValue("")
	press(m, "enter")
	if !strings.Contains(m.formError, "select X-axis and Y-axis") {
		t.Fatalf("unexpected form error: %q", m.formError)
	}

	press(m, "esc")
	if m.formMode {
		t.Fatalf("expected esc to close the form")
	}
}

func TestTextColumnShowsWarningInline(t *testing.T) {
	m := newTestModel(t, model.ChartConfig{Kind: model.ChartLine, XColumn: "x", YColumns: []string{"label"}})
	content := m.viewports[1].View()
	if !strings.Contains(content, "not numeric") {
		t.Fatalf("expected inline warning: %s", content)
	}
}

func TestDataFormAppliesColumnsAndRows(t *testing.T) {
	m := newTestModel(t)
	press(m, "/")
	m.formInputs[fieldColumns].SetValue("x, label")
	m.formInputs[fieldRows].SetValue("2")
	press(m, "enter")
	if m.formMode {
		t.Fatalf("expected form to close, error: %s", m.formError)
	}
	if got := len(m.dataTable.Rows()); got != 2 {
		t.Fatalf("expected 2 table rows, got %d", got)
	}
	if got := len(m.dataTable.Columns()); got != 2 {
		t.Fatalf("expected 2 table columns, got %d", got)
	}

	press(m, "/")
	m.formInputs[fieldColumns].SetValue("nope")
	press(m, "enter")
	if !m.formMode || !strings.Contains(m.formError, "unknown column") {
		t.Fatalf("expected unknown column error, got %q", m.formError)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	press(m, "/", "q")
	if !m.formMode {
		t.Fatalf("q should type into the form, not quit")
	}
	if !strings.Contains(m.formInputs[fieldColumns].Value(), "q") {
		t.Fatalf("expected q in the focused input, got %q", m.formInputs[fieldColumns].Value())
	}
}

func TestSplitListAndYesNo(t *testing.T) {
	if got := splitList(" a, ,b "); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected split: %v", got)
	}
	if v, err := parseYesNo("Y"); err != nil || !v {
		t.Fatalf("expected yes, got %v %v", v, err)
	}
	if _, err := parseYesNo("maybe"); err == nil {
		t.Fatalf("expected error for invalid yes/no")
	}
}
