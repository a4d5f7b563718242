// Package chartui provides the Bubble Tea chart interface.
package chartui

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/trendplot/internal/chart"
	"github.com/verte-zerg/trendplot/internal/model"
	dataset "github.com/verte-zerg/trendplot/internal/table"
	"github.com/verte-zerg/trendplot/internal/trend"
)

const tabData = 0

const (
	fieldType = iota
	fieldX
	fieldY
	fieldSecondary
	fieldStart
	fieldEnd
	fieldTrend
	fieldDegree
)

const (
	fieldColumns = iota
	fieldRows
)

const maxCellWidth = 24

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0B040"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea chart UI.
type Model struct {
	logger *log.Entry
	data   *dataset.Table
	source string
	view   model.ViewConfig
	charts []model.ChartConfig
	report chart.Report

	activeTab int
	viewports []viewport.Model
	dataTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
	errMsg     string
}

// NewModel constructs a chart UI model over a loaded table. With no charts a
// default chart is created.
func NewModel(logger *log.Entry, data *dataset.Table, source string, charts []model.ChartConfig, view model.ViewConfig) *Model {
	m := &Model{
		logger: logger,
		data:   data,
		source: source,
		view:   view,
		charts: append([]model.ChartConfig(nil), charts...),
	}
	if len(m.charts) == 0 {
		m.charts = []model.ChartConfig{chart.DefaultConfig(data)}
	}
	if len(m.charts) > model.MaxCharts {
		m.charts = m.charts[:model.MaxCharts]
	}
	if len(m.view.TableColumns) == 0 {
		m.view.TableColumns = data.Names()
	}
	m.dataTable = buildDataTable(nil, nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		if m.activeTab == tabData {
			m.dataTable.Focus()
		} else {
			m.dataTable.Blur()
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "+", "=":
			m.addChart()
			return m, tea.ClearScreen
		case "-":
			m.removeChart()
			return m, tea.ClearScreen
		case "/", "enter":
			return m.startForm()
		case "g", "home":
			if m.activeTab == tabData {
				m.dataTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabData {
				m.dataTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabData {
				var cmd tea.Cmd
				m.dataTable, cmd = m.dataTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Charts returns the current chart settings.
func (m *Model) Charts() []model.ChartConfig {
	return append([]model.ChartConfig(nil), m.charts...)
}

func (m *Model) tabs() []string {
	out := make([]string, 0, len(m.charts)+1)
	out = append(out, "Data")
	for i := range m.charts {
		out = append(out, fmt.Sprintf("Chart %d", i+1))
	}
	return out
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.charts)+1)
	for i := range m.viewports {
		m.viewports[i] = viewport.New(m.width, 0)
	}
	m.updateLayout()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.formMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.dataTable.SetWidth(m.width)
	m.dataTable.SetHeight(max(1, vpHeight-2))
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.charts) + 1
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabData {
		m.dataTable.Focus()
	} else {
		m.dataTable.Blur()
	}
}

func (m *Model) addChart() {
	if len(m.charts) >= model.MaxCharts {
		m.errMsg = fmt.Sprintf("at most %d charts are supported", model.MaxCharts)
		return
	}
	cfg := chart.DefaultConfig(m.data)
	if m.activeTab != tabData {
		cfg = m.charts[m.activeTab-1]
		cfg.YColumns = append([]string(nil), cfg.YColumns...)
	}
	m.charts = append(m.charts, cfg)
	m.viewports = append(m.viewports, viewport.New(m.width, 0))
	m.activeTab = len(m.charts)
	m.logger.WithField("charts", len(m.charts)).Debug("chart added")
	m.updateLayout()
	m.refreshReport()
}

func (m *Model) removeChart() {
	if m.activeTab == tabData {
		return
	}
	if len(m.charts) <= 1 {
		m.errMsg = "at least one chart is required"
		return
	}
	idx := m.activeTab - 1
	m.charts = append(m.charts[:idx], m.charts[idx+1:]...)
	m.viewports = append(m.viewports[:m.activeTab], m.viewports[m.activeTab+1:]...)
	if m.activeTab > len(m.charts) {
		m.activeTab = len(m.charts)
	}
	m.logger.WithField("charts", len(m.charts)).Debug("chart removed")
	m.refreshReport()
}

func (m *Model) refreshReport() {
	m.errMsg = ""
	m.report = chart.BuildReport(context.Background(), m.logger, m.data, m.charts, m.view)
	cols, rows, err := buildDataTableData(m.data, m.view.TableColumns, m.view.TableRows)
	if err != nil {
		m.errMsg = err.Error()
	}
	m.dataTable.SetRows(nil)
	m.dataTable.SetColumns(cols)
	m.dataTable.SetRows(rows)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	for i, cr := range m.report.Charts {
		if i+1 >= len(m.viewports) {
			break
		}
		m.viewports[i+1].SetContent(renderChart(cr, m.view, width))
	}
}

func renderChart(cr chart.ChartReport, view model.ViewConfig, width int) string {
	if cr.Err != nil {
		return warnStyle.Render(cr.Err.Error())
	}
	var buf bytes.Buffer
	opts := chart.OptionsFor(view, chart.PlotWidthFor(width, cr.HasSecondary()), true)
	if err := chart.RenderChart(&buf, cr, opts); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderTabs() string {
	tabs := m.tabs()
	render := func(short bool) string {
		parts := make([]string, 0, len(tabs))
		for i, tab := range tabs {
			if short && i != tabData {
				tab = strconv.Itoa(i)
			}
			if i == m.activeTab {
				parts = append(parts, activeNavStyle.Render(tab))
			} else {
				parts = append(parts, inactiveNavStyle.Render(tab))
			}
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	out := render(false)
	if m.width > 0 && lipgloss.Width(out) > m.width {
		out = render(true)
	}
	return out
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	settings := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + settings
}

func (m *Model) renderSettingsSummary() string {
	var summary string
	if m.activeTab == tabData {
		summary = fmt.Sprintf("Data: %s  rows=%d  columns=%s  shown=%d",
			m.source, m.data.Rows(), strings.Join(m.view.TableColumns, ","), m.view.TableRows)
	} else {
		cfg := m.charts[m.activeTab-1]
		rng := "full"
		if cfg.Range != nil {
			rng = fmt.Sprintf("%g..%g", cfg.Range.Start, cfg.Range.End)
		}
		trendLabel := string(cfg.Trend)
		if cfg.Trend == model.TrendPolynomial {
			trendLabel = fmt.Sprintf("%s(%d)", cfg.Trend, cfg.Degree)
		}
		summary = fmt.Sprintf("Settings: type=%s  x=%s  y=%s  range=%s  trend=%s",
			cfg.Kind, cfg.XColumn, strings.Join(cfg.YColumns, ","), rng, trendLabel)
		if cfg.SecondaryY {
			summary += "  secondary-y"
		}
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Charts: +/-  Settings: / or enter  Quit: q")
}

func (m *Model) renderFormHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return m.renderFormHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.formMode {
		return fitLines(m.renderForm(), m.width, height)
	}
	if m.activeTab == tabData {
		if m.data.Rows() == 0 {
			return fitLines("No rows found.", m.width, height)
		}
		overview := titleStyle.Render(fmt.Sprintf("Total Rows: %d  Total Columns: %d", m.data.Rows(), len(m.data.Names())))
		view := tableMutedStyle.Render(m.dataTable.View())
		return fitLines(overview+"\n\n"+view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderForm() string {
	title := "Data settings"
	if m.activeTab != tabData {
		title = fmt.Sprintf("Chart %d settings", m.activeTab)
	}
	lines := []string{titleStyle.Render(title) + headerStyle.Render(" (enter to apply, esc to cancel)")}
	for _, input := range m.formInputs {
		lines = append(lines, input.View())
	}
	if m.activeTab != tabData {
		lines = append(lines, "", headerStyle.Render("Numeric columns: "+strings.Join(m.data.NumericNames(), ", ")))
	}
	if m.formError != "" {
		lines = append(lines, errorStyle.Render(m.formError))
	}
	return strings.Join(lines, "\n")
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	if m.activeTab == tabData {
		m.formInputs = []textinput.Model{
			newFormInput("Columns: "),
			newFormInput("Rows: "),
		}
		m.formInputs[fieldColumns].SetValue(strings.Join(m.view.TableColumns, ", "))
		m.formInputs[fieldRows].SetValue(strconv.Itoa(m.view.TableRows))
	} else {
		m.formInputs = []textinput.Model{
			newFormInput("Type (line/bar/scatter): "),
			newFormInput("X column: "),
			newFormInput("Y columns: "),
			newFormInput("Secondary Y (yes/no): "),
			newFormInput("Start: "),
			newFormInput("End: "),
			newFormInput("Trendline (none/linear/average/polynomial): "),
			newFormInput("Degree: "),
		}
		m.setChartInputs(m.charts[m.activeTab-1])
	}
	m.updateLayout()
	return m, m.setFormIndex(0)
}

func (m *Model) setChartInputs(cfg model.ChartConfig) {
	m.formInputs[fieldType].SetValue(string(cfg.Kind))
	m.formInputs[fieldX].SetValue(cfg.XColumn)
	m.formInputs[fieldY].SetValue(strings.Join(cfg.YColumns, ", "))
	m.formInputs[fieldSecondary].SetValue(yesNo(cfg.SecondaryY))
	if cfg.Range != nil {
		m.formInputs[fieldStart].SetValue(formatFloat(cfg.Range.Start))
		m.formInputs[fieldEnd].SetValue(formatFloat(cfg.Range.End))
	} else if lo, hi, err := m.data.Range(cfg.XColumn); err == nil && !math.IsNaN(lo) {
		m.formInputs[fieldStart].SetValue(formatFloat(lo))
		m.formInputs[fieldEnd].SetValue(formatFloat(hi))
	}
	m.formInputs[fieldTrend].SetValue(string(cfg.Trend))
	degree := cfg.Degree
	if degree < 2 {
		degree = model.DefaultDegree
	}
	m.formInputs[fieldDegree].SetValue(strconv.Itoa(degree))
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.formMode = false
		m.formError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	count := len(m.formInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.formIndex = idx
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() error {
	if m.activeTab == tabData {
		return m.applyDataForm()
	}
	cfg, err := m.parseChartForm()
	if err != nil {
		return err
	}
	m.charts[m.activeTab-1] = cfg
	m.logger.WithFields(log.Fields{"chart": m.activeTab, "x": cfg.XColumn, "y": cfg.YColumns}).Debug("chart settings applied")
	return nil
}

func (m *Model) applyDataForm() error {
	names := splitList(m.formInputs[fieldColumns].Value())
	if len(names) == 0 {
		names = m.data.Names()
	}
	for _, name := range names {
		if _, err := m.data.Column(name); err != nil {
			return fmt.Errorf("unknown column %q", name)
		}
	}
	rows, err := strconv.Atoi(strings.TrimSpace(m.formInputs[fieldRows].Value()))
	if err != nil || rows < 1 {
		return fmt.Errorf("invalid rows (use integer >= 1)")
	}
	m.view.TableColumns = names
	m.view.TableRows = rows
	return nil
}

func (m *Model) parseChartForm() (model.ChartConfig, error) {
	value := func(field int) string {
		return strings.TrimSpace(m.formInputs[field].Value())
	}
	kind, err := model.ParseChartKind(value(fieldType))
	if err != nil {
		return model.ChartConfig{}, err
	}
	x := value(fieldX)
	if x == "" {
		return model.ChartConfig{}, chart.ErrNoColumns
	}
	if _, err := m.data.Column(x); err != nil {
		return model.ChartConfig{}, fmt.Errorf("unknown x column %q", x)
	}
	ys := splitList(value(fieldY))
	if len(ys) == 0 {
		return model.ChartConfig{}, chart.ErrNoColumns
	}
	for _, y := range ys {
		if _, err := m.data.Column(y); err != nil {
			return model.ChartConfig{}, fmt.Errorf("unknown y column %q", y)
		}
	}
	secondary, err := parseYesNo(value(fieldSecondary))
	if err != nil {
		return model.ChartConfig{}, err
	}
	trendKind, err := model.ParseTrendKind(value(fieldTrend))
	if err != nil {
		return model.ChartConfig{}, err
	}
	degree := model.DefaultDegree
	if raw := value(fieldDegree); raw != "" {
		degree, err = strconv.Atoi(raw)
		if err != nil || degree < 2 {
			return model.ChartConfig{}, fmt.Errorf("invalid degree (use integer >= 2)")
		}
	}
	rng, err := m.parseRange(x, value(fieldStart), value(fieldEnd))
	if err != nil {
		return model.ChartConfig{}, err
	}
	return model.ChartConfig{
		Kind:       kind,
		XColumn:    x,
		YColumns:   ys,
		SecondaryY: secondary,
		Range:      rng,
		Trend:      trendKind,
		Degree:     degree,
	}, nil
}

// parseRange reads the start and end inputs. Blank bounds fall back to the
// column extent; a reversed pair is swapped.
func (m *Model) parseRange(x, startInput, endInput string) (*model.Range, error) {
	if startInput == "" && endInput == "" {
		return nil, nil
	}
	lo, hi, _ := m.data.Range(x)
	start, end := lo, hi
	if startInput != "" {
		v, err := strconv.ParseFloat(startInput, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid start value (use a number)")
		}
		start = v
	}
	if endInput != "" {
		v, err := strconv.ParseFloat(endInput, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid end value (use a number)")
		}
		end = v
	}
	if math.IsNaN(start) || math.IsNaN(end) {
		return nil, fmt.Errorf("x column %q has no values to take a default range from", x)
	}
	start, end = trend.NormalizeRange(start, end)
	return &model.Range{Start: start, End: end}, nil
}

func buildDataTable(cols []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(dataTableStyles())
	return t
}

func buildDataTableData(data *dataset.Table, names []string, limit int) ([]table.Column, []table.Row, error) {
	head, err := data.Head(names, limit)
	if err != nil {
		return nil, nil, err
	}
	cols := make([]table.Column, len(names))
	for i, name := range names {
		width := runewidth.StringWidth(name)
		for _, row := range head {
			width = max(width, runewidth.StringWidth(row[i]))
		}
		cols[i] = table.Column{Title: name, Width: min(width, maxCellWidth)}
	}
	rows := make([]table.Row, len(head))
	for i, row := range head {
		cells := make(table.Row, len(row))
		for j, cell := range row {
			cells[j] = runewidth.Truncate(cell, maxCellWidth, "…")
		}
		rows[i] = cells
	}
	return cols, rows, nil
}

func dataTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func splitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func parseYesNo(input string) (bool, error) {
	switch strings.ToLower(input) {
	case "", "no", "n", "false", "off":
		return false, nil
	case "yes", "y", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid secondary y value (use yes or no)")
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
