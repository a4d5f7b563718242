// Package main provides the CLI entrypoint for trendplot.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/trendplot/internal/chart"
	"github.com/verte-zerg/trendplot/internal/chartui"
	"github.com/verte-zerg/trendplot/internal/config"
	"github.com/verte-zerg/trendplot/internal/model"
	"github.com/verte-zerg/trendplot/internal/table"
)

var (
	configPath string
	logLevel   string
	logFile    string

	viewSamples          int
	viewPrecision        int
	viewSummaryPrecision int
	viewHeight           int
	viewWorkers          int
	viewTableRows        int
	viewTableColumns     []string

	csvDelimiter string
	csvMaxRows   int

	chartType       string
	chartX          string
	chartY          []string
	chartSecondaryY bool
	chartStart      float64
	chartEnd        float64
	chartTrend      string
	chartDegree     int

	reportWidth int
	reportColor bool

	exportDir    string
	exportWidth  int
	exportHeight int

	columnsRows int
)

var chartFlags = []string{"type", "x", "y", "secondary-y", "start", "end", "trendline", "degree"}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultViewConfig()
	rootCmd := &cobra.Command{
		Use:           "trendplot <file.csv>",
		Short:         "Chart CSV columns with trendlines in the terminal",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runUICmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file (interactive mode discards logs by default)")

	pf.IntVar(&viewSamples, "samples", defaults.Samples, "points used to draw polynomial trendlines")
	pf.IntVar(&viewPrecision, "precision", defaults.Precision, "decimals in trendline equations")
	pf.IntVar(&viewSummaryPrecision, "summary-precision", defaults.SummaryPrecision, "decimals in summary statistics")
	pf.IntVar(&viewHeight, "height", defaults.PlotHeight, "plot height in rows")
	pf.IntVar(&viewWorkers, "workers", defaults.Workers, "charts computed in parallel")
	pf.IntVar(&viewTableRows, "table-rows", defaults.TableRows, "rows shown in the data table")
	pf.StringSliceVar(&viewTableColumns, "table-columns", nil, "columns shown in the data table (default: all)")

	pf.StringVar(&csvDelimiter, "delimiter", ",", "CSV field delimiter")
	pf.IntVar(&csvMaxRows, "max-rows", 0, "read at most this many data rows (0: all)")

	pf.StringVar(&chartType, "type", string(model.ChartLine), "chart type (line, bar, scatter)")
	pf.StringVar(&chartX, "x", "", "x-axis column (default: "+table.DefaultIndexColumn+")")
	pf.StringSliceVar(&chartY, "y", nil, "y-axis columns")
	pf.BoolVar(&chartSecondaryY, "secondary-y", false, "draw the second y column on a secondary axis")
	pf.Float64Var(&chartStart, "start", 0, "start of the x range (default: column minimum)")
	pf.Float64Var(&chartEnd, "end", 0, "end of the x range (default: column maximum)")
	pf.StringVar(&chartTrend, "trendline", string(model.TrendNone), "trendline (none, linear, average, polynomial)")
	pf.IntVar(&chartDegree, "degree", model.DefaultDegree, "polynomial trendline degree")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newColumnsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// session bundles what every data command needs.
type session struct {
	logger *log.Entry
	data   *table.Table
	charts []model.ChartConfig
	view   model.ViewConfig
}

func loadSession(cmd *cobra.Command, path string, logOut io.Writer) (*session, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	view, err := resolveView(cmd, fileCfg)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(logOut)
	if err != nil {
		return nil, err
	}

	opts, err := tableOptions()
	if err != nil {
		return nil, err
	}
	data, err := table.Load(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	logger.WithFields(log.Fields{"file": path, "rows": data.Rows(), "columns": len(data.Names())}).Debug("data loaded")

	charts, err := resolveCharts(cmd, fileCfg, data)
	if err != nil {
		return nil, err
	}
	return &session{logger: logger, data: data, charts: charts, view: view}, nil
}

func runUICmd(cmd *cobra.Command, args []string) error {
	logOut, closeLog, err := openLogFile()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := loadSession(cmd, args[0], logOut)
	if err != nil {
		return err
	}
	ui := chartui.NewModel(s.logger, s.data, filepath.Base(args[0]), s.charts, s.view)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <file.csv>",
		Short: "Print charts, trendlines and summaries as text",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().IntVar(&reportWidth, "width", 0, "plot width in columns (default: terminal width)")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored output")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	report := chart.BuildReport(cmd.Context(), s.logger, s.data, s.charts, s.view)
	opts := chart.OptionsFor(s.view, reportWidth, reportColor)
	if err := chart.RenderReport(cmd.OutOrStdout(), report, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Render each chart to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportDir, "out", ".", "output directory")
	cmd.Flags().IntVar(&exportWidth, "png-width", chart.DefaultPNGWidth, "image width in pixels")
	cmd.Flags().IntVar(&exportHeight, "png-height", chart.DefaultPNGHeight, "image height in pixels")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	if exportWidth <= 0 || exportHeight <= 0 {
		return fmt.Errorf("--png-width and --png-height must be > 0")
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	report := chart.BuildReport(cmd.Context(), s.logger, s.data, s.charts, s.view)
	failed := 0
	for _, cr := range report.Charts {
		outPath := filepath.Join(exportDir, fmt.Sprintf("chart-%d.png", cr.Index+1))
		if err := writePNG(outPath, cr); err != nil {
			s.logger.WithError(err).WithField("file", outPath).Error("export failed")
			failed++
			continue
		}
		s.logger.WithField("file", outPath).Info("chart exported")
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), outPath); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d charts could not be exported", failed, len(report.Charts))
	}
	return nil
}

func writePNG(path string, cr chart.ChartReport) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "chart-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp image: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := chart.RenderPNG(tmpFile, cr, exportWidth, exportHeight); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func newColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns <file.csv>",
		Short: "Show row/column counts and column details",
		Args:  cobra.ExactArgs(1),
		RunE:  runColumnsCmd,
	}
	cmd.Flags().IntVar(&columnsRows, "rows", 0, "also print the first N rows of the table columns")
	return cmd
}

func runColumnsCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := chart.RenderOverview(out, s.data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if columnsRows <= 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := chart.RenderHead(out, s.data, s.view.TableColumns, columnsRows); err != nil {
		return fmt.Errorf("failed to print rows: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLogger(out io.Writer) (*log.Entry, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return logger.WithField("app", "trendplot"), nil
}

// openLogFile returns the log destination for interactive mode. Logs would
// corrupt the alt screen, so they are discarded unless --log-file is set.
func openLogFile() (io.Writer, func(), error) {
	if logFile == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func tableOptions() (*table.Options, error) {
	if utf8.RuneCountInString(csvDelimiter) != 1 {
		return nil, fmt.Errorf("--delimiter must be a single character")
	}
	if csvMaxRows < 0 {
		return nil, fmt.Errorf("--max-rows must be >= 0")
	}
	opts := table.DefaultOptions()
	opts.Delimiter, _ = utf8.DecodeRuneInString(csvDelimiter)
	opts.MaxRows = csvMaxRows
	return opts, nil
}

func resolveView(cmd *cobra.Command, fileCfg config.FileConfig) (model.ViewConfig, error) {
	applyIntConfig(cmd, "samples", &viewSamples, fileCfg.View.Samples)
	applyIntConfig(cmd, "precision", &viewPrecision, fileCfg.View.Precision)
	applyIntConfig(cmd, "summary-precision", &viewSummaryPrecision, fileCfg.View.SummaryPrecision)
	applyIntConfig(cmd, "height", &viewHeight, fileCfg.View.Height)
	applyIntConfig(cmd, "workers", &viewWorkers, fileCfg.View.Workers)
	applyIntConfig(cmd, "table-rows", &viewTableRows, fileCfg.View.TableRows)
	applyStringsConfig(cmd, "table-columns", &viewTableColumns, fileCfg.View.TableColumns)

	view := model.ViewConfig{
		Samples:          viewSamples,
		Precision:        viewPrecision,
		SummaryPrecision: viewSummaryPrecision,
		PlotHeight:       viewHeight,
		Workers:          viewWorkers,
		TableRows:        viewTableRows,
		TableColumns:     viewTableColumns,
	}
	if err := view.Validate(); err != nil {
		return model.ViewConfig{}, err
	}
	return view, nil
}

// resolveCharts picks the charts to draw: one chart from the chart flags when
// any is given, else the config presets, else a default chart.
func resolveCharts(cmd *cobra.Command, fileCfg config.FileConfig, data *table.Table) ([]model.ChartConfig, error) {
	fallback := chart.DefaultConfig(data)
	if !anyChanged(cmd, chartFlags) {
		charts, err := fileCfg.ChartConfigs(fallback.XColumn)
		if err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		if len(charts) > 0 {
			return charts, nil
		}
	}

	kind, err := model.ParseChartKind(chartType)
	if err != nil {
		return nil, fmt.Errorf("invalid --type: %w", err)
	}
	trendKind, err := model.ParseTrendKind(chartTrend)
	if err != nil {
		return nil, fmt.Errorf("invalid --trendline: %w", err)
	}
	cfg := fallback
	cfg.Kind = kind
	cfg.Trend = trendKind
	cfg.Degree = chartDegree
	cfg.SecondaryY = chartSecondaryY
	if chartX != "" {
		cfg.XColumn = chartX
	}
	if len(chartY) > 0 {
		cfg.YColumns = chartY
	}
	startSet, endSet := cmd.Flags().Changed("start"), cmd.Flags().Changed("end")
	if startSet || endSet {
		lo, hi, err := data.Range(cfg.XColumn)
		if err != nil {
			return nil, fmt.Errorf("invalid --x: %w", err)
		}
		start, end := lo, hi
		if startSet {
			start = chartStart
		}
		if endSet {
			end = chartEnd
		}
		cfg.Range = &model.Range{Start: start, End: end}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return []model.ChartConfig{cfg}, nil
}

func anyChanged(cmd *cobra.Command, names []string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), value...)
}

func defaultConfigTemplate() string {
	defaults := model.DefaultViewConfig()
	return fmt.Sprintf(`# trendplot configuration
# Uncomment a value to enable it. CLI flags override config values.

[view]
# samples = %d             # Points used to draw polynomial trendlines
# precision = %d             # Decimals in trendline equations
# summary-precision = %d     # Decimals in summary statistics
# height = %d               # Plot height in rows
# workers = %d               # Charts computed in parallel
# table-rows = %d           # Rows shown in the data table
# table-columns = ["a", "b"] # Columns shown in the data table (default: all)

# Up to %d charts. Each [[chart]] becomes a tab in the interactive view.
# [[chart]]
# type = "line"              # line, bar or scatter
# x = %q                 # X-axis column
# y = ["sales"]              # Y-axis columns
# secondary-y = false        # Draw the second y column on its own axis
# start = 0.0                # X range; start and end go together
# end = 100.0
# trendline = "linear"       # none, linear, average or polynomial
# degree = %d                # Polynomial degree (>= 2)
`,
		defaults.Samples,
		defaults.Precision,
		defaults.SummaryPrecision,
		defaults.PlotHeight,
		defaults.Workers,
		defaults.TableRows,
		model.MaxCharts,
		table.DefaultIndexColumn,
		model.DefaultDegree,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
