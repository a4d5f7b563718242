// Package chart builds chart reports and renders them as text or images.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/trendplot/internal/trend"
)

// Mark selects how a layer's points are drawn.
type Mark int

const (
	MarkLine Mark = iota
	MarkScatter
	MarkBar
)

// Layer is one named set of points on a plot.
type Layer struct {
	Name      string
	Points    []trend.Point
	Mark      Mark
	Secondary bool
	Trend     bool
}

// Plot describes a text chart: a shared x range and the layers drawn on it.
type Plot struct {
	Title  string
	XLabel string
	XMin   float64
	XMax   float64
	Layers []Layer
}

type axisRange struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 9
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	trendColor          = "\x1b[31m"
	terminalWidthBackup = 80
)

var (
	solidStyle  = lineStyle{name: "solid", period: 1, on: 1}
	dashedStyle = lineStyle{name: "dashed", period: 6, on: 3}
)

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// RenderPlot renders a multi-line braille plot. Layers on the primary axis
// share one y scale; secondary layers get their own scale, labelled on the
// right.
func RenderPlot(w io.Writer, p Plot, width, height int, forceColor bool) error {
	layers := filterLayers(p.Layers)
	if len(layers) == 0 {
		return nil
	}

	hasSecondary := false
	for _, l := range layers {
		if l.Secondary {
			hasSecondary = true
		}
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), hasSecondary)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	xr := axisRange{min: p.XMin, max: p.XMax}
	if !(xr.max > xr.min) {
		xr = pointsRange(layers, func(pt trend.Point) float64 { return pt.X }, func(Layer) bool { return true })
	}
	primary := pointsRange(layers, func(pt trend.Point) float64 { return pt.Y }, func(l Layer) bool { return !l.Secondary })
	secondary := pointsRange(layers, func(pt trend.Point) float64 { return pt.Y }, func(l Layer) bool { return l.Secondary })

	dotsW, dotsH := width*2, height*4
	layerCells := make([][][]uint8, len(layers))
	for li, layer := range layers {
		cells := makeCells(height, width)
		layerCells[li] = cells
		yr := primary
		if layer.Secondary {
			yr = secondary
		}
		col := func(x float64) int { return valueToCol(x, xr.min, xr.max, dotsW) }
		row := func(y float64) int { return valueToRow(y, yr.min, yr.max, dotsH) }

		switch layer.Mark {
		case MarkScatter:
			for _, pt := range layer.Points {
				setBrailleDot(cells, col(pt.X), row(pt.Y))
			}
		case MarkBar:
			base := row(baseline(yr))
			for _, pt := range layer.Points {
				cx := col(pt.X)
				drawLine(cx, base, cx, row(pt.Y), func(dx, dy int) {
					setBrailleDot(cells, dx, dy)
				})
			}
		default:
			style := solidStyle
			if layer.Trend {
				style = dashedStyle
			}
			prevX, prevY := -1, -1
			for _, pt := range layer.Points {
				px, py := col(pt.X), row(pt.Y)
				if prevX >= 0 {
					drawLine(prevX, prevY, px, py, func(dx, dy int) {
						if style.shouldPlot(dx) {
							setBrailleDot(cells, dx, dy)
						}
					})
				} else {
					setBrailleDot(cells, px, py)
				}
				prevX, prevY = px, py
			}
		}
	}

	useColor := shouldUseColor(w, forceColor)
	leftLabels := makeAxisLabels(height, primary)
	var rightLabels []string
	if hasSecondary {
		rightLabels = makeAxisLabels(height, secondary)
	}

	if p.Title != "" {
		if _, err := fmt.Fprintln(w, p.Title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var line strings.Builder
		line.WriteString(padLeft(leftLabels[y], axisLabelWidth))
		line.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, idx := composeCell(layerCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && idx >= 0 {
				line.WriteString(layerColor(layers, idx))
				line.WriteRune(ch)
				line.WriteString(colorReset)
			} else {
				line.WriteRune(ch)
			}
		}
		if hasSecondary {
			line.WriteString(axisSeparator)
			line.WriteString(rightLabels[y])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderXAxis(xr, width, p.XLabel)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(layers, useColor)); err != nil {
		return err
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int, secondary bool) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + runewidth.StringWidth(axisSeparator)
	if secondary {
		axisWidth *= 2
	}
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func filterLayers(layers []Layer) []Layer {
	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if len(l.Points) == 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}

func pointsRange(layers []Layer, value func(trend.Point) float64, include func(Layer) bool) axisRange {
	r := axisRange{min: math.Inf(1), max: math.Inf(-1)}
	for _, l := range layers {
		if !include(l) {
			continue
		}
		for _, pt := range l.Points {
			v := value(pt)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r.min = math.Min(r.min, v)
			r.max = math.Max(r.max, v)
		}
	}
	if math.IsInf(r.min, 1) {
		return axisRange{min: 0, max: 1}
	}
	if math.Abs(r.max-r.min) < 1e-9 {
		r.min--
		r.max++
	}
	return r
}

func baseline(r axisRange) float64 {
	if r.min <= 0 && r.max >= 0 {
		return 0
	}
	return r.min
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func layerColor(layers []Layer, idx int) string {
	if layers[idx].Trend {
		return trendColor
	}
	return colorPalette[idx%len(colorPalette)].code
}

func formatAxisValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', 4, 64)
	if runewidth.StringWidth(s) > axisLabelWidth {
		s = strconv.FormatFloat(v, 'e', 1, 64)
	}
	return s
}

func makeAxisLabels(height int, r axisRange) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatAxisValue(r.max)
	if height > 2 {
		labels[height/2] = formatAxisValue(r.max - (r.max-r.min)*float64(height/2)/float64(height-1))
	}
	if height > 1 {
		labels[height-1] = formatAxisValue(r.min)
	}
	return labels
}

func renderXAxis(r axisRange, width int, label string) string {
	left := formatAxisValue(r.min)
	right := formatAxisValue(r.max)
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	prefix := strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))
	line := prefix + left + strings.Repeat(" ", gap) + right
	if label != "" {
		line += "  " + label
	}
	return line
}

func padLeft(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(layerCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range layerCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func valueToCol(v, minVal, maxVal float64, width int) int {
	if width <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	col := int(math.Round(pos * float64(width-1)))
	if col < 0 {
		col = 0
	}
	if col >= width {
		col = width - 1
	}
	return col
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(layers []Layer, useColor bool) string {
	parts := make([]string, 0, len(layers))
	marker := brailleFromMask(0x01)
	for i, l := range layers {
		label := fmt.Sprintf("%c %s (%s)", marker, l.Name, legendStyle(l))
		if l.Secondary {
			label += " [right axis]"
		}
		if useColor {
			label = layerColor(layers, i) + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func legendStyle(l Layer) string {
	switch {
	case l.Trend:
		return dashedStyle.name
	case l.Mark == MarkScatter:
		return "points"
	case l.Mark == MarkBar:
		return "bars"
	default:
		return solidStyle.name
	}
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) {
		return
	}
	if cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
