package ui

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"cellscope/domain/analysis"
)

const (
	chartWidth  = 900
	chartHeight = 600

	// Longest pathway tick label before truncation.
	maxPathwayLabel = 48
)

// Classification and diverging-scale colors. The diverging scale follows
// RdBu reversed: positive NES red, negative blue, white at zero.
var (
	significantColor    = drawing.Color{R: 0xd6, G: 0x27, B: 0x28, A: 255} // #d62728
	notSignificantColor = drawing.Color{R: 0x80, G: 0x80, B: 0x80, A: 255} // grey
	guideColor          = drawing.Color{R: 0xb0, G: 0xb0, B: 0xb0, A: 255}

	divergingHigh = drawing.Color{R: 0xb2, G: 0x18, B: 0x2b, A: 255} // #b2182b
	divergingMid  = drawing.Color{R: 0xf7, G: 0xf7, B: 0xf7, A: 255} // #f7f7f7
	divergingLow  = drawing.Color{R: 0x21, G: 0x66, B: 0xac, A: 255} // #2166ac
)

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func guideStyle() chart.Style {
	return chart.Style{
		StrokeWidth:     1.0,
		StrokeColor:     guideColor,
		StrokeDashArray: []float64{5.0, 5.0},
	}
}

// padRange widens a min/max pair by 5% so dots never sit on the frame, and
// forces a usable span when every value coincides.
func padRange(min, max float64) (float64, float64) {
	if max-min < 1e-9 {
		return min - 1, max + 1
	}
	pad := (max - min) * 0.05
	return min - pad, max + pad
}

// RenderVolcano renders the volcano view as a PNG. Callers must not pass an
// empty point set; the fragment shows the no-data state instead.
func RenderVolcano(view analysis.VolcanoView) ([]byte, error) {
	if len(view.Points) == 0 {
		return nil, fmt.Errorf("no points to render")
	}

	var sigX, sigY, nsX, nsY []float64
	xs := make([]float64, 0, len(view.Points))
	ys := make([]float64, 0, len(view.Points))
	for _, p := range view.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		if p.Label == analysis.Significant {
			sigX = append(sigX, p.X)
			sigY = append(sigY, p.Y)
		} else {
			nsX = append(nsX, p.X)
			nsY = append(nsY, p.Y)
		}
	}

	// Axis ranges cover the points and all three guide lines.
	xMin, xMax := padRange(
		floats.Min(append(xs, -view.GuideLogFC)),
		floats.Max(append(xs, view.GuideLogFC)),
	)
	yMin, yMax := padRange(
		floats.Min(append(ys, view.GuideY)),
		floats.Max(append(ys, view.GuideY)),
	)

	var series []chart.Series
	if len(nsX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    string(analysis.NotSignificant),
			XValues: nsX,
			YValues: nsY,
			Style:   pointStyle(notSignificantColor),
		})
	}
	if len(sigX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    string(analysis.Significant),
			XValues: sigX,
			YValues: sigY,
			Style:   pointStyle(significantColor),
		})
	}

	// Guide lines as two-point series: vertical at ±cutoff, horizontal at
	// the raw slider value.
	series = append(series,
		chart.ContinuousSeries{XValues: []float64{view.GuideLogFC, view.GuideLogFC}, YValues: []float64{yMin, yMax}, Style: guideStyle()},
		chart.ContinuousSeries{XValues: []float64{-view.GuideLogFC, -view.GuideLogFC}, YValues: []float64{yMin, yMax}, Style: guideStyle()},
		chart.ContinuousSeries{XValues: []float64{xMin, xMax}, YValues: []float64{view.GuideY, view.GuideY}, Style: guideStyle()},
	)

	ch := chart.Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  view.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  view.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("volcano render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// divergingColor maps a NES value to the red-white-blue scale centered at
// zero, scaled by the view's largest absolute NES.
func divergingColor(nes, maxAbs float64) drawing.Color {
	if maxAbs <= 0 {
		return divergingMid
	}
	t := nes / maxAbs
	if t > 1 {
		t = 1
	}
	if t < -1 {
		t = -1
	}
	if t >= 0 {
		return lerpColor(divergingMid, divergingHigh, t)
	}
	return lerpColor(divergingMid, divergingLow, -t)
}

func lerpColor(a, b drawing.Color, t float64) drawing.Color {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return drawing.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// truncateLabel shortens long pathway names for the categorical axis.
func truncateLabel(name string) string {
	if len(name) <= maxPathwayLabel {
		return name
	}
	return name[:maxPathwayLabel-1] + "…"
}

// RenderPathways renders the pathway enrichment view as a PNG: one dot per
// pathway at (NES, rank), rank following the view's ascending-total order,
// colored on the diverging scale.
func RenderPathways(view analysis.PathwayView) ([]byte, error) {
	if len(view.Points) == 0 {
		return nil, fmt.Errorf("no points to render")
	}

	xs := make([]float64, 0, len(view.Points))
	ys := make([]float64, 0, len(view.Points))
	ticks := make([]chart.Tick, 0, len(view.Points))
	for i, p := range view.Points {
		xs = append(xs, p.NES)
		ys = append(ys, float64(i))
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: truncateLabel(p.Pathway)})
	}

	// Keep zero inside the x range so the scale's center is visible.
	xMin, xMax := padRange(floats.Min(append(xs, 0)), floats.Max(append(xs, 0)))
	maxAbs := view.MaxAbsNES

	style := pointStyle(divergingMid)
	style.DotWidth = 6
	style.DotColorProvider = func(_, _ chart.Range, _ int, x, _ float64) drawing.Color {
		return divergingColor(x, maxAbs)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "NES",
			XValues: xs,
			YValues: ys,
			Style:   style,
		},
		// Zero line anchors the diverging scale.
		chart.ContinuousSeries{XValues: []float64{0, 0}, YValues: []float64{-1, float64(len(view.Points))}, Style: guideStyle()},
	}

	ch := chart.Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  view.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  view.YLabel,
			Range: &chart.ContinuousRange{Min: -1, Max: float64(len(view.Points))},
			Ticks: ticks,
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("pathway render failed: %w", err)
	}
	return buf.Bytes(), nil
}
