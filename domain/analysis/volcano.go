package analysis

import (
	"fmt"
	"math"
)

// FallbackEpsilon is the log-transform offset used when a filtered set has
// no strictly-positive adjusted p-value at all. Small enough never to mask
// a real minimum, large enough to keep -log10 finite.
const FallbackEpsilon = 1e-300

// VolcanoPoint is one plotted gene. X is the raw fold change, Y the
// epsilon-shifted -log10 adjusted p-value. FCText and PText are the
// inspection strings (fold change to three decimals, p-value in
// three-significant-digit scientific notation).
type VolcanoPoint struct {
	Gene   string            `json:"gene"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Label  SignificanceLabel `json:"label"`
	FCText string            `json:"avg_log2FC"`
	PText  string            `json:"p_val_adj"`
}

// VolcanoView is everything a renderer needs for the volcano plot: the
// classified points, the epsilon used for this filtered set, and the three
// guide-line positions.
type VolcanoView struct {
	Points  []VolcanoPoint `json:"points"`
	Epsilon float64        `json:"epsilon"`

	// GuideLogFC places the two vertical lines at ±GuideLogFC. GuideY is
	// the horizontal line position: the raw -log10 slider value, not
	// -log10 of the epsilon-shifted cutoff.
	GuideLogFC float64 `json:"guide_logfc"`
	GuideY     float64 `json:"guide_y"`

	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
}

// FilteredEpsilon returns the smallest strictly-positive adjusted p-value
// in the filtered set. It is a pure function of the rows passed in and is
// recomputed for every filtered set, never carried over from a different
// selection.
func FilteredEpsilon(rows []DGERecord) float64 {
	eps := math.Inf(1)
	for _, r := range rows {
		if r.PValAdj > 0 && r.PValAdj < eps {
			eps = r.PValAdj
		}
	}
	if math.IsInf(eps, 1) {
		return FallbackEpsilon
	}
	return eps
}

// BuildVolcano classifies the filtered rows and maps them into plot space.
// Empty input yields an empty point set; callers should show the no-data
// state instead of rendering.
func BuildVolcano(rows []DGERecord, t Thresholds) VolcanoView {
	view := VolcanoView{
		Points:     make([]VolcanoPoint, 0, len(rows)),
		Epsilon:    FilteredEpsilon(rows),
		GuideLogFC: t.LogFCCutoff,
		GuideY:     t.PValCutoffLog,
		XLabel:     "Log2 Fold Change",
		YLabel:     "-log10(Adjusted P-value)",
	}
	for _, r := range rows {
		view.Points = append(view.Points, VolcanoPoint{
			Gene:   r.Gene,
			X:      r.AvgLog2FC,
			Y:      -math.Log10(r.PValAdj + view.Epsilon),
			Label:  Classify(r, t),
			FCText: fmt.Sprintf("%.3f", r.AvgLog2FC),
			PText:  fmt.Sprintf("%.3e", r.PValAdj),
		})
	}
	return view
}
