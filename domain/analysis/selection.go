package analysis

import "math"

// Main group and annotation values as they appear in dataset keys.
const (
	MainGroupCD45Pos = "cd45pos"
	MainGroupCD45Neg = "cd45neg"

	AnnotationRRG  = "rrg"
	AnnotationJeff = "jeff"
)

// Slider ranges. Values submitted outside a range clamp to its edges.
const (
	LogFCCutoffMin = 0.0
	LogFCCutoffMax = 4.0

	PValCutoffLogMin = 0.0
	PValCutoffLogMax = 50.0

	PathwayCountMin = 5
	PathwayCountMax = 50
)

// Option is one dropdown entry: the raw value plus its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MainGroupOptions returns the top-level group choices.
func MainGroupOptions() []Option {
	return []Option{
		{Value: MainGroupCD45Pos, Label: "CD45 Positive"},
		{Value: MainGroupCD45Neg, Label: "CD45 Negative"},
	}
}

// AnnotationOptions returns the annotation choices offered for cd45pos.
func AnnotationOptions() []Option {
	return []Option{
		{Value: AnnotationRRG, Label: "RRG Cell"},
		{Value: AnnotationJeff, Label: "Jeff Cell"},
	}
}

// Selection holds the user's current cascade position. Zero values mean
// "not chosen yet"; normalization resolves them to deterministic defaults.
type Selection struct {
	MainGroup      string `json:"main_group"`
	AnnotationType string `json:"annotation_type"`
	CellType       string `json:"cell_type"`
	Comp1          string `json:"comp1"`
	Comp2          string `json:"comp2"`
}

// Dataset resolves the effective dataset key. cd45pos combines with the
// annotation type; cd45neg always maps to cd45neg_rrg regardless of any
// annotation value held over from a previous cd45pos state.
func (s Selection) Dataset() string {
	if s.MainGroup == MainGroupCD45Neg {
		return DatasetCD45NegRRG
	}
	if s.AnnotationType == AnnotationJeff {
		return DatasetCD45PosJeff
	}
	return DatasetCD45PosRRG
}

// Key returns the four-field filter key for the current selection.
func (s Selection) Key() FilterKey {
	return FilterKey{Dataset: s.Dataset(), CellType: s.CellType, Comp1: s.Comp1, Comp2: s.Comp2}
}

// Thresholds holds the three numeric controls. PValCutoffLog is the slider
// value in -log10 space; the probability-space cutoff is derived from it.
type Thresholds struct {
	LogFCCutoff   float64 `json:"logfc_cutoff"`
	PValCutoffLog float64 `json:"pval_cutoff_log"`
	PathwayCount  int     `json:"gsea_pathway_count"`
}

// DefaultThresholds mirrors the control defaults: logFC 0.5, p-value slider
// at -log10(0.05), 20 pathways.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LogFCCutoff:   0.5,
		PValCutoffLog: -math.Log10(0.05),
		PathwayCount:  20,
	}
}

// PValCutoff converts the -log10 slider value back to probability space.
// The conversion feeds both the classifier and the plotted guide lines, so
// it must stay exact (10^-x, no rounding).
func (t Thresholds) PValCutoff() float64 {
	return CutoffFromLog10(t.PValCutoffLog)
}

// Clamped returns a copy with every control forced into its slider range.
func (t Thresholds) Clamped() Thresholds {
	c := t
	c.LogFCCutoff = clampFloat(c.LogFCCutoff, LogFCCutoffMin, LogFCCutoffMax)
	c.PValCutoffLog = clampFloat(c.PValCutoffLog, PValCutoffLogMin, PValCutoffLogMax)
	c.PathwayCount = clampInt(c.PathwayCount, PathwayCountMin, PathwayCountMax)
	return c
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
