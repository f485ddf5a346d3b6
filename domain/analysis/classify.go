package analysis

import "math"

// SignificanceLabel is the two-class verdict attached to each DGE row.
type SignificanceLabel string

const (
	Significant    SignificanceLabel = "Significant"
	NotSignificant SignificanceLabel = "Not Significant"
)

// CutoffFromLog10 converts a -log10 cutoff into probability space. Inverse
// of -log10 within floating-point tolerance, so a slider at -log10(0.05)
// recovers exactly 0.05.
func CutoffFromLog10(v float64) float64 {
	return math.Pow(10, -v)
}

// Classify labels one row: Significant requires the adjusted p-value
// strictly under the cutoff AND the absolute fold change strictly over the
// logFC cutoff. Both comparisons are strict, so tightening either threshold
// can only demote rows, never promote them.
func Classify(r DGERecord, t Thresholds) SignificanceLabel {
	if r.PValAdj < t.PValCutoff() && math.Abs(r.AvgLog2FC) > t.LogFCCutoff {
		return Significant
	}
	return NotSignificant
}

// CountSignificant returns how many rows classify as Significant.
func CountSignificant(rows []DGERecord, t Thresholds) int {
	n := 0
	for _, r := range rows {
		if Classify(r, t) == Significant {
			n++
		}
	}
	return n
}
