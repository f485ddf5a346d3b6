package analysis

import (
	"github.com/montanaflynn/stats"
)

// SelectionSummary carries the descriptive statistics shown alongside the
// volcano view for the current filtered comparison.
type SelectionSummary struct {
	Rows           int     `json:"rows"`
	Significant    int     `json:"significant"`
	NotSignificant int     `json:"not_significant"`
	UpRegulated    int     `json:"up_regulated"`
	DownRegulated  int     `json:"down_regulated"`
	MeanLogFC      float64 `json:"mean_log2fc"`
	MedianLogFC    float64 `json:"median_log2fc"`
	MinLogFC       float64 `json:"min_log2fc"`
	MaxLogFC       float64 `json:"max_log2fc"`
}

// Summarize computes the summary for one filtered DGE set. Up/down counts
// split the Significant rows by fold-change sign. Empty input returns the
// zero summary.
func Summarize(rows []DGERecord, t Thresholds) SelectionSummary {
	s := SelectionSummary{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}

	fcs := make([]float64, 0, len(rows))
	for _, r := range rows {
		fcs = append(fcs, r.AvgLog2FC)
		if Classify(r, t) == Significant {
			s.Significant++
			if r.AvgLog2FC > 0 {
				s.UpRegulated++
			} else {
				s.DownRegulated++
			}
		}
	}
	s.NotSignificant = s.Rows - s.Significant

	s.MeanLogFC, _ = stats.Mean(fcs)
	s.MedianLogFC, _ = stats.Median(fcs)
	s.MinLogFC, _ = stats.Min(fcs)
	s.MaxLogFC, _ = stats.Max(fcs)
	return s
}
