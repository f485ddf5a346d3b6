package analysis

import (
	"fmt"
	"math"
	"sort"
)

// PathwayPoint is one plotted enrichment result. NESText and PText are the
// inspection strings.
type PathwayPoint struct {
	Pathway string  `json:"pathway"`
	NES     float64 `json:"NES"`
	Padj    float64 `json:"padj"`
	NESText string  `json:"nes_text"`
	PText   string  `json:"padj_text"`
}

// PathwayView is the pathway enrichment plot input: points ordered by the
// categorical axis, plus the largest absolute NES for centering a diverging
// color scale at zero.
type PathwayView struct {
	Points    []PathwayPoint `json:"points"`
	MaxAbsNES float64        `json:"max_abs_nes"`
	XLabel    string         `json:"x_label"`
	YLabel    string         `json:"y_label"`
}

// BuildPathwayView orders the filtered rows by ascending total NES per
// pathway (the categorical axis ordering) and computes the color-scale
// extent. Input rows are expected pre-filtered and padj-truncated.
func BuildPathwayView(rows []GSEARecord) PathwayView {
	totals := make(map[string]float64)
	for _, r := range rows {
		totals[r.Pathway] += r.NES
	}

	ordered := make([]GSEARecord, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return totals[ordered[i].Pathway] < totals[ordered[j].Pathway]
	})

	view := PathwayView{
		Points: make([]PathwayPoint, 0, len(ordered)),
		XLabel: "Normalized Enrichment Score (NES)",
		YLabel: "Pathway",
	}
	for _, r := range ordered {
		if abs := math.Abs(r.NES); abs > view.MaxAbsNES {
			view.MaxAbsNES = abs
		}
		view.Points = append(view.Points, PathwayPoint{
			Pathway: r.Pathway,
			NES:     r.NES,
			Padj:    r.Padj,
			NESText: fmt.Sprintf("%.3f", r.NES),
			PText:   fmt.Sprintf("%.3e", r.Padj),
		})
	}
	return view
}
