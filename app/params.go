package app

import (
	"net/url"
	"strconv"

	"cellscope/domain/analysis"
)

// Query parameter names shared by the dashboard fragments, chart endpoints,
// exports and the JSON API. The whole selection travels in the query string
// on every request; the server keeps no selection state.
const (
	ParamMainGroup      = "main_group"
	ParamAnnotationType = "annotation_type"
	ParamCellType       = "cell_type"
	ParamComp1          = "comp1"
	ParamComp2          = "comp2"
	ParamLogFCCutoff    = "logfc_cutoff"
	ParamPValCutoffLog  = "pval_cutoff_log"
	ParamPathwayCount   = "gsea_pathway_count"
)

// SelectionFromQuery reads the cascade position from query parameters.
// Absent parameters stay zero; normalization resolves them downstream.
func SelectionFromQuery(q url.Values) analysis.Selection {
	return analysis.Selection{
		MainGroup:      q.Get(ParamMainGroup),
		AnnotationType: q.Get(ParamAnnotationType),
		CellType:       q.Get(ParamCellType),
		Comp1:          q.Get(ParamComp1),
		Comp2:          q.Get(ParamComp2),
	}
}

// ThresholdsFromQuery reads the three controls from query parameters.
// Absent or unparseable values fall back to the defaults; everything is
// clamped into the slider ranges.
func ThresholdsFromQuery(q url.Values) analysis.Thresholds {
	t := analysis.DefaultThresholds()

	if raw := q.Get(ParamLogFCCutoff); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			t.LogFCCutoff = v
		}
	}
	if raw := q.Get(ParamPValCutoffLog); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			t.PValCutoffLog = v
		}
	}
	if raw := q.Get(ParamPathwayCount); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			t.PathwayCount = v
		}
	}

	return t.Clamped()
}

// QueryFromState encodes a normalized selection plus thresholds back into
// query parameters, so fragments can link charts and exports to the exact
// state they were computed from.
func QueryFromState(sel analysis.Selection, t analysis.Thresholds) url.Values {
	q := url.Values{}
	q.Set(ParamMainGroup, sel.MainGroup)
	if sel.AnnotationType != "" {
		q.Set(ParamAnnotationType, sel.AnnotationType)
	}
	q.Set(ParamCellType, sel.CellType)
	q.Set(ParamComp1, sel.Comp1)
	q.Set(ParamComp2, sel.Comp2)
	q.Set(ParamLogFCCutoff, strconv.FormatFloat(t.LogFCCutoff, 'f', -1, 64))
	q.Set(ParamPValCutoffLog, strconv.FormatFloat(t.PValCutoffLog, 'f', -1, 64))
	q.Set(ParamPathwayCount, strconv.Itoa(t.PathwayCount))
	return q
}
