package analysis

import "sort"

// Option derivation for the cascading dropdowns. Each level's valid set is
// the distinct values observed in DGE rows matching all upstream choices,
// sorted lexicographically. Recomputed from the tables on every request so
// no stale option state can survive an upstream change.

// DistinctCellTypes returns the sorted distinct cell types within a dataset.
func DistinctCellTypes(dge []DGERecord, dataset string) []string {
	seen := make(map[string]bool)
	for _, r := range dge {
		if r.Dataset == dataset {
			seen[r.CellType] = true
		}
	}
	return sortedKeys(seen)
}

// DistinctComp1 returns the sorted distinct comp1 values for a dataset and
// cell type.
func DistinctComp1(dge []DGERecord, dataset, cellType string) []string {
	seen := make(map[string]bool)
	for _, r := range dge {
		if r.Dataset == dataset && r.CellType == cellType {
			seen[r.Comp1] = true
		}
	}
	return sortedKeys(seen)
}

// DistinctComp2 returns the sorted distinct comp2 values paired with the
// given comp1 under a dataset and cell type. Never empty when comp1 itself
// came out of DistinctComp1 for the same upstream values.
func DistinctComp2(dge []DGERecord, dataset, cellType, comp1 string) []string {
	seen := make(map[string]bool)
	for _, r := range dge {
		if r.Dataset == dataset && r.CellType == cellType && r.Comp1 == comp1 {
			seen[r.Comp2] = true
		}
	}
	return sortedKeys(seen)
}

// NormalizeChoice keeps current if it is still a valid option, otherwise
// falls back to the first sorted option. Empty valid set yields "".
func NormalizeChoice(current string, valid []string) string {
	for _, v := range valid {
		if v == current {
			return current
		}
	}
	if len(valid) == 0 {
		return ""
	}
	return valid[0]
}

// OptionSets is the full set of valid choices for one normalized selection.
// Annotations is nil when the main group does not offer an annotation
// choice (cd45neg has a single dataset).
type OptionSets struct {
	MainGroups  []Option `json:"main_groups"`
	Annotations []Option `json:"annotations,omitempty"`
	CellTypes   []string `json:"cell_types"`
	Comp1Values []string `json:"comp1_values"`
	Comp2Values []string `json:"comp2_values"`
}

// DeriveOptions walks the cascade over the DGE table: it validates each
// level against the options implied by the levels above it, resetting any
// dangling value to the first sorted option, and returns both the option
// sets and the normalized selection.
func DeriveOptions(dge []DGERecord, sel Selection) (OptionSets, Selection) {
	opts := OptionSets{MainGroups: MainGroupOptions()}

	if sel.MainGroup != MainGroupCD45Neg {
		sel.MainGroup = MainGroupCD45Pos
		opts.Annotations = AnnotationOptions()
		if sel.AnnotationType != AnnotationJeff {
			sel.AnnotationType = AnnotationRRG
		}
	}

	dataset := sel.Dataset()

	opts.CellTypes = DistinctCellTypes(dge, dataset)
	sel.CellType = NormalizeChoice(sel.CellType, opts.CellTypes)

	opts.Comp1Values = DistinctComp1(dge, dataset, sel.CellType)
	sel.Comp1 = NormalizeChoice(sel.Comp1, opts.Comp1Values)

	opts.Comp2Values = DistinctComp2(dge, dataset, sel.CellType, sel.Comp1)
	sel.Comp2 = NormalizeChoice(sel.Comp2, opts.Comp2Values)

	return opts, sel
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
