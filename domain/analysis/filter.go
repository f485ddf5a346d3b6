package analysis

import "sort"

// FilterDGE returns the DGE rows matching the key exactly, in table order.
// No match yields an empty slice, never an error: the caller surfaces a
// "no data" state instead of plotting.
func FilterDGE(dge []DGERecord, key FilterKey) []DGERecord {
	out := make([]DGERecord, 0)
	for _, r := range dge {
		if key.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterGSEA returns the GSEA rows matching the key, sorted ascending by
// padj and truncated to at most limit rows. Ties keep table order.
func FilterGSEA(gsea []GSEARecord, key FilterKey, limit int) []GSEARecord {
	out := make([]GSEARecord, 0)
	for _, r := range gsea {
		if key.MatchesGSEA(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Padj < out[j].Padj })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
