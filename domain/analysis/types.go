// Package analysis holds the result-table model and the pure
// selection/filter/classification logic of the explorer. Nothing in this
// package touches storage or HTTP; adapters feed it immutable rows and
// handlers consume the derived views.
package analysis

// Dataset keys. Each key identifies one pair of source files (DGE + GSEA)
// and partitions both tables: a row belongs to exactly one dataset.
const (
	DatasetCD45PosRRG  = "cd45pos_rrg"
	DatasetCD45PosJeff = "cd45pos_jeff"
	DatasetCD45NegRRG  = "cd45neg_rrg"
)

// DatasetKeys returns the fixed dataset ordering used for loading and
// union assembly. Union row order follows this ordering.
func DatasetKeys() []string {
	return []string{DatasetCD45PosRRG, DatasetCD45PosJeff, DatasetCD45NegRRG}
}

// DGERecord is one row of differential-expression results.
type DGERecord struct {
	Dataset   string  `db:"dataset" json:"dataset"`
	CellType  string  `db:"cell_type" json:"cell_type"`
	Comp1     string  `db:"comp1" json:"comp1"`
	Comp2     string  `db:"comp2" json:"comp2"`
	Gene      string  `db:"gene" json:"gene"`
	AvgLog2FC float64 `db:"avg_log2fc" json:"avg_log2FC"`
	PValAdj   float64 `db:"p_val_adj" json:"p_val_adj"`
}

// GSEARecord is one row of pathway enrichment results. Pathway carries the
// source Term column; PathName is the separate display column shown in the
// results table. LeadGenes, TagPct and GenePct are opaque display fields.
type GSEARecord struct {
	Dataset   string  `db:"dataset" json:"dataset"`
	CellType  string  `db:"cell_type" json:"cell_type"`
	Comp1     string  `db:"comp1" json:"comp1"`
	Comp2     string  `db:"comp2" json:"comp2"`
	Pathway   string  `db:"pathway" json:"pathway"`
	PathName  string  `db:"path_name" json:"path_name"`
	Reference string  `db:"reference" json:"reference"`
	NES       float64 `db:"nes" json:"NES"`
	Padj      float64 `db:"padj" json:"padj"`
	LeadGenes string  `db:"lead_genes" json:"lead_genes"`
	TagPct    string  `db:"tag_pct" json:"tag_pct"`
	GenePct   string  `db:"gene_pct" json:"gene_pct"`
}

// Tables is the pair of unified result tables. Immutable after load: every
// downstream component derives filtered views and never mutates rows.
type Tables struct {
	DGE  []DGERecord
	GSEA []GSEARecord
}

// FilterKey identifies one comparison: the four exact-match fields shared by
// both tables.
type FilterKey struct {
	Dataset  string
	CellType string
	Comp1    string
	Comp2    string
}

// Matches reports whether a DGE row belongs to the keyed comparison.
func (k FilterKey) Matches(r DGERecord) bool {
	return r.Dataset == k.Dataset && r.CellType == k.CellType && r.Comp1 == k.Comp1 && r.Comp2 == k.Comp2
}

// MatchesGSEA reports whether a GSEA row belongs to the keyed comparison.
func (k FilterKey) MatchesGSEA(r GSEARecord) bool {
	return r.Dataset == k.Dataset && r.CellType == k.CellType && r.Comp1 == k.Comp1 && r.Comp2 == k.Comp2
}

// DatasetInfo describes one loaded dataset for status endpoints.
type DatasetInfo struct {
	Key      string `json:"key"`
	DGERows  int    `json:"dge_rows"`
	GSEARows int    `json:"gsea_rows"`
}
