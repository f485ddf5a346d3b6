package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"cellscope/domain/analysis"
)

// ResultGeneratorConfig configures the synthetic result generator
type ResultGeneratorConfig struct {
	GenesPerComparison    int     `json:"genes_per_comparison"`
	PathwaysPerComparison int     `json:"pathways_per_comparison"`
	ZeroPadjRate          float64 `json:"zero_padj_rate"`
	Seed                  int64   `json:"seed"`
}

// DefaultResultConfig returns sensible defaults for synthetic result tables
func DefaultResultConfig() ResultGeneratorConfig {
	return ResultGeneratorConfig{
		GenesPerComparison:    150,
		PathwaysPerComparison: 40,
		ZeroPadjRate:          0.01,
		Seed:                  42,
	}
}

// Mouse gene symbols used for synthetic DGE rows. Gm-number fillers pad the
// pool the way real Seurat output does.
var geneSymbols = []string{
	"Cd19", "Ms4a1", "Cd79a", "Cd79b", "Ighm", "Cd3e", "Cd3d", "Cd4", "Cd8a",
	"Il7r", "Foxp3", "Il2ra", "Nkg7", "Gzmb", "Gzma", "Klrb1c", "Prf1",
	"Lyz2", "Adgre1", "Itgam", "Cd14", "Fcgr3", "Csf1r", "Mrc1", "Arg1",
	"Nos2", "Tnf", "Ifng", "Il6", "Il10", "Il1b", "Ccl2", "Ccl5", "Cxcl9",
	"Cxcl10", "Ccr2", "Cx3cr1", "S100a8", "S100a9", "Ly6g", "Ly6c2",
	"Col1a1", "Col3a1", "Acta2", "Pdgfrb", "Pecam1", "Cdh5", "Vwf", "Kdr",
	"Epcam", "Krt18", "Krt8", "Vim", "Ptprc", "Mki67", "Top2a", "Pcna",
	"Hif1a", "Vegfa", "Tgfb1", "Smad3", "Trp53", "Cdkn1a", "Bax", "Casp3",
	"Bcl2", "Myc", "Jun", "Fos", "Stat1", "Stat3", "Irf7", "Isg15",
}

// Hallmark gene sets used for synthetic GSEA rows.
var hallmarkPathways = []string{
	"HALLMARK_TNFA_SIGNALING_VIA_NFKB",
	"HALLMARK_HYPOXIA",
	"HALLMARK_APOPTOSIS",
	"HALLMARK_INFLAMMATORY_RESPONSE",
	"HALLMARK_INTERFERON_GAMMA_RESPONSE",
	"HALLMARK_INTERFERON_ALPHA_RESPONSE",
	"HALLMARK_IL6_JAK_STAT3_SIGNALING",
	"HALLMARK_IL2_STAT5_SIGNALING",
	"HALLMARK_OXIDATIVE_PHOSPHORYLATION",
	"HALLMARK_GLYCOLYSIS",
	"HALLMARK_FATTY_ACID_METABOLISM",
	"HALLMARK_CHOLESTEROL_HOMEOSTASIS",
	"HALLMARK_MYC_TARGETS_V1",
	"HALLMARK_MYC_TARGETS_V2",
	"HALLMARK_E2F_TARGETS",
	"HALLMARK_G2M_CHECKPOINT",
	"HALLMARK_MITOTIC_SPINDLE",
	"HALLMARK_DNA_REPAIR",
	"HALLMARK_P53_PATHWAY",
	"HALLMARK_EPITHELIAL_MESENCHYMAL_TRANSITION",
	"HALLMARK_TGF_BETA_SIGNALING",
	"HALLMARK_WNT_BETA_CATENIN_SIGNALING",
	"HALLMARK_NOTCH_SIGNALING",
	"HALLMARK_KRAS_SIGNALING_UP",
	"HALLMARK_KRAS_SIGNALING_DN",
	"HALLMARK_PI3K_AKT_MTOR_SIGNALING",
	"HALLMARK_MTORC1_SIGNALING",
	"HALLMARK_UNFOLDED_PROTEIN_RESPONSE",
	"HALLMARK_REACTIVE_OXYGEN_SPECIES_PATHWAY",
	"HALLMARK_XENOBIOTIC_METABOLISM",
	"HALLMARK_ADIPOGENESIS",
	"HALLMARK_ANGIOGENESIS",
	"HALLMARK_COAGULATION",
	"HALLMARK_COMPLEMENT",
	"HALLMARK_ALLOGRAFT_REJECTION",
	"HALLMARK_UV_RESPONSE_UP",
	"HALLMARK_UV_RESPONSE_DN",
	"HALLMARK_ESTROGEN_RESPONSE_EARLY",
	"HALLMARK_ANDROGEN_RESPONSE",
	"HALLMARK_HEME_METABOLISM",
	"HALLMARK_BILE_ACID_METABOLISM",
	"HALLMARK_PEROXISOME",
	"HALLMARK_PROTEIN_SECRETION",
	"HALLMARK_APICAL_JUNCTION",
	"HALLMARK_MYOGENESIS",
	"HALLMARK_SPERMATOGENESIS",
	"HALLMARK_PANCREAS_BETA_CELLS",
	"HALLMARK_HEDGEHOG_SIGNALING",
}

// Per-dataset cell-type vocabularies. The two cd45pos annotations label the
// same compartment at different granularity; cd45neg covers stroma.
var datasetCellTypes = map[string][]string{
	analysis.DatasetCD45PosRRG: {
		"B cells", "CD4 T cells", "CD8 T cells", "NK cells",
		"Macrophages", "Dendritic cells", "Neutrophils",
	},
	analysis.DatasetCD45PosJeff: {
		"B cells", "T cells", "NK cells", "Myeloid",
	},
	analysis.DatasetCD45NegRRG: {
		"Fibroblasts", "Endothelial cells", "Epithelial cells", "Pericytes",
	},
}

// comparisonPair is one comp1/comp2 contrast present in a dataset.
type comparisonPair struct {
	Comp1 string
	Comp2 string
}

var datasetComparisons = map[string][]comparisonPair{
	analysis.DatasetCD45PosRRG: {
		{Comp1: "KO", Comp2: "WT"},
		{Comp1: "KO_IR", Comp2: "WT_IR"},
		{Comp1: "IR", Comp2: "Sham"},
	},
	analysis.DatasetCD45PosJeff: {
		{Comp1: "KO", Comp2: "WT"},
		{Comp1: "IR", Comp2: "Sham"},
	},
	analysis.DatasetCD45NegRRG: {
		{Comp1: "KO", Comp2: "WT"},
		{Comp1: "KO_IR", Comp2: "WT_IR"},
	},
}

// ResultGenerator generates realistic DGE and GSEA result tables
type ResultGenerator struct {
	config ResultGeneratorConfig
	rng    *rand.Rand
}

// NewResultGenerator creates a new result generator
func NewResultGenerator(config ResultGeneratorConfig) *ResultGenerator {
	return &ResultGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTables generates both result tables for every dataset, cell type
// and comparison. Output is deterministic for a fixed seed.
func (g *ResultGenerator) GenerateTables() analysis.Tables {
	var tables analysis.Tables
	for _, dataset := range analysis.DatasetKeys() {
		for _, cellType := range datasetCellTypes[dataset] {
			for _, pair := range datasetComparisons[dataset] {
				tables.DGE = append(tables.DGE, g.generateDGE(dataset, cellType, pair)...)
				tables.GSEA = append(tables.GSEA, g.generateGSEA(dataset, cellType, pair)...)
			}
		}
	}
	return tables
}

// generateDGE produces one comparison's differential-expression rows.
func (g *ResultGenerator) generateDGE(dataset, cellType string, pair comparisonPair) []analysis.DGERecord {
	count := g.config.GenesPerComparison
	rows := make([]analysis.DGERecord, 0, count)

	for i := 0; i < count; i++ {
		rows = append(rows, analysis.DGERecord{
			Dataset:   dataset,
			CellType:  cellType,
			Comp1:     pair.Comp1,
			Comp2:     pair.Comp2,
			Gene:      g.pickGene(i),
			AvgLog2FC: g.rng.NormFloat64() * 1.2,
			PValAdj:   g.randomPadj(),
		})
	}
	return rows
}

// generateGSEA produces one comparison's enrichment rows.
func (g *ResultGenerator) generateGSEA(dataset, cellType string, pair comparisonPair) []analysis.GSEARecord {
	count := g.config.PathwaysPerComparison
	if count > len(hallmarkPathways) {
		count = len(hallmarkPathways)
	}

	// Each comparison gets its own pathway subset so selections differ.
	order := g.rng.Perm(len(hallmarkPathways))[:count]
	sort.Ints(order)

	rows := make([]analysis.GSEARecord, 0, count)
	for _, idx := range order {
		pathway := hallmarkPathways[idx]
		nes := clamp(g.rng.NormFloat64()*1.5, -3.5, 3.5)
		rows = append(rows, analysis.GSEARecord{
			Dataset:   dataset,
			CellType:  cellType,
			Comp1:     pair.Comp1,
			Comp2:     pair.Comp2,
			Pathway:   pathway,
			PathName:  pathwayDisplayName(pathway),
			Reference: "MSigDB Hallmark 2020",
			NES:       nes,
			Padj:      g.randomPadj(),
			LeadGenes: g.pickLeadGenes(),
			TagPct:    fmt.Sprintf("%d%%", 10+g.rng.Intn(70)),
			GenePct:   fmt.Sprintf("%d%%", 5+g.rng.Intn(50)),
		})
	}
	return rows
}

// pickGene returns a symbol from the curated pool, padding with Gm-number
// fillers once the pool is exhausted so genes stay unique per comparison.
func (g *ResultGenerator) pickGene(i int) string {
	if i < len(geneSymbols) {
		return geneSymbols[i]
	}
	return fmt.Sprintf("Gm%d", 10000+i)
}

// randomPadj draws an adjusted p-value skewed toward non-significance, with
// a configurable fraction of exact zeros (fully-underflowed values show up
// in real exports).
func (g *ResultGenerator) randomPadj() float64 {
	if g.rng.Float64() < g.config.ZeroPadjRate {
		return 0
	}
	p := math.Pow(10, -g.rng.ExpFloat64()*2.5)
	if p > 1 {
		p = 1
	}
	return p
}

// pickLeadGenes samples a semicolon-joined leading-edge list.
func (g *ResultGenerator) pickLeadGenes() string {
	n := 3 + g.rng.Intn(6)
	picks := make([]string, 0, n)
	for _, idx := range g.rng.Perm(len(geneSymbols))[:n] {
		picks = append(picks, geneSymbols[idx])
	}
	return strings.Join(picks, ";")
}

// pathwayDisplayName turns HALLMARK_TNFA_SIGNALING_VIA_NFKB into
// "Tnfa Signaling Via Nfkb".
func pathwayDisplayName(pathway string) string {
	name := strings.TrimPrefix(pathway, "HALLMARK_")
	words := strings.Split(strings.ToLower(name), "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
