package tabular

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"cellscope/domain/analysis"
)

// maxConcurrentReads bounds how many source files are parsed at once.
const maxConcurrentReads = 3

// dgeRenames maps DGE source headers to their canonical names.
var dgeRenames = map[string]string{
	"cell": "cell_type",
}

// gseaRenames maps GSEA source headers to their canonical names.
var gseaRenames = map[string]string{
	"Term":      "pathway",
	"FDR q-val": "padj",
}

// Source is one dataset's pair of results files.
type Source struct {
	Dataset  string
	DGEPath  string
	GSEAPath string
}

// SourceReport records the outcome of loading one file.
type SourceReport struct {
	Dataset string `json:"dataset"`
	Table   string `json:"table"` // "dge" or "gsea"
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
	Missing bool   `json:"missing"`
}

// LoadReport summarizes one ingest run across all sources.
type LoadReport struct {
	RunID    uuid.UUID      `json:"run_id"`
	Duration time.Duration  `json:"duration"`
	Sources  []SourceReport `json:"sources"`
	Warnings []string       `json:"warnings"`
}

// TotalDGERows returns the number of DGE rows kept across all sources.
func (r *LoadReport) TotalDGERows() int {
	total := 0
	for _, s := range r.Sources {
		if s.Table == "dge" {
			total += s.Rows
		}
	}
	return total
}

// TotalGSEARows returns the number of GSEA rows kept across all sources.
func (r *LoadReport) TotalGSEARows() int {
	total := 0
	for _, s := range r.Sources {
		if s.Table == "gsea" {
			total += s.Rows
		}
	}
	return total
}

// Catalog knows where each dataset's results files live and assembles the
// unified tables from them.
type Catalog struct {
	dataDir string
}

// NewCatalog creates a catalog rooted at the given data directory.
func NewCatalog(dataDir string) *Catalog {
	return &Catalog{dataDir: dataDir}
}

// Sources returns the fixed dataset→file mapping in dataset order.
func (c *Catalog) Sources() []Source {
	sources := make([]Source, 0, len(analysis.DatasetKeys()))
	for _, key := range analysis.DatasetKeys() {
		sources = append(sources, Source{
			Dataset:  key,
			DGEPath:  c.resolvePath(key + "cell_degs_wilcoxon"),
			GSEAPath: c.resolvePath(key + "cell_gsea"),
		})
	}
	return sources
}

// resolvePath picks the CSV variant of a source file, falling back to xlsx
// when only that exists. The returned path may point at a missing file; the
// loader reports it as a warning.
func (c *Catalog) resolvePath(base string) string {
	csvPath := filepath.Join(c.dataDir, base+".csv")
	if _, err := os.Stat(csvPath); err == nil {
		return csvPath
	}
	xlsxPath := filepath.Join(c.dataDir, base+".xlsx")
	if _, err := os.Stat(xlsxPath); err == nil {
		return xlsxPath
	}
	return csvPath
}

// loadTask is one file to read and parse into its slot.
type loadTask struct {
	dataset string
	table   string
	path    string
	renames map[string]string
}

// loadResult holds one task's parsed rows and bookkeeping.
type loadResult struct {
	report  SourceReport
	warning string
	dge     []analysis.DGERecord
	gsea    []analysis.GSEARecord
}

// Load reads every source file, parses rows into records and assembles the
// unified tables. Missing files produce warnings, not errors; row order
// within each table follows dataset order, then source row order.
func (c *Catalog) Load(ctx context.Context) (analysis.Tables, *LoadReport, error) {
	start := time.Now()
	runID := uuid.New()
	log.Printf("[Catalog] Load started (run %s, dir %s)", runID, c.dataDir)

	var tasks []loadTask
	for _, src := range c.Sources() {
		tasks = append(tasks, loadTask{dataset: src.Dataset, table: "dge", path: src.DGEPath, renames: dgeRenames})
		tasks = append(tasks, loadTask{dataset: src.Dataset, table: "gsea", path: src.GSEAPath, renames: gseaRenames})
	}

	results := make([]loadResult, len(tasks))
	sem := semaphore.NewWeighted(maxConcurrentReads)
	var wg sync.WaitGroup

	for i, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return analysis.Tables{}, nil, fmt.Errorf("load canceled: %w", err)
		}
		wg.Add(1)
		go func(slot int, t loadTask) {
			defer wg.Done()
			defer sem.Release(1)
			results[slot] = c.loadOne(t)
		}(i, task)
	}
	wg.Wait()

	report := &LoadReport{RunID: runID, Sources: make([]SourceReport, 0, len(tasks))}
	var tables analysis.Tables
	for _, res := range results {
		report.Sources = append(report.Sources, res.report)
		if res.warning != "" {
			report.Warnings = append(report.Warnings, res.warning)
		}
		tables.DGE = append(tables.DGE, res.dge...)
		tables.GSEA = append(tables.GSEA, res.gsea...)
	}
	report.Duration = time.Since(start)

	log.Printf("[Catalog] Load finished in %.2fms (%d DGE rows, %d GSEA rows, %d warnings)",
		float64(report.Duration.Nanoseconds())/1e6, len(tables.DGE), len(tables.GSEA), len(report.Warnings))
	return tables, report, nil
}

// loadOne reads and parses a single source file.
func (c *Catalog) loadOne(t loadTask) loadResult {
	res := loadResult{report: SourceReport{Dataset: t.dataset, Table: t.table, Path: t.path}}

	if _, err := os.Stat(t.path); os.IsNotExist(err) {
		res.report.Missing = true
		res.warning = fmt.Sprintf("File not found: %s", t.path)
		log.Printf("[Catalog] Warning: file not found: %s", t.path)
		return res
	}

	data, err := NewDataReader(t.path, t.renames).ReadData()
	if err != nil {
		res.warning = fmt.Sprintf("Failed to read %s: %v", t.path, err)
		log.Printf("[Catalog] Warning: failed to read %s: %v", t.path, err)
		return res
	}

	switch t.table {
	case "dge":
		res.dge, res.report.Skipped = parseDGERows(t.dataset, data)
		res.report.Rows = len(res.dge)
	case "gsea":
		res.gsea, res.report.Skipped = parseGSEARows(t.dataset, data)
		res.report.Rows = len(res.gsea)
	}

	if res.report.Skipped > 0 {
		res.warning = fmt.Sprintf("Skipped %d unparseable rows in %s", res.report.Skipped, t.path)
		log.Printf("[Catalog] Warning: skipped %d unparseable rows in %s", res.report.Skipped, t.path)
	}
	log.Printf("[Catalog] Loaded %s %s: %d rows from %s", t.dataset, t.table, res.report.Rows, t.path)
	return res
}

// parseDGERows converts raw rows into DGE records, tagging each with its
// dataset. Rows whose numeric cells fail to parse are skipped and counted.
func parseDGERows(dataset string, data *TableData) ([]analysis.DGERecord, int) {
	records := make([]analysis.DGERecord, 0, len(data.Rows))
	skipped := 0
	for _, row := range data.Rows {
		logFC, err1 := parseFloat(row["avg_log2FC"])
		pAdj, err2 := parseFloat(row["p_val_adj"])
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		records = append(records, analysis.DGERecord{
			Dataset:   dataset,
			CellType:  row["cell_type"],
			Comp1:     row["comp1"],
			Comp2:     row["comp2"],
			Gene:      row["gene"],
			AvgLog2FC: logFC,
			PValAdj:   pAdj,
		})
	}
	return records, skipped
}

// parseGSEARows converts raw rows into GSEA records, tagging each with its
// dataset. Rows whose numeric cells fail to parse are skipped and counted.
func parseGSEARows(dataset string, data *TableData) ([]analysis.GSEARecord, int) {
	records := make([]analysis.GSEARecord, 0, len(data.Rows))
	skipped := 0
	for _, row := range data.Rows {
		nes, err1 := parseFloat(row["NES"])
		padj, err2 := parseFloat(row["padj"])
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		records = append(records, analysis.GSEARecord{
			Dataset:   dataset,
			CellType:  row["cell_type"],
			Comp1:     row["comp1"],
			Comp2:     row["comp2"],
			Pathway:   row["pathway"],
			PathName:  row["path_name"],
			Reference: row["reference"],
			NES:       nes,
			Padj:      padj,
			LeadGenes: row["Lead_genes"],
			TagPct:    row["Tag %"],
			GenePct:   row["Gene %"],
		})
	}
	return records, skipped
}

// parseFloat parses a trimmed numeric cell. Empty cells are unparseable.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(s, 64)
}
