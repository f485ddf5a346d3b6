package tabular

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cellscope/domain/analysis"
)

const dgeHeader = "gene,avg_log2FC,p_val_adj,cell,comp1,comp2\n"
const gseaHeader = "Term,path_name,reference,NES,FDR q-val,Lead_genes,Tag %,Gene %,cell_type,comp1,comp2\n"

func writeDGEFile(t *testing.T, dir, dataset string, rows ...string) {
	t.Helper()
	path := filepath.Join(dir, dataset+"cell_degs_wilcoxon.csv")
	content := dgeHeader + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write DGE file: %v", err)
	}
}

func writeGSEAFile(t *testing.T, dir, dataset string, rows ...string) {
	t.Helper()
	path := filepath.Join(dir, dataset+"cell_gsea.csv")
	content := gseaHeader + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write GSEA file: %v", err)
	}
}

func TestCatalogLoadAllSources(t *testing.T) {
	dir := t.TempDir()
	writeDGEFile(t, dir, "cd45pos_rrg", "Cd19,1.5,0.001,B cells,KO,WT")
	writeDGEFile(t, dir, "cd45pos_jeff", "Cd3e,-0.7,0.02,T cells,KO,WT")
	writeDGEFile(t, dir, "cd45neg_rrg", "Col1a1,2.1,0.0001,Fibroblasts,KO,WT")
	writeGSEAFile(t, dir, "cd45pos_rrg", "HALLMARK_APOPTOSIS,Apoptosis,MSigDB,1.8,0.01,Casp3;Bax,45%,30%,B cells,KO,WT")
	writeGSEAFile(t, dir, "cd45pos_jeff", "HALLMARK_HYPOXIA,Hypoxia,MSigDB,-1.2,0.03,Vegfa,38%,25%,T cells,KO,WT")
	writeGSEAFile(t, dir, "cd45neg_rrg", "HALLMARK_MYOGENESIS,Myogenesis,MSigDB,0.9,0.2,Acta2,20%,15%,Fibroblasts,KO,WT")

	tables, report, err := NewCatalog(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tables.DGE) != 3 {
		t.Fatalf("Expected 3 DGE rows, got %d", len(tables.DGE))
	}
	if len(tables.GSEA) != 3 {
		t.Fatalf("Expected 3 GSEA rows, got %d", len(tables.GSEA))
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", report.Warnings)
	}

	// Union order follows dataset order regardless of which file parses first.
	expectedOrder := analysis.DatasetKeys()
	for i, row := range tables.DGE {
		if row.Dataset != expectedOrder[i] {
			t.Errorf("Expected DGE row %d from dataset %s, got %s", i, expectedOrder[i], row.Dataset)
		}
	}

	first := tables.DGE[0]
	if first.Gene != "Cd19" || first.CellType != "B cells" || first.AvgLog2FC != 1.5 || first.PValAdj != 0.001 {
		t.Errorf("Unexpected first DGE row: %+v", first)
	}

	gsea := tables.GSEA[0]
	if gsea.Pathway != "HALLMARK_APOPTOSIS" {
		t.Errorf("Expected Term renamed to pathway, got %q", gsea.Pathway)
	}
	if gsea.Padj != 0.01 {
		t.Errorf("Expected FDR q-val renamed to padj with value 0.01, got %v", gsea.Padj)
	}
	if gsea.TagPct != "45%" || gsea.GenePct != "30%" {
		t.Errorf("Expected tag/gene percentages carried through, got %q %q", gsea.TagPct, gsea.GenePct)
	}
	if report.TotalDGERows() != 3 || report.TotalGSEARows() != 3 {
		t.Errorf("Expected report totals 3/3, got %d/%d", report.TotalDGERows(), report.TotalGSEARows())
	}
}

func TestCatalogMissingFilesAreWarnings(t *testing.T) {
	dir := t.TempDir()
	writeDGEFile(t, dir, "cd45pos_rrg", "Cd19,1.5,0.001,B cells,KO,WT")

	tables, report, err := NewCatalog(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tables.DGE) != 1 {
		t.Errorf("Expected 1 DGE row, got %d", len(tables.DGE))
	}
	if len(tables.GSEA) != 0 {
		t.Errorf("Expected no GSEA rows, got %d", len(tables.GSEA))
	}
	if len(report.Warnings) != 5 {
		t.Errorf("Expected 5 missing-file warnings, got %d: %v", len(report.Warnings), report.Warnings)
	}
	for _, w := range report.Warnings {
		if !strings.Contains(w, "File not found") {
			t.Errorf("Expected missing-file warning, got %q", w)
		}
	}

	missing := 0
	for _, s := range report.Sources {
		if s.Missing {
			missing++
		}
	}
	if missing != 5 {
		t.Errorf("Expected 5 sources reported missing, got %d", missing)
	}
}

func TestCatalogEmptyDirectory(t *testing.T) {
	tables, report, err := NewCatalog(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tables.DGE) != 0 || len(tables.GSEA) != 0 {
		t.Errorf("Expected empty tables, got %d DGE and %d GSEA rows", len(tables.DGE), len(tables.GSEA))
	}
	if len(report.Warnings) != 6 {
		t.Errorf("Expected 6 warnings, got %d", len(report.Warnings))
	}
}

func TestCatalogSkipsUnparseableRows(t *testing.T) {
	dir := t.TempDir()
	writeDGEFile(t, dir, "cd45pos_rrg",
		"Cd19,1.5,0.001,B cells,KO,WT",
		"Ms4a1,not_a_number,0.04,B cells,KO,WT",
		"Cd3e,-0.7,,T cells,KO,WT")

	tables, report, err := NewCatalog(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(tables.DGE) != 1 {
		t.Fatalf("Expected 1 valid DGE row, got %d", len(tables.DGE))
	}
	if tables.DGE[0].Gene != "Cd19" {
		t.Errorf("Expected surviving row Cd19, got %s", tables.DGE[0].Gene)
	}

	var dgeReport *SourceReport
	for i := range report.Sources {
		if report.Sources[i].Dataset == "cd45pos_rrg" && report.Sources[i].Table == "dge" {
			dgeReport = &report.Sources[i]
		}
	}
	if dgeReport == nil {
		t.Fatalf("Expected a source report for cd45pos_rrg dge")
	}
	if dgeReport.Skipped != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", dgeReport.Skipped)
	}

	foundSkipWarning := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "Skipped 2 unparseable rows") {
			foundSkipWarning = true
		}
	}
	if !foundSkipWarning {
		t.Errorf("Expected a skipped-rows warning, got %v", report.Warnings)
	}
}

func TestCatalogRunMetadata(t *testing.T) {
	dir := t.TempDir()
	writeDGEFile(t, dir, "cd45pos_rrg", "Cd19,1.5,0.001,B cells,KO,WT")

	_, report, err := NewCatalog(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if report.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Errorf("Expected a non-zero run ID")
	}
	if report.Duration <= 0 {
		t.Errorf("Expected a positive duration, got %v", report.Duration)
	}
	if len(report.Sources) != 6 {
		t.Errorf("Expected 6 source reports, got %d", len(report.Sources))
	}
}

func TestCatalogResolvesXlsxFallback(t *testing.T) {
	dir := t.TempDir()
	// Only an xlsx variant exists for this source.
	xlsxPath := filepath.Join(dir, "cd45pos_rrgcell_degs_wilcoxon.xlsx")
	if err := os.WriteFile(xlsxPath, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("Failed to write xlsx placeholder: %v", err)
	}

	sources := NewCatalog(dir).Sources()
	if sources[0].DGEPath != xlsxPath {
		t.Errorf("Expected xlsx fallback path %s, got %s", xlsxPath, sources[0].DGEPath)
	}
	if !strings.HasSuffix(sources[0].GSEAPath, ".csv") {
		t.Errorf("Expected missing GSEA source to default to csv path, got %s", sources[0].GSEAPath)
	}
}

func TestCatalogLoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewCatalog(t.TempDir()).Load(ctx)
	if err == nil {
		t.Errorf("Expected error for canceled context")
	}
}
