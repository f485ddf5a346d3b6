package export

import (
	"strings"
	"testing"

	"cellscope/domain/analysis"
)

func TestDGEWorkbook(t *testing.T) {
	rows := []analysis.DGERecord{
		{Gene: "Cd19", AvgLog2FC: 1.5, PValAdj: 0.001},
		{Gene: "Ms4a1", AvgLog2FC: 0.1, PValAdj: 0.9},
	}
	thresholds := analysis.DefaultThresholds()

	f, err := DGEWorkbook(rows, thresholds)
	if err != nil {
		t.Fatalf("DGEWorkbook failed: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(dgeSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(got))
	}
	if got[0][0] != "gene" || got[0][3] != "significance" {
		t.Errorf("Unexpected header row: %v", got[0])
	}
	if got[1][0] != "Cd19" || got[1][3] != "Significant" {
		t.Errorf("Expected Cd19 classified Significant, got %v", got[1])
	}
	if got[2][3] != "Not Significant" {
		t.Errorf("Expected Ms4a1 classified Not Significant, got %v", got[2])
	}
}

func TestGSEAWorkbook(t *testing.T) {
	rows := []analysis.GSEARecord{
		{PathName: "Apoptosis", Reference: "MSigDB", NES: 1.8, Padj: 0.01, LeadGenes: "Casp3;Bax", TagPct: "45%", GenePct: "30%"},
	}

	f, err := GSEAWorkbook(rows)
	if err != nil {
		t.Fatalf("GSEAWorkbook failed: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(gseaSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d", len(got))
	}
	if got[0][0] != "path_name" || got[0][5] != "Tag %" {
		t.Errorf("Unexpected header row: %v", got[0])
	}
	if got[1][0] != "Apoptosis" || got[1][4] != "Casp3;Bax" {
		t.Errorf("Unexpected data row: %v", got[1])
	}
}

func TestEmptyWorkbooksStillCarryHeaders(t *testing.T) {
	f, err := DGEWorkbook(nil, analysis.DefaultThresholds())
	if err != nil {
		t.Fatalf("DGEWorkbook failed: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(dgeSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected header-only sheet, got %d rows", len(got))
	}
}

func TestFilename(t *testing.T) {
	a := Filename("dge_results")
	b := Filename("dge_results")

	if !strings.HasPrefix(a, "dge_results_") || !strings.HasSuffix(a, ".xlsx") {
		t.Errorf("Unexpected filename shape: %s", a)
	}
	if a == b {
		t.Errorf("Expected unique filenames, got %s twice", a)
	}
}
