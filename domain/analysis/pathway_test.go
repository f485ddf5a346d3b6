package analysis

import "testing"

func TestBuildPathwayViewOrdersByAscendingTotalNES(t *testing.T) {
	rows := []GSEARecord{
		{Pathway: "HALLMARK_HYPOXIA", NES: 2.1, Padj: 0.001},
		{Pathway: "HALLMARK_APOPTOSIS", NES: -1.8, Padj: 0.01},
		{Pathway: "HALLMARK_GLYCOLYSIS", NES: 0.4, Padj: 0.2},
	}

	view := BuildPathwayView(rows)
	want := []string{"HALLMARK_APOPTOSIS", "HALLMARK_GLYCOLYSIS", "HALLMARK_HYPOXIA"}
	if len(view.Points) != len(want) {
		t.Fatalf("Expected %d points, got %d", len(want), len(view.Points))
	}
	for i, pathway := range want {
		if view.Points[i].Pathway != pathway {
			t.Errorf("Position %d: expected %s, got %s", i, pathway, view.Points[i].Pathway)
		}
	}
}

func TestBuildPathwayViewMaxAbsNES(t *testing.T) {
	rows := []GSEARecord{
		{Pathway: "A", NES: 1.2},
		{Pathway: "B", NES: -2.9},
		{Pathway: "C", NES: 0.3},
	}

	view := BuildPathwayView(rows)
	if view.MaxAbsNES != 2.9 {
		t.Errorf("Expected max |NES| 2.9, got %v", view.MaxAbsNES)
	}
}

func TestBuildPathwayViewTextFields(t *testing.T) {
	view := BuildPathwayView([]GSEARecord{{Pathway: "HALLMARK_HYPOXIA", NES: -1.23456, Padj: 0.0004}})

	p := view.Points[0]
	if p.NESText != "-1.235" {
		t.Errorf("Expected NES text -1.235, got %q", p.NESText)
	}
	if p.PText != "4.000e-04" {
		t.Errorf("Expected padj text 4.000e-04, got %q", p.PText)
	}
	if view.XLabel != "Normalized Enrichment Score (NES)" || view.YLabel != "Pathway" {
		t.Errorf("Unexpected axis labels %q / %q", view.XLabel, view.YLabel)
	}
}

func TestBuildPathwayViewEmptyInput(t *testing.T) {
	view := BuildPathwayView(nil)
	if len(view.Points) != 0 {
		t.Errorf("Expected no points, got %d", len(view.Points))
	}
	if view.MaxAbsNES != 0 {
		t.Errorf("Expected zero color extent, got %v", view.MaxAbsNES)
	}
}
