package store

import (
	"context"
	"testing"

	"cellscope/domain/analysis"
)

func testTables() analysis.Tables {
	return analysis.Tables{
		DGE: []analysis.DGERecord{
			{Dataset: "cd45pos_rrg", CellType: "B cells", Comp1: "KO", Comp2: "WT", Gene: "Cd19", AvgLog2FC: 1.5, PValAdj: 0.001},
			{Dataset: "cd45pos_rrg", CellType: "B cells", Comp1: "KO", Comp2: "WT", Gene: "Ms4a1", AvgLog2FC: -0.8, PValAdj: 0.04},
			{Dataset: "cd45pos_rrg", CellType: "T cells", Comp1: "KO", Comp2: "WT", Gene: "Cd3e", AvgLog2FC: 0.2, PValAdj: 0.5},
			{Dataset: "cd45neg_rrg", CellType: "Fibroblasts", Comp1: "KO", Comp2: "WT", Gene: "Col1a1", AvgLog2FC: 2.1, PValAdj: 0.0001},
		},
		GSEA: []analysis.GSEARecord{
			{Dataset: "cd45pos_rrg", CellType: "B cells", Comp1: "KO", Comp2: "WT", Pathway: "HALLMARK_APOPTOSIS", PathName: "Apoptosis", NES: 1.8, Padj: 0.03},
			{Dataset: "cd45pos_rrg", CellType: "B cells", Comp1: "KO", Comp2: "WT", Pathway: "HALLMARK_HYPOXIA", PathName: "Hypoxia", NES: -1.2, Padj: 0.01},
			{Dataset: "cd45pos_rrg", CellType: "B cells", Comp1: "KO", Comp2: "WT", Pathway: "HALLMARK_MYOGENESIS", PathName: "Myogenesis", NES: 0.9, Padj: 0.2},
		},
	}
}

func bCellKey() analysis.FilterKey {
	return analysis.FilterKey{Dataset: "cd45pos_rrg", CellType: "B cells", Comp1: "KO", Comp2: "WT"}
}

func TestMemoryStoreDatasets(t *testing.T) {
	s := NewMemoryStore(testTables())

	infos, err := s.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets failed: %v", err)
	}

	if len(infos) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(infos))
	}
	if infos[0].Key != "cd45pos_rrg" || infos[1].Key != "cd45neg_rrg" {
		t.Errorf("Expected catalog order, got %s then %s", infos[0].Key, infos[1].Key)
	}
	if infos[0].DGERows != 3 || infos[0].GSEARows != 3 {
		t.Errorf("Expected cd45pos_rrg counts 3/3, got %d/%d", infos[0].DGERows, infos[0].GSEARows)
	}
	if infos[1].DGERows != 1 || infos[1].GSEARows != 0 {
		t.Errorf("Expected cd45neg_rrg counts 1/0, got %d/%d", infos[1].DGERows, infos[1].GSEARows)
	}
}

func TestMemoryStoreDGEByDataset(t *testing.T) {
	s := NewMemoryStore(testTables())

	rows, err := s.DGEByDataset(context.Background(), "cd45pos_rrg")
	if err != nil {
		t.Fatalf("DGEByDataset failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Gene != "Cd19" || rows[2].Gene != "Cd3e" {
		t.Errorf("Expected table order preserved, got %s..%s", rows[0].Gene, rows[2].Gene)
	}

	empty, err := s.DGEByDataset(context.Background(), "cd45pos_jeff")
	if err != nil {
		t.Fatalf("DGEByDataset failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice for unknown dataset, got %v", empty)
	}
}

func TestMemoryStoreFilterDGE(t *testing.T) {
	s := NewMemoryStore(testTables())

	rows, err := s.FilterDGE(context.Background(), bCellKey())
	if err != nil {
		t.Fatalf("FilterDGE failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 matching rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.CellType != "B cells" {
			t.Errorf("Expected only B cells rows, got %s", r.CellType)
		}
	}
}

func TestMemoryStoreFilterGSEASortedAndLimited(t *testing.T) {
	s := NewMemoryStore(testTables())

	rows, err := s.FilterGSEA(context.Background(), bCellKey(), 2)
	if err != nil {
		t.Fatalf("FilterGSEA failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows after limit, got %d", len(rows))
	}
	if rows[0].Pathway != "HALLMARK_HYPOXIA" || rows[1].Pathway != "HALLMARK_APOPTOSIS" {
		t.Errorf("Expected ascending padj order, got %s then %s", rows[0].Pathway, rows[1].Pathway)
	}
}

func TestMemoryStoreSwap(t *testing.T) {
	s := NewMemoryStore(testTables())

	s.Swap(analysis.Tables{})
	infos, err := s.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no datasets after swap to empty, got %d", len(infos))
	}

	if err := s.ReplaceAll(context.Background(), testTables()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	rows, err := s.FilterDGE(context.Background(), bCellKey())
	if err != nil {
		t.Fatalf("FilterDGE failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected rows back after ReplaceAll, got %d", len(rows))
	}
}
