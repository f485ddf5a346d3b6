package testkit

import (
	"context"
	"reflect"
	"testing"

	"cellscope/adapters/tabular"
	"cellscope/domain/analysis"
)

func TestGenerateTablesCoversEveryDataset(t *testing.T) {
	kit, err := NewTestKit()
	if err != nil {
		t.Fatalf("NewTestKit failed: %v", err)
	}
	tables := kit.Tables()

	dgeDatasets := make(map[string]int)
	gseaDatasets := make(map[string]int)
	for _, r := range tables.DGE {
		dgeDatasets[r.Dataset]++
	}
	for _, r := range tables.GSEA {
		gseaDatasets[r.Dataset]++
	}

	for _, key := range analysis.DatasetKeys() {
		if dgeDatasets[key] == 0 {
			t.Errorf("Expected DGE rows for dataset %s", key)
		}
		if gseaDatasets[key] == 0 {
			t.Errorf("Expected GSEA rows for dataset %s", key)
		}
	}
}

func TestGenerateTablesIsDeterministic(t *testing.T) {
	config := DefaultResultConfig()
	a := NewResultGenerator(config).GenerateTables()
	b := NewResultGenerator(config).GenerateTables()

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical tables for the same seed")
	}

	config.Seed = 7
	c := NewResultGenerator(config).GenerateTables()
	if reflect.DeepEqual(a.DGE[0], c.DGE[0]) && reflect.DeepEqual(a.DGE[1], c.DGE[1]) {
		t.Errorf("Expected a different seed to change the generated values")
	}
}

func TestGeneratedValuesAreInRange(t *testing.T) {
	kit, err := NewTestKit()
	if err != nil {
		t.Fatalf("NewTestKit failed: %v", err)
	}
	tables := kit.Tables()

	zeros := 0
	for _, r := range tables.DGE {
		if r.PValAdj < 0 || r.PValAdj > 1 {
			t.Fatalf("p_val_adj out of range: %v", r.PValAdj)
		}
		if r.PValAdj == 0 {
			zeros++
		}
		if r.Gene == "" {
			t.Fatalf("Expected every row to carry a gene symbol")
		}
	}
	if zeros == 0 {
		t.Errorf("Expected some exact-zero adjusted p-values in the fixture")
	}

	for _, r := range tables.GSEA {
		if r.NES < -3.5 || r.NES > 3.5 {
			t.Fatalf("NES out of range: %v", r.NES)
		}
		if r.PathName == "" || r.Pathway == "" {
			t.Fatalf("Expected pathway and display name on every row: %+v", r)
		}
	}
}

func TestGeneratedCascadeIsConsistent(t *testing.T) {
	kit, err := NewTestKit()
	if err != nil {
		t.Fatalf("NewTestKit failed: %v", err)
	}
	tables := kit.Tables()

	// Every offered upstream value must yield non-empty downstream options.
	for _, dataset := range analysis.DatasetKeys() {
		for _, cellType := range analysis.DistinctCellTypes(tables.DGE, dataset) {
			comp1s := analysis.DistinctComp1(tables.DGE, dataset, cellType)
			if len(comp1s) == 0 {
				t.Fatalf("No comp1 options for %s/%s", dataset, cellType)
			}
			for _, comp1 := range comp1s {
				if len(analysis.DistinctComp2(tables.DGE, dataset, cellType, comp1)) == 0 {
					t.Fatalf("No comp2 options for %s/%s/%s", dataset, cellType, comp1)
				}
			}
		}
	}
}

func TestNewTestKitWithConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ResultGeneratorConfig)
	}{
		{"zero genes", func(c *ResultGeneratorConfig) { c.GenesPerComparison = 0 }},
		{"zero pathways", func(c *ResultGeneratorConfig) { c.PathwaysPerComparison = 0 }},
		{"negative zero rate", func(c *ResultGeneratorConfig) { c.ZeroPadjRate = -0.1 }},
		{"zero rate above one", func(c *ResultGeneratorConfig) { c.ZeroPadjRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultResultConfig()
			tt.mutate(&config)
			if _, err := NewTestKitWithConfig(config); err == nil {
				t.Errorf("Expected config validation error")
			}
		})
	}
}

func TestWriteCSVFixturesRoundTrip(t *testing.T) {
	kit, err := NewTestKitWithConfig(ResultGeneratorConfig{
		GenesPerComparison:    20,
		PathwaysPerComparison: 8,
		ZeroPadjRate:          0.05,
		Seed:                  42,
	})
	if err != nil {
		t.Fatalf("NewTestKitWithConfig failed: %v", err)
	}

	dir := t.TempDir()
	if err := kit.WriteCSVFixtures(dir); err != nil {
		t.Fatalf("WriteCSVFixtures failed: %v", err)
	}

	loaded, report, err := tabular.NewCatalog(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("Expected clean load of fixtures, got warnings: %v", report.Warnings)
	}

	want := kit.Tables()
	if len(loaded.DGE) != len(want.DGE) {
		t.Errorf("Expected %d DGE rows after round trip, got %d", len(want.DGE), len(loaded.DGE))
	}
	if len(loaded.GSEA) != len(want.GSEA) {
		t.Errorf("Expected %d GSEA rows after round trip, got %d", len(want.GSEA), len(loaded.GSEA))
	}

	if !reflect.DeepEqual(loaded.DGE[0], want.DGE[0]) {
		t.Errorf("First DGE row changed across the round trip:\n got %+v\nwant %+v", loaded.DGE[0], want.DGE[0])
	}
}

func TestPathwayDisplayName(t *testing.T) {
	tests := []struct {
		pathway  string
		expected string
	}{
		{"HALLMARK_HYPOXIA", "Hypoxia"},
		{"HALLMARK_TNFA_SIGNALING_VIA_NFKB", "Tnfa Signaling Via Nfkb"},
		{"HALLMARK_IL6_JAK_STAT3_SIGNALING", "Il6 Jak Stat3 Signaling"},
	}

	for _, tt := range tests {
		if got := pathwayDisplayName(tt.pathway); got != tt.expected {
			t.Errorf("Expected %q for %s, got %q", tt.expected, tt.pathway, got)
		}
	}
}
