// Package testkit generates synthetic DGE and GSEA result tables for tests
// and local development, and can write them out as source CSV fixtures.
package testkit

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"cellscope/domain/analysis"
)

// TestKit holds one generated set of result tables.
type TestKit struct {
	config ResultGeneratorConfig
	tables analysis.Tables
}

// NewTestKit creates a test kit with the default generator config.
func NewTestKit() (*TestKit, error) {
	return NewTestKitWithConfig(DefaultResultConfig())
}

// NewTestKitWithConfig creates a test kit from an explicit config.
func NewTestKitWithConfig(config ResultGeneratorConfig) (*TestKit, error) {
	if config.GenesPerComparison <= 0 {
		return nil, fmt.Errorf("genes per comparison must be positive, got %d", config.GenesPerComparison)
	}
	if config.PathwaysPerComparison <= 0 {
		return nil, fmt.Errorf("pathways per comparison must be positive, got %d", config.PathwaysPerComparison)
	}
	if config.ZeroPadjRate < 0 || config.ZeroPadjRate > 1 {
		return nil, fmt.Errorf("zero padj rate must be in [0,1], got %f", config.ZeroPadjRate)
	}

	kit := &TestKit{config: config, tables: NewResultGenerator(config).GenerateTables()}
	log.Printf("[TestKit] Generated %d DGE rows and %d GSEA rows (seed %d)",
		len(kit.tables.DGE), len(kit.tables.GSEA), config.Seed)
	return kit, nil
}

// Tables returns the generated result tables.
func (k *TestKit) Tables() analysis.Tables {
	return k.tables
}

// WriteCSVFixtures writes the six source files the catalog expects into dir,
// using pre-rename headers (`cell`, `Term`, `FDR q-val`) plus the extra
// columns real exports carry, so loading them exercises the full pipeline.
func (k *TestKit) WriteCSVFixtures(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create fixture dir: %w", err)
	}

	for _, dataset := range analysis.DatasetKeys() {
		if err := k.writeDGEFixture(dir, dataset); err != nil {
			return err
		}
		if err := k.writeGSEAFixture(dir, dataset); err != nil {
			return err
		}
	}
	log.Printf("[TestKit] Wrote CSV fixtures to %s", dir)
	return nil
}

func (k *TestKit) writeDGEFixture(dir, dataset string) error {
	path := filepath.Join(dir, dataset+"cell_degs_wilcoxon.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"p_val", "avg_log2FC", "p_val_adj", "gene", "cell", "comp1", "comp2"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range k.tables.DGE {
		if r.Dataset != dataset {
			continue
		}
		record := []string{
			formatFloat(r.PValAdj * 0.6), // unadjusted p, smaller than padj
			formatFloat(r.AvgLog2FC),
			formatFloat(r.PValAdj),
			r.Gene,
			r.CellType,
			r.Comp1,
			r.Comp2,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (k *TestKit) writeGSEAFixture(dir, dataset string) error {
	path := filepath.Join(dir, dataset+"cell_gsea.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Term", "path_name", "reference", "ES", "NES", "FDR q-val", "Lead_genes", "Tag %", "Gene %", "cell_type", "comp1", "comp2"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range k.tables.GSEA {
		if r.Dataset != dataset {
			continue
		}
		record := []string{
			r.Pathway,
			r.PathName,
			r.Reference,
			formatFloat(r.NES / 1.7), // raw enrichment score before normalization
			formatFloat(r.NES),
			formatFloat(r.Padj),
			r.LeadGenes,
			r.TagPct,
			r.GenePct,
			r.CellType,
			r.Comp1,
			r.Comp2,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
