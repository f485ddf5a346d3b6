// Package export writes the current filtered views as xlsx workbooks for
// download.
package export

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"cellscope/domain/analysis"
)

const (
	dgeSheet  = "DGE Results"
	gseaSheet = "GSEA Results"
)

// Filename returns a download name stamped with a fresh run ID so repeated
// exports never collide in the browser's download directory.
func Filename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, uuid.New())
}

// DGEWorkbook builds a workbook holding the filtered DGE view: the table
// columns plus the significance verdict under the given thresholds.
func DGEWorkbook(rows []analysis.DGERecord, t analysis.Thresholds) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), dgeSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"gene", "avg_log2FC", "p_val_adj", "significance"}
	if err := f.SetSheetRow(dgeSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to locate row %d: %w", i+2, err)
		}
		row := []interface{}{r.Gene, r.AvgLog2FC, r.PValAdj, string(analysis.Classify(r, t))}
		if err := f.SetSheetRow(dgeSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	log.Printf("[Export] DGE workbook built (%d rows)", len(rows))
	return f, nil
}

// GSEAWorkbook builds a workbook holding the filtered GSEA view columns.
func GSEAWorkbook(rows []analysis.GSEARecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), gseaSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"path_name", "reference", "NES", "padj", "Lead_genes", "Tag %", "Gene %"}
	if err := f.SetSheetRow(gseaSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to locate row %d: %w", i+2, err)
		}
		row := []interface{}{r.PathName, r.Reference, r.NES, r.Padj, r.LeadGenes, r.TagPct, r.GenePct}
		if err := f.SetSheetRow(gseaSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	log.Printf("[Export] GSEA workbook built (%d rows)", len(rows))
	return f, nil
}
