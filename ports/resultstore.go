// Package ports defines the interfaces between the explorer's application
// core and its adapters.
package ports

import (
	"context"

	"cellscope/domain/analysis"
)

// ResultStorePort provides read-only access to the unified result tables.
// Implementations never mutate rows after load; every method derives a view.
// Filter methods return empty slices (not errors) when nothing matches.
type ResultStorePort interface {
	// Datasets lists the loaded dataset keys with their row counts, in
	// catalog order.
	Datasets(ctx context.Context) ([]analysis.DatasetInfo, error)

	// DGEByDataset returns all DGE rows of one dataset in table order.
	// The selection cascade derives its option sets from this slice.
	DGEByDataset(ctx context.Context, dataset string) ([]analysis.DGERecord, error)

	// FilterDGE returns the DGE rows matching the four-field key exactly,
	// in table order.
	FilterDGE(ctx context.Context, key analysis.FilterKey) ([]analysis.DGERecord, error)

	// FilterGSEA returns the GSEA rows matching the key, sorted ascending
	// by adjusted p-value and truncated to at most limit rows.
	FilterGSEA(ctx context.Context, key analysis.FilterKey, limit int) ([]analysis.GSEARecord, error)
}

// ResultWriterPort seeds a persistent result store from the file catalog.
// Only the bulk loader uses it; the dashboard never writes.
type ResultWriterPort interface {
	// EnsureSchema creates the result tables and indexes if missing.
	EnsureSchema(ctx context.Context) error

	// ReplaceAll atomically replaces the stored tables with the given union.
	ReplaceAll(ctx context.Context, tables analysis.Tables) error
}
