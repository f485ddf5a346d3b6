// Package store provides the result-store backends: an in-memory cache fed
// directly by the file catalog and a SQL store for postgres or sqlite.
package store

import (
	"context"
	"sync"

	"cellscope/domain/analysis"
)

// MemoryStore serves the unified tables from process memory. Reads take a
// shared lock so concurrent dashboard requests never block each other; only
// a reload swap takes the write lock.
type MemoryStore struct {
	mu     sync.RWMutex
	tables analysis.Tables
}

// NewMemoryStore creates a store over the given tables.
func NewMemoryStore(tables analysis.Tables) *MemoryStore {
	return &MemoryStore{tables: tables}
}

// Swap atomically replaces the cached tables. Used by reload.
func (s *MemoryStore) Swap(tables analysis.Tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = tables
}

// Datasets lists loaded datasets with row counts, in catalog order.
// Datasets with no rows in either table are omitted.
func (s *MemoryStore) Datasets(ctx context.Context) ([]analysis.DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dgeCounts := make(map[string]int)
	gseaCounts := make(map[string]int)
	for _, r := range s.tables.DGE {
		dgeCounts[r.Dataset]++
	}
	for _, r := range s.tables.GSEA {
		gseaCounts[r.Dataset]++
	}

	infos := make([]analysis.DatasetInfo, 0, len(analysis.DatasetKeys()))
	for _, key := range analysis.DatasetKeys() {
		if dgeCounts[key] == 0 && gseaCounts[key] == 0 {
			continue
		}
		infos = append(infos, analysis.DatasetInfo{Key: key, DGERows: dgeCounts[key], GSEARows: gseaCounts[key]})
	}
	return infos, nil
}

// DGEByDataset returns all DGE rows of one dataset in table order.
func (s *MemoryStore) DGEByDataset(ctx context.Context, dataset string) ([]analysis.DGERecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]analysis.DGERecord, 0)
	for _, r := range s.tables.DGE {
		if r.Dataset == dataset {
			out = append(out, r)
		}
	}
	return out, nil
}

// FilterDGE returns the DGE rows matching the key exactly, in table order.
func (s *MemoryStore) FilterDGE(ctx context.Context, key analysis.FilterKey) ([]analysis.DGERecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analysis.FilterDGE(s.tables.DGE, key), nil
}

// FilterGSEA returns the matching GSEA rows sorted by padj, at most limit.
func (s *MemoryStore) FilterGSEA(ctx context.Context, key analysis.FilterKey, limit int) ([]analysis.GSEARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analysis.FilterGSEA(s.tables.GSEA, key, limit), nil
}

// EnsureSchema is a no-op for the memory backend.
func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	return nil
}

// ReplaceAll swaps in the given tables, mirroring the SQL writer contract.
func (s *MemoryStore) ReplaceAll(ctx context.Context, tables analysis.Tables) error {
	s.Swap(tables)
	return nil
}
