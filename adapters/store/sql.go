package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"cellscope/domain/analysis"
)

// Supported SQL backends. The driver for each must be blank-imported by the
// binary (lib/pq for postgres, modernc.org/sqlite for sqlite).
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// insertBatchSize keeps multi-row inserts under the postgres parameter cap.
const insertBatchSize = 500

func init() {
	// modernc's driver registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver(BackendSQLite, sqlx.QUESTION)
}

// SQLStore serves and seeds the result tables from a SQL database. Queries
// are written with question-mark bindvars and rebound per driver, so the
// same store works against postgres and sqlite.
type SQLStore struct {
	db *sqlx.DB
}

// Open connects to the given backend and verifies the connection.
func Open(backend, dsn string) (*SQLStore, error) {
	switch backend {
	case BackendPostgres, BackendSQLite:
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}

	db, err := sqlx.Connect(backend, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s store: %w", backend, err)
	}
	return &SQLStore{db: db}, nil
}

// NewSQLStore wraps an existing connection.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// schema uses only DDL both postgres and sqlite accept. seq preserves the
// catalog's union row order across queries.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS dge_results (
		seq        INTEGER NOT NULL,
		dataset    TEXT NOT NULL,
		cell_type  TEXT NOT NULL,
		comp1      TEXT NOT NULL,
		comp2      TEXT NOT NULL,
		gene       TEXT NOT NULL,
		avg_log2fc DOUBLE PRECISION NOT NULL,
		p_val_adj  DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS gsea_results (
		seq        INTEGER NOT NULL,
		dataset    TEXT NOT NULL,
		cell_type  TEXT NOT NULL,
		comp1      TEXT NOT NULL,
		comp2      TEXT NOT NULL,
		pathway    TEXT NOT NULL,
		path_name  TEXT NOT NULL,
		reference  TEXT NOT NULL,
		nes        DOUBLE PRECISION NOT NULL,
		padj       DOUBLE PRECISION NOT NULL,
		lead_genes TEXT NOT NULL,
		tag_pct    TEXT NOT NULL,
		gene_pct   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dge_dataset ON dge_results (dataset)`,
	`CREATE INDEX IF NOT EXISTS idx_dge_filter ON dge_results (dataset, cell_type, comp1, comp2)`,
	`CREATE INDEX IF NOT EXISTS idx_gsea_filter ON gsea_results (dataset, cell_type, comp1, comp2)`,
}

// EnsureSchema creates the result tables and indexes if missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// ReplaceAll replaces both tables with the given union in one transaction.
func (s *SQLStore) ReplaceAll(ctx context.Context, tables analysis.Tables) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"dge_results", "gsea_results"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := s.insertDGE(ctx, tx, tables.DGE); err != nil {
		return err
	}
	if err := s.insertGSEA(ctx, tx, tables.GSEA); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	log.Printf("[SQLStore] Replaced tables (%d DGE rows, %d GSEA rows)", len(tables.DGE), len(tables.GSEA))
	return nil
}

func (s *SQLStore) insertDGE(ctx context.Context, tx *sqlx.Tx, rows []analysis.DGERecord) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*8)
		for i, r := range batch {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, start+i, r.Dataset, r.CellType, r.Comp1, r.Comp2, r.Gene, r.AvgLog2FC, r.PValAdj)
		}

		query := s.db.Rebind("INSERT INTO dge_results (seq, dataset, cell_type, comp1, comp2, gene, avg_log2fc, p_val_adj) VALUES " +
			strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert DGE batch: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) insertGSEA(ctx context.Context, tx *sqlx.Tx, rows []analysis.GSEARecord) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*13)
		for i, r := range batch {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, start+i, r.Dataset, r.CellType, r.Comp1, r.Comp2,
				r.Pathway, r.PathName, r.Reference, r.NES, r.Padj, r.LeadGenes, r.TagPct, r.GenePct)
		}

		query := s.db.Rebind("INSERT INTO gsea_results (seq, dataset, cell_type, comp1, comp2, pathway, path_name, reference, nes, padj, lead_genes, tag_pct, gene_pct) VALUES " +
			strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert GSEA batch: %w", err)
		}
	}
	return nil
}

const dgeColumns = "dataset, cell_type, comp1, comp2, gene, avg_log2fc, p_val_adj"
const gseaColumns = "dataset, cell_type, comp1, comp2, pathway, path_name, reference, nes, padj, lead_genes, tag_pct, gene_pct"

// Datasets lists stored datasets with row counts, in catalog order.
func (s *SQLStore) Datasets(ctx context.Context) ([]analysis.DatasetInfo, error) {
	type countRow struct {
		Dataset string `db:"dataset"`
		Count   int    `db:"count"`
	}

	counts := func(table string) (map[string]int, error) {
		var rows []countRow
		query := fmt.Sprintf("SELECT dataset, COUNT(*) AS count FROM %s GROUP BY dataset", table)
		if err := s.db.SelectContext(ctx, &rows, query); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		out := make(map[string]int, len(rows))
		for _, r := range rows {
			out[r.Dataset] = r.Count
		}
		return out, nil
	}

	dgeCounts, err := counts("dge_results")
	if err != nil {
		return nil, err
	}
	gseaCounts, err := counts("gsea_results")
	if err != nil {
		return nil, err
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

// DGEByDataset returns all DGE rows of one dataset in load order.
func (s *SQLStore) DGEByDataset(ctx context.Context, dataset string) ([]analysis.DGERecord, error) {
	rows := make([]analysis.DGERecord, 0)
	query := s.db.Rebind("SELECT " + dgeColumns + " FROM dge_results WHERE dataset = ? ORDER BY seq")
	if err := s.db.SelectContext(ctx, &rows, query, dataset); err != nil {
		return nil, fmt.Errorf("failed to query DGE rows: %w", err)
	}
	return rows, nil
}

// FilterDGE returns the DGE rows matching the key exactly, in load order.
func (s *SQLStore) FilterDGE(ctx context.Context, key analysis.FilterKey) ([]analysis.DGERecord, error) {
	rows := make([]analysis.DGERecord, 0)
	query := s.db.Rebind("SELECT " + dgeColumns + " FROM dge_results WHERE dataset = ? AND cell_type = ? AND comp1 = ? AND comp2 = ? ORDER BY seq")
	if err := s.db.SelectContext(ctx, &rows, query, key.Dataset, key.CellType, key.Comp1, key.Comp2); err != nil {
		return nil, fmt.Errorf("failed to filter DGE rows: %w", err)
	}
	return rows, nil
}

// FilterGSEA returns the matching GSEA rows sorted ascending by padj, at
// most limit. Ties keep load order so both backends agree. A negative limit
// returns every match.
func (s *SQLStore) FilterGSEA(ctx context.Context, key analysis.FilterKey, limit int) ([]analysis.GSEARecord, error) {
	rows := make([]analysis.GSEARecord, 0)
	query := "SELECT " + gseaColumns + " FROM gsea_results WHERE dataset = ? AND cell_type = ? AND comp1 = ? AND comp2 = ? ORDER BY padj, seq"
	args := []interface{}{key.Dataset, key.CellType, key.Comp1, key.Comp2}
	if limit >= 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to filter GSEA rows: %w", err)
	}
	return rows, nil
}
