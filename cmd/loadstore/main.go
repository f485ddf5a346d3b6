// Command loadstore ingests the results-file catalog into a SQL store so the
// dashboard and API can run against postgres or sqlite instead of re-reading
// the files on every start.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"cellscope/adapters/store"
	"cellscope/adapters/tabular"
	"cellscope/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	backend := flag.String("backend", appConfig.Store.Backend, "store backend: postgres or sqlite")
	dsn := flag.String("dsn", "", "connection string (default DATABASE_URL or SQLITE_PATH)")
	dataDir := flag.String("data", appConfig.Data.Dir, "directory holding the results files")
	flag.Parse()

	if *backend != config.BackendPostgres && *backend != config.BackendSQLite {
		fmt.Fprintln(os.Stderr, "-backend must be postgres or sqlite")
		os.Exit(2)
	}
	if *dsn == "" {
		appConfig.Store.Backend = *backend
		*dsn = appConfig.Store.DSN()
	}
	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "no connection string: set -dsn or DATABASE_URL")
		os.Exit(2)
	}

	ctx := context.Background()

	tables, report, err := tabular.NewCatalog(*dataDir).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load results catalog: %v", err)
	}
	for _, w := range report.Warnings {
		log.Printf("⚠️  %s", w)
	}

	sqlStore, err := store.Open(*backend, *dsn)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", *backend, err)
	}
	defer sqlStore.Close()

	if err := sqlStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if err := sqlStore.ReplaceAll(ctx, tables); err != nil {
		log.Fatalf("Failed to replace tables: %v", err)
	}

	for _, src := range report.Sources {
		status := fmt.Sprintf("%d rows", src.Rows)
		if src.Missing {
			status = "missing"
		} else if src.Skipped > 0 {
			status = fmt.Sprintf("%d rows (%d skipped)", src.Rows, src.Skipped)
		}
		log.Printf("  %s %s: %s", src.Dataset, src.Table, status)
	}
	log.Printf("✅ Ingested run %s into %s: %d DGE rows, %d GSEA rows",
		report.RunID, *backend, report.TotalDGERows(), report.TotalGSEARows())
}
