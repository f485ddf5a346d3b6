package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"cellscope/adapters/store"
	"cellscope/adapters/tabular"
	"cellscope/app"
	"cellscope/internal/config"
	"cellscope/internal/metrics"
	"cellscope/ports"
	"cellscope/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var (
		resultStore ports.ResultStorePort
		reload      ui.ReloadFunc
	)

	switch appConfig.Store.Backend {
	case config.BackendMemory:
		// The memory backend reads the results catalog at startup and can
		// re-read it on demand via the admin reload endpoint.
		catalog := tabular.NewCatalog(appConfig.Data.Dir)
		tables, report, err := catalog.Load(context.Background())
		if err != nil {
			log.Fatalf("Failed to load results catalog: %v", err)
		}
		logLoadWarnings(report)
		recordRowMetrics(report)

		memStore := store.NewMemoryStore(tables)
		resultStore = memStore
		reload = func(ctx context.Context) (*tabular.LoadReport, error) {
			tables, report, err := catalog.Load(ctx)
			if err != nil {
				return nil, err
			}
			memStore.Swap(tables)
			logLoadWarnings(report)
			recordRowMetrics(report)
			return report, nil
		}

	case config.BackendPostgres, config.BackendSQLite:
		// SQL backends serve rows ingested previously by cmd/loadstore.
		sqlStore, err := store.Open(appConfig.Store.Backend, appConfig.Store.DSN())
		if err != nil {
			log.Fatalf("Failed to open %s store: %v", appConfig.Store.Backend, err)
		}
		defer sqlStore.Close()
		resultStore = sqlStore
	}

	service := app.NewExplorerService(resultStore)

	dashboard, err := ui.NewApp(service, reload)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("🚀 Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("❌ pprof server failed: %v", err)
			}
		}()
	}

	log.Printf("🚀 Starting cellscope dashboard on port %s (%s store)", appConfig.Server.Port, appConfig.Store.Backend)
	log.Fatal(dashboard.Start(appConfig.Server.Port))
}

// logLoadWarnings surfaces per-file load problems without failing startup.
func logLoadWarnings(report *tabular.LoadReport) {
	for _, w := range report.Warnings {
		log.Printf("⚠️  %s", w)
	}
	log.Printf("✅ Catalog run %s: %d DGE rows, %d GSEA rows", report.RunID, report.TotalDGERows(), report.TotalGSEARows())
}

// recordRowMetrics publishes per-dataset row counts from a load report.
func recordRowMetrics(report *tabular.LoadReport) {
	dge := make(map[string]int)
	gsea := make(map[string]int)
	for _, s := range report.Sources {
		switch s.Table {
		case "dge":
			dge[s.Dataset] += s.Rows
		case "gsea":
			gsea[s.Dataset] += s.Rows
		}
	}
	for dataset := range dge {
		metrics.SetRowsLoaded(dataset, dge[dataset], gsea[dataset])
	}
}
