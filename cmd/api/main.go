// Command api serves the explorer JSON API without the HTML dashboard.
package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"cellscope/adapters/api"
	"cellscope/adapters/store"
	"cellscope/adapters/tabular"
	"cellscope/app"
	"cellscope/internal/config"
	"cellscope/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	var resultStore ports.ResultStorePort
	switch appConfig.Store.Backend {
	case config.BackendMemory:
		tables, report, err := tabular.NewCatalog(appConfig.Data.Dir).Load(context.Background())
		if err != nil {
			log.Fatalf("Failed to load results catalog: %v", err)
		}
		for _, w := range report.Warnings {
			log.Printf("⚠️  %s", w)
		}
		resultStore = store.NewMemoryStore(tables)

	case config.BackendPostgres, config.BackendSQLite:
		sqlStore, err := store.Open(appConfig.Store.Backend, appConfig.Store.DSN())
		if err != nil {
			log.Fatalf("Failed to open %s store: %v", appConfig.Store.Backend, err)
		}
		defer sqlStore.Close()
		resultStore = sqlStore
	}

	server := api.NewServer(app.NewExplorerService(resultStore))

	log.Printf("🚀 Starting cellscope API on port %s (%s store)", appConfig.Server.Port, appConfig.Store.Backend)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
