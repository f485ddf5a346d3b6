// Command dev runs the dashboard over synthetic result tables, or writes
// those tables out as CSV fixtures for the file catalog.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"cellscope/adapters/store"
	"cellscope/app"
	"cellscope/internal/testkit"
	"cellscope/ui"
)

func main() {
	port := flag.String("port", "8080", "dashboard port")
	genes := flag.Int("genes", 0, "genes per comparison (default from testkit)")
	pathways := flag.Int("pathways", 0, "pathways per comparison (default from testkit)")
	seed := flag.Int64("seed", 0, "RNG seed (default from testkit)")
	fixtures := flag.String("fixtures", "", "write CSV fixtures to this directory and exit")
	flag.Parse()

	cfg := testkit.DefaultResultConfig()
	if *genes > 0 {
		cfg.GenesPerComparison = *genes
	}
	if *pathways > 0 {
		cfg.PathwaysPerComparison = *pathways
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	kit, err := testkit.NewTestKitWithConfig(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error building test kit:", err)
		os.Exit(1)
	}

	if *fixtures != "" {
		if err := kit.WriteCSVFixtures(*fixtures); err != nil {
			fmt.Fprintln(os.Stderr, "error writing fixtures:", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote CSV fixtures to %s\n", *fixtures)
		return
	}

	service := app.NewExplorerService(store.NewMemoryStore(kit.Tables()))
	dashboard, err := ui.NewApp(service, nil)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	log.Printf("🚀 Starting cellscope dev dashboard on port %s (synthetic data, seed %d)", *port, cfg.Seed)
	log.Fatal(dashboard.Start(*port))
}
