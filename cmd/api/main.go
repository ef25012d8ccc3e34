package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"dcf_suite/pkg/api/valuation"
	"dcf_suite/pkg/core/ingest"
	"dcf_suite/pkg/core/pipeline"
	"dcf_suite/pkg/core/spread"
	"dcf_suite/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := pipeline.LoadConfig("config/valuation.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load config: %v\n", err)
		fmt.Println("  Falling back to built-in defaults")
		cfg = pipeline.DefaultConfig()
	}

	// Fetch the live spread table, falling back to the bundled snapshot.
	spreads := spread.Default()
	if live, err := ingest.NewSpreadFetcher().Fetch(context.Background()); err != nil {
		fmt.Printf("[WARNING] Spread table fetch failed: %v\n", err)
		fmt.Println("  Using bundled snapshot")
	} else {
		spreads = live
		fmt.Printf("[SPREAD] Live table loaded: %d rows\n", len(live.Entries()))
	}

	// Run history persistence is optional; no DATABASE_URL means runs
	// are not saved.
	var runStore pipeline.RunStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		repo, err := store.Open(context.Background(), dbURL)
		if err != nil {
			fmt.Printf("[WARNING] Run store unavailable: %v\n", err)
		} else {
			runStore = repo
			defer repo.Close()
			fmt.Println("[STORE] Run history enabled")
		}
	} else {
		fmt.Println("[STORE] DATABASE_URL not set, run history disabled")
	}

	runner := pipeline.NewRunner(ingest.NewQuoteClient(), spreads, runStore, cfg)
	valuation.InitHandler(runner)

	http.HandleFunc("/api/valuation/wacc", valuation.HandleWACC)
	http.HandleFunc("/api/valuation/dcf", valuation.HandleDCF)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - POST /api/valuation/wacc")
	fmt.Println("  - POST /api/valuation/dcf")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
