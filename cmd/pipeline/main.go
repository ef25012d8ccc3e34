package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"dcf_suite/pkg/core/ingest"
	"dcf_suite/pkg/core/pipeline"
	"dcf_suite/pkg/core/report"
	"dcf_suite/pkg/core/spread"
	"dcf_suite/pkg/core/store"
)

func main() {
	godotenv.Load()

	ticker := flag.String("ticker", "", "ticker symbol to value (required)")
	configPath := flag.String("config", "config/valuation.yaml", "path to run configuration")
	scenarioPath := flag.String("scenario", "", "HJSON scenario file overriding historical assumptions")
	offlineSpreads := flag.Bool("offline-spreads", false, "skip the live spread fetch and use the bundled table")
	flag.Parse()

	if *ticker == "" {
		fmt.Println("Usage: pipeline -ticker AAPL [-config config/valuation.yaml] [-scenario config/scenarios/base.hjson]")
		os.Exit(1)
	}

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("[WARNING] Failed to load config: %v\n", err)
		fmt.Println("  Falling back to built-in defaults")
		cfg = pipeline.DefaultConfig()
	}
	if *scenarioPath != "" {
		cfg.ScenarioPath = *scenarioPath
	}

	ctx := context.Background()

	spreads := spread.Default()
	if !*offlineSpreads {
		if live, err := ingest.NewSpreadFetcher().Fetch(ctx); err != nil {
			fmt.Printf("[WARNING] Spread table fetch failed: %v\n", err)
			fmt.Println("  Using bundled snapshot")
		} else {
			spreads = live
		}
	}

	var runStore pipeline.RunStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		repo, err := store.Open(ctx, dbURL)
		if err != nil {
			fmt.Printf("[WARNING] Run store unavailable: %v\n", err)
		} else {
			runStore = repo
			defer repo.Close()
		}
	}

	runner := pipeline.NewRunner(ingest.NewQuoteClient(), spreads, runStore, cfg)
	summary, err := runner.Run(ctx, *ticker)
	if err != nil {
		fmt.Printf("[FATAL] Valuation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(report.BuildMarkdown(summary))
}
