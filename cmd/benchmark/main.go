// ABOUTME: Command-line runner for retrieval benchmarks
// ABOUTME: Embeds each scenario corpus with the configured provider and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/benchmarks/ragas"
	"github.com/harper/omnirecall/internal/config"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/joho/godotenv"
)

func main() {
	testID := flag.String("test", "", "Run specific test (credential, dietary, runbook). If empty, runs all tests.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	configPath := flag.String("config", "", "Path to a YAML config file")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	provider, err := embedding.New(cfg.EmbeddingConfig(), log.Default())
	if err != nil {
		log.Fatal("failed to create embedding provider", "err", err)
	}

	fmt.Println("========================================")
	fmt.Println("Retrieval Benchmarks")
	fmt.Printf("Provider: %s\n", cfg.Provider)
	fmt.Println("========================================")

	runner := ragas.NewBenchmarkRunner(provider, cfg.IndexerConfig(), os.Stdout, *verbose)
	ctx := context.Background()

	var results []ragas.TestResult
	if *testID == "" {
		results, err = runner.RunAllTests(ctx)
		if err != nil {
			log.Fatal("benchmark failed", "err", err)
		}
	} else {
		scenario, ok := ragas.GetTest(*testID)
		if !ok {
			log.Fatal("unknown test ID (valid options: credential, dietary, runbook)", "test", *testID)
		}

		fmt.Printf("Running test: %s\n\n", scenario.Name)

		result, err := runner.RunTest(ctx, scenario)
		if err != nil {
			log.Fatal("test failed", "err", err)
		}
		results = []ragas.TestResult{result}
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	failed := 0
	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		fmt.Printf("  Hit Rate: %.2f\n", result.HitRate)
		fmt.Printf("  Reciprocal Rank: %.2f\n", result.ReciprocalRank)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)
		if result.Status != "PASS" {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", len(results))
	fmt.Printf("Passed: %d\n", len(results)-failed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatal("failed to export results", "err", err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
