// ABOUTME: Test runner for retrieval benchmarks - indexes each corpus and scores the answers
// ABOUTME: Every scenario runs against a fresh in-memory store for isolation

package ragas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/core"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/storage/sqlite"
)

// DefaultTopK is how many search results count toward hit rate
const DefaultTopK = 3

// BenchmarkRunner executes retrieval benchmark tests
type BenchmarkRunner struct {
	provider embedding.Provider
	indexer  core.IndexerConfig
	topK     int
	metrics  *MetricsCalculator
	logger   *log.Logger
	out      io.Writer
	verbose  bool
}

// NewBenchmarkRunner creates a runner that embeds with provider and reports to out
func NewBenchmarkRunner(provider embedding.Provider, indexer core.IndexerConfig, out io.Writer, verbose bool) *BenchmarkRunner {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return &BenchmarkRunner{
		provider: provider,
		indexer:  indexer,
		topK:     DefaultTopK,
		metrics:  NewMetricsCalculator(),
		logger:   log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "bench"}),
		out:      out,
		verbose:  verbose,
	}
}

// RunTest executes a single benchmark test
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) (TestResult, error) {
	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RUNNING: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Description: %s\n\n", scenario.Description)
	}

	store, err := sqlite.NewChunkStoreInMemory()
	if err != nil {
		return TestResult{}, fmt.Errorf("failed to create test storage: %w", err)
	}

	engine, err := core.NewEngine(core.EngineOptions{
		Store:    store,
		Provider: r.provider,
		Indexer:  r.indexer,
		Logger:   r.logger,
	})
	if err != nil {
		_ = store.Close()
		return TestResult{}, err
	}
	defer engine.Close()

	for _, doc := range scenario.Documents {
		result := engine.IndexText(ctx, doc.ID, doc.Name, doc.Text)
		if !result.Success {
			return TestResult{}, fmt.Errorf("indexing %s failed: %s", doc.Name, result.Error)
		}
		if r.verbose {
			fmt.Fprintf(r.out, "✓ Indexed %s (%d chunks)\n", doc.Name, result.ChunksCreated)
		}
	}

	results, err := engine.Search(ctx, scenario.Query, r.topK, 0)
	if err != nil {
		return TestResult{}, fmt.Errorf("search failed: %w", err)
	}

	ranked := make([]string, 0, len(results))
	seen := make(map[string]bool)
	for _, res := range results {
		if !seen[res.Chunk.DocumentID] {
			seen[res.Chunk.DocumentID] = true
			ranked = append(ranked, res.Chunk.DocumentID)
		}
	}

	contextText, err := engine.RetrieveContext(ctx, scenario.Query, core.ContextOptions{})
	if err != nil {
		return TestResult{}, fmt.Errorf("context retrieval failed: %w", err)
	}

	result := r.metrics.EvaluateTest(scenario, ranked, contextText)

	if r.verbose {
		fmt.Fprintf(r.out, "\n========================================\n")
		fmt.Fprintf(r.out, "RESULTS: %s\n", scenario.Name)
		fmt.Fprintf(r.out, "========================================\n")
		fmt.Fprintf(r.out, "Hit Rate@%d: %.2f\n", r.topK, result.HitRate)
		fmt.Fprintf(r.out, "Reciprocal Rank: %.2f\n", result.ReciprocalRank)
		fmt.Fprintf(r.out, "Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Fprintf(r.out, "Context Precision: %.2f\n", result.ContextPrecision)
		fmt.Fprintf(r.out, "Status: %s\n", result.Status)
		fmt.Fprintf(r.out, "========================================\n\n")
	}

	return result, nil
}

// RunAllTests executes all benchmark tests
func (r *BenchmarkRunner) RunAllTests(ctx context.Context) ([]TestResult, error) {
	scenarios := GetAllTests()
	results := make([]TestResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunTest(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("test %s failed: %w", scenario.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ExportResults exports test results to JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	passed := 0
	for _, result := range results {
		if result.Status == "PASS" {
			passed++
		}
	}

	summary := map[string]interface{}{
		"timestamp":   time.Now().Format(time.RFC3339),
		"total_tests": len(results),
		"passed":      passed,
		"failed":      len(results) - passed,
		"results":     results,
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	fmt.Fprintf(r.out, "✓ Results exported to: %s\n", outputPath)
	return nil
}
