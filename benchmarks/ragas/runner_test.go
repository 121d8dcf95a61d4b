// ABOUTME: Tests for the benchmark runner
// ABOUTME: Runs a small scenario end to end with a keyword embedder

package ragas

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/omnirecall/internal/core"
)

type keywordEmbedder struct{}

func (keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "alpha"):
		return []float32{1, 0}, nil
	case strings.Contains(lower, "bravo"):
		return []float32{0, 1}, nil
	default:
		return []float32{0.5, 0.5}, nil
	}
}

func (keywordEmbedder) Dimension() int { return 2 }

func alphaScenario() TestScenario {
	return TestScenario{
		ID:   "alpha",
		Name: "Alpha lookup",
		Documents: []Document{
			{ID: "doc_b", Name: "b.txt", Text: "Bravo facts live here."},
			{ID: "doc_a", Name: "a.txt", Text: "Alpha facts live here."},
		},
		Query: "tell me about alpha",
		GroundTruth: GroundTruth{
			ExpectedDocuments:    []string{"doc_a"},
			ExpectedContextItems: []string{"Alpha facts"},
		},
	}
}

func TestRunTest(t *testing.T) {
	runner := NewBenchmarkRunner(keywordEmbedder{}, core.DefaultIndexerConfig(), io.Discard, false)

	result, err := runner.RunTest(context.Background(), alphaScenario())
	if err != nil {
		t.Fatalf("RunTest() error = %v", err)
	}

	if result.Status != "PASS" {
		t.Errorf("Status = %s, details %v", result.Status, result.Details)
	}
	if result.HitRate != 1 || result.ReciprocalRank != 1 || result.ContextRecallScore != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestRunTest_IndexingFailure(t *testing.T) {
	runner := NewBenchmarkRunner(keywordEmbedder{}, core.DefaultIndexerConfig(), io.Discard, false)
	scenario := alphaScenario()
	scenario.Documents = append(scenario.Documents, Document{ID: "doc_empty", Name: "empty.txt", Text: "  "})

	if _, err := runner.RunTest(context.Background(), scenario); err == nil {
		t.Error("RunTest() should fail when a document cannot be indexed")
	}
}

func TestExportResults(t *testing.T) {
	runner := NewBenchmarkRunner(keywordEmbedder{}, core.DefaultIndexerConfig(), io.Discard, false)
	path := filepath.Join(t.TempDir(), "results.json")

	results := []TestResult{
		{TestID: "a", Status: "PASS"},
		{TestID: "b", Status: "FAIL"},
	}
	if err := runner.ExportResults(results, path); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var summary struct {
		Total  int `json:"total_tests"`
		Passed int `json:"passed"`
		Failed int `json:"failed"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("results are not JSON: %v", err)
	}
	if summary.Total != 2 || summary.Passed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
}
