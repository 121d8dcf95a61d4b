// ABOUTME: Retrieval metrics for benchmark scenarios: hit rate, reciprocal rank and context recall
// ABOUTME: Deterministic scoring against each scenario's ground truth

package ragas

import (
	"fmt"
	"strings"
)

// passThreshold is the minimum context recall and hit rate for a PASS
const passThreshold = 0.9

// MetricsCalculator computes retrieval scores for benchmark tests
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateHitRate returns the fraction of expected documents present in rankedDocs
func (m *MetricsCalculator) CalculateHitRate(rankedDocs, expectedDocs []string) float64 {
	if len(expectedDocs) == 0 {
		return 1.0
	}

	found := 0
	for _, expected := range expectedDocs {
		for _, doc := range rankedDocs {
			if doc == expected {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(expectedDocs))
}

// CalculateReciprocalRank returns 1/rank of the first expected document, or 0
func (m *MetricsCalculator) CalculateReciprocalRank(rankedDocs, expectedDocs []string) float64 {
	for i, doc := range rankedDocs {
		for _, expected := range expectedDocs {
			if doc == expected {
				return 1.0 / float64(i+1)
			}
		}
	}
	return 0
}

// CalculateContextRecall computes context recall score (0.0-1.0)
// Context Recall = Did the assembled context contain the ground-truth items?
func (m *MetricsCalculator) CalculateContextRecall(
	context string,
	expectedContextItems []string,
) (float64, string) {
	if len(expectedContextItems) == 0 {
		return 1.0, "No context retrieval required"
	}

	contextUpper := strings.ToUpper(context)

	foundCount := 0
	missingItems := []string{}

	for _, expectedItem := range expectedContextItems {
		if strings.Contains(contextUpper, strings.ToUpper(expectedItem)) {
			foundCount++
		} else {
			missingItems = append(missingItems, expectedItem)
		}
	}

	recall := float64(foundCount) / float64(len(expectedContextItems))

	if recall == 1.0 {
		return 1.0, "Perfect context recall - all expected items retrieved"
	}

	return recall, fmt.Sprintf(
		"Partial context recall (%.2f) - missing items: %v",
		recall, missingItems,
	)
}

// CalculateContextPrecision returns 1 minus the fraction of forbidden items found in context
func (m *MetricsCalculator) CalculateContextPrecision(context string, forbiddenItems []string) (float64, string) {
	if len(forbiddenItems) == 0 {
		return 1.0, "No distractors to exclude"
	}

	contextUpper := strings.ToUpper(context)
	found := []string{}
	for _, item := range forbiddenItems {
		if strings.Contains(contextUpper, strings.ToUpper(item)) {
			found = append(found, item)
		}
	}

	precision := 1.0 - float64(len(found))/float64(len(forbiddenItems))
	if len(found) == 0 {
		return precision, "No distractor content in context"
	}
	return precision, fmt.Sprintf("Distractor content in context: %v", found)
}

// EvaluateTest scores one scenario from its ranked document IDs and assembled context
func (m *MetricsCalculator) EvaluateTest(
	scenario TestScenario,
	rankedDocs []string,
	context string,
) TestResult {
	hitRate := m.CalculateHitRate(rankedDocs, scenario.GroundTruth.ExpectedDocuments)
	rr := m.CalculateReciprocalRank(rankedDocs, scenario.GroundTruth.ExpectedDocuments)
	recall, recallDetail := m.CalculateContextRecall(context, scenario.GroundTruth.ExpectedContextItems)
	precision, precisionDetail := m.CalculateContextPrecision(context, scenario.GroundTruth.ForbiddenContextItems)

	overall := (hitRate + rr + recall + precision) / 4.0

	status := "FAIL"
	if hitRate >= passThreshold && recall >= passThreshold {
		status = "PASS"
	}

	return TestResult{
		TestID:             scenario.ID,
		TestName:           scenario.Name,
		HitRate:            hitRate,
		ReciprocalRank:     rr,
		ContextRecallScore: recall,
		ContextPrecision:   precision,
		OverallScore:       overall,
		Status:             status,
		Details: map[string]interface{}{
			"recall_detail":    recallDetail,
			"precision_detail": precisionDetail,
			"ranked_documents": rankedDocs,
			"context_preview":  context[:min(200, len(context))],
		},
	}
}
