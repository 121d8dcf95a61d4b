// ABOUTME: ContextAssembler embeds a query, searches the store and builds a token-budgeted context
// ABOUTME: Stops at the budget, and at low relevance once enough results are included
package core

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/models"
)

const (
	// DefaultContextMaxTokens is the default context budget
	DefaultContextMaxTokens = 4000
	// DefaultContextSearchK is the number of candidates fetched for context assembly
	DefaultContextSearchK = 10
	// DefaultRelevanceCutoff is the score below which extra results are dropped
	DefaultRelevanceCutoff = 0.5
	// DefaultMinResults is how many results are always admitted before the cutoff applies
	DefaultMinResults = 3
	// DefaultSearchTopK is the default number of results for a plain search
	DefaultSearchTopK = 5

	contextPreamble = "Relevant document context:\n\n"
)

// ContextOptions controls context assembly
type ContextOptions struct {
	MaxTokens       int
	SearchK         int
	RelevanceCutoff float64
	MinResults      int
}

// DefaultContextOptions returns the standard 4000-token, top-10 settings
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		MaxTokens:       DefaultContextMaxTokens,
		SearchK:         DefaultContextSearchK,
		RelevanceCutoff: DefaultRelevanceCutoff,
		MinResults:      DefaultMinResults,
	}
}

func (o ContextOptions) withDefaults() ContextOptions {
	d := DefaultContextOptions()
	if o.MaxTokens <= 0 {
		o.MaxTokens = d.MaxTokens
	}
	if o.SearchK <= 0 {
		o.SearchK = d.SearchK
	}
	if o.MinResults <= 0 {
		o.MinResults = d.MinResults
	}
	return o
}

// ContextAssembler retrieves chunks for a query and formats them for a language model
type ContextAssembler struct {
	store  VectorStore
	logger *log.Logger
}

// NewContextAssembler creates a ContextAssembler over store
func NewContextAssembler(store VectorStore, logger *log.Logger) *ContextAssembler {
	if logger == nil {
		logger = log.Default()
	}
	return &ContextAssembler{
		store:  store,
		logger: logger.WithPrefix("retriever"),
	}
}

// Search embeds query and returns up to topK results scoring at least minScore.
// A failed query embedding is returned as-is so callers can inspect its kind.
func (ca *ContextAssembler) Search(ctx context.Context, query string, provider embedding.Provider, topK int, minScore float64) ([]models.SearchResult, error) {
	vec, err := provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := ca.store.Search(ctx, vec, topK)
	if err != nil {
		return nil, err
	}

	if minScore > 0 {
		kept := results[:0]
		for _, r := range results {
			if r.Score >= minScore {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	ca.logger.Debug("search complete", "results", len(results), "top_k", topK)
	return results, nil
}

// RetrieveContext searches for query and assembles the results into a context string.
// An empty string with a nil error means no grounding is available.
func (ca *ContextAssembler) RetrieveContext(ctx context.Context, query string, provider embedding.Provider, opts ContextOptions) (string, error) {
	opts = opts.withDefaults()

	results, err := ca.Search(ctx, query, provider, opts.SearchK, 0)
	if err != nil {
		return "", err
	}

	return AssembleContext(results, opts), nil
}

// AssembleContext formats results, best first, until the token budget is reached
// or, once MinResults are included, the next result scores below RelevanceCutoff.
// It returns "" when no result fits.
func AssembleContext(results []models.SearchResult, opts ContextOptions) string {
	opts = opts.withDefaults()
	if len(results) == 0 {
		return ""
	}

	var (
		sb       strings.Builder
		total    int
		included int
	)

	for _, r := range results {
		if included >= opts.MinResults && r.Score < opts.RelevanceCutoff {
			break
		}

		cost := ContextTokenCost(r.Chunk.Content)
		if total+cost > opts.MaxTokens {
			break
		}

		if included == 0 {
			sb.WriteString(contextPreamble)
		}

		name := r.Chunk.DocumentName
		if name == "" {
			name = r.Chunk.DocumentID
		}
		fmt.Fprintf(&sb, "--- %s (relevance: %.2f) ---\n", name, r.Score)
		sb.WriteString(r.Chunk.Content)
		sb.WriteString("\n\n")

		total += cost
		included++
	}

	return sb.String()
}

// ContextTokenCost estimates a chunk's context cost as runes/4, rounded down
// (EstimateTokens rounds up). It counts runes, not UTF-8 bytes, so non-ASCII
// text costs less here than a bytes/4 estimate would charge for it; budgets
// compared against byte-based counts will admit more multi-byte text.
func ContextTokenCost(content string) int {
	return utf8.RuneCountInString(content) / 4
}
