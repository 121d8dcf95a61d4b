// ABOUTME: ChunkEngine splits extracted document text into overlapping token-bounded chunks
// ABOUTME: Sentences are never split; token counts use a chars/4 estimate
package core

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harper/omnirecall/internal/models"
)

const (
	// DefaultChunkTokens is the target chunk size used by the Indexer
	DefaultChunkTokens = 512
	// DefaultChunkOverlap is the overlap used by the Indexer
	DefaultChunkOverlap = 50

	// overlapTokensPerUnit converts an overlap budget into a count of trailing sentences
	overlapTokensPerUnit = 50
)

// ChunkEngine handles sentence-based text chunking
type ChunkEngine struct{}

// NewChunkEngine creates a new ChunkEngine instance
func NewChunkEngine() *ChunkEngine {
	return &ChunkEngine{}
}

// Chunk splits text into chunks of at most maxTokens estimated tokens.
// A single sentence larger than maxTokens is still emitted whole.
// Overlap is approximate: the next chunk is seeded with the last
// overlapTokens/50 sentences before the boundary.
func (ce *ChunkEngine) Chunk(text string, maxTokens, overlapTokens int) []models.ChunkDraft {
	units := splitUnits(text)
	if len(units) == 0 {
		return nil
	}

	overlapUnits := 0
	if overlapTokens > 0 {
		overlapUnits = overlapTokens / overlapTokensPerUnit
	}

	var (
		drafts        []models.ChunkDraft
		buffer        []string
		bufferedCount int
	)

	for i, unit := range units {
		unitTokens := EstimateTokens(unit)

		if bufferedCount+unitTokens > maxTokens && len(buffer) > 0 {
			drafts = append(drafts, newDraft(buffer, bufferedCount))

			buffer = nil
			bufferedCount = 0

			start := i - overlapUnits
			if start < 0 {
				start = 0
			}
			for _, prev := range units[start:i] {
				buffer = append(buffer, prev)
				bufferedCount += EstimateTokens(prev)
			}
		}

		buffer = append(buffer, unit)
		bufferedCount += unitTokens
	}

	if len(buffer) > 0 {
		drafts = append(drafts, newDraft(buffer, bufferedCount))
	}

	return drafts
}

// EstimateTokens approximates the token length of text as ceil(chars/4)
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// splitUnits splits text into sentence-like units.
// '.', '!', '?' and '\n' terminate a unit; units are trimmed and empty ones dropped.
func splitUnits(text string) []string {
	var (
		units   []string
		current strings.Builder
	)

	flush := func() {
		if unit := strings.TrimSpace(current.String()); unit != "" {
			units = append(units, unit)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		switch r {
		case '.', '!', '?', '\n':
			flush()
		}
	}
	flush()

	return units
}

func newDraft(units []string, tokens int) models.ChunkDraft {
	return models.ChunkDraft{
		ID:         generateChunkID(),
		Text:       strings.Join(units, " "),
		TokenCount: tokens,
	}
}

// generateChunkID generates a unique chunk ID
func generateChunkID() string {
	return "chunk_" + uuid.New().String()
}
