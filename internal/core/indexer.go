// ABOUTME: Indexer turns document text into embedded chunks and replaces the document in the store
// ABOUTME: Embedding failures skip single chunks; only store failures fail the whole document
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/models"
	"golang.org/x/sync/errgroup"
)

// VectorStore is the persistence the indexer and retriever depend on
type VectorStore interface {
	ReplaceDocument(ctx context.Context, documentID string, chunks []models.Chunk) error
	Search(ctx context.Context, query []float32, topK int) ([]models.SearchResult, error)
}

// IndexerConfig controls chunking and embedding fan-out
type IndexerConfig struct {
	ChunkTokens  int
	ChunkOverlap int
	// Concurrency bounds parallel embedding calls per document; 1 embeds sequentially
	Concurrency int
}

// DefaultIndexerConfig returns the standard 512/50 chunking with sequential embedding
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		ChunkTokens:  DefaultChunkTokens,
		ChunkOverlap: DefaultChunkOverlap,
		Concurrency:  1,
	}
}

// Indexer chunks, embeds and stores documents
type Indexer struct {
	chunker *ChunkEngine
	store   VectorStore
	cfg     IndexerConfig
	logger  *log.Logger
}

// NewIndexer creates an Indexer; zero config fields fall back to defaults
func NewIndexer(store VectorStore, cfg IndexerConfig, logger *log.Logger) *Indexer {
	defaults := DefaultIndexerConfig()
	if cfg.ChunkTokens <= 0 {
		cfg.ChunkTokens = defaults.ChunkTokens
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Indexer{
		chunker: NewChunkEngine(),
		store:   store,
		cfg:     cfg,
		logger:  logger.WithPrefix("indexer"),
	}
}

// Index replaces every stored chunk of documentID with freshly embedded chunks of text.
// It never returns an error value: failures are reported in the result.
// If ctx is cancelled before the store write, the store is left untouched.
func (ix *Indexer) Index(ctx context.Context, documentID, documentName, text string, provider embedding.Provider) models.IndexResult {
	result := models.IndexResult{
		DocumentID:   documentID,
		DocumentName: documentName,
	}

	drafts := ix.chunker.Chunk(text, ix.cfg.ChunkTokens, ix.cfg.ChunkOverlap)
	ix.logger.Debug("chunked document", "document", documentName, "chunks", len(drafts))

	vectors, lastErr := ix.embedDrafts(ctx, drafts, provider)

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Sprintf("indexing cancelled: %v", err)
		ix.logger.Warn("indexing cancelled", "document", documentName, "err", err)
		return result
	}

	chunks := make([]models.Chunk, 0, len(drafts))
	for i, draft := range drafts {
		if vectors[i] == nil {
			result.ChunksSkipped++
			continue
		}
		// indexes stay dense when chunks are skipped
		chunks = append(chunks, draft.ToChunk(documentID, documentName, len(chunks), vectors[i]))
	}

	// prior chunks are removed even when nothing new was embedded
	if err := ix.store.ReplaceDocument(ctx, documentID, chunks); err != nil {
		result.Error = fmt.Sprintf("failed to store chunks: %v", err)
		ix.logger.Error("failed to store chunks", "document", documentName, "err", err)
		return result
	}

	result.ChunksCreated = len(chunks)
	result.Success = result.ChunksCreated > 0

	switch {
	case len(drafts) == 0:
		result.Error = "no indexable content"
	case result.ChunksCreated == 0:
		result.Error = fmt.Sprintf("all %d chunks failed to embed: %v", len(drafts), lastErr)
	}

	ix.logger.Info("indexed document",
		"document", documentName,
		"created", result.ChunksCreated,
		"skipped", result.ChunksSkipped)

	return result
}

// embedDrafts embeds each draft, returning nil at the positions that failed
// together with the last embedding error seen
func (ix *Indexer) embedDrafts(ctx context.Context, drafts []models.ChunkDraft, provider embedding.Provider) ([][]float32, error) {
	vectors := make([][]float32, len(drafts))

	var (
		mu      sync.Mutex
		lastErr error
	)

	fail := func(i int, err error) {
		ix.logger.Warn("skipping chunk", "index", i, "err", err)
		mu.Lock()
		lastErr = err
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(ix.cfg.Concurrency)

	for i, draft := range drafts {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			vec, err := provider.Embed(ctx, draft.Text)
			if err != nil {
				fail(i, err)
				return nil
			}
			if len(vec) == 0 {
				fail(i, fmt.Errorf("empty embedding"))
				return nil
			}
			if dim := provider.Dimension(); dim > 0 && len(vec) != dim {
				fail(i, fmt.Errorf("embedding dimension %d does not match provider dimension %d", len(vec), dim))
				return nil
			}

			vectors[i] = vec
			return nil
		})
	}
	_ = g.Wait()

	return vectors, lastErr
}
