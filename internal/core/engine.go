// ABOUTME: Engine bundles the store, indexer and context assembler behind one API
// ABOUTME: Built from explicit options; used by the CLI and the MCP server
package core

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/extract"
	"github.com/harper/omnirecall/internal/models"
	"github.com/harper/omnirecall/internal/storage/sqlite"
)

// ErrNoProvider is returned by operations that need embeddings when none is configured
var ErrNoProvider = errors.New("no embedding provider configured")

// EngineOptions configures an Engine
type EngineOptions struct {
	Store    *sqlite.ChunkStore
	Provider embedding.Provider
	Indexer  IndexerConfig
	Context  ContextOptions
	// SearchTopK is the default result count for Search when topK <= 0
	SearchTopK int
	Logger     *log.Logger
}

// Engine is the retrieval engine facade
type Engine struct {
	store      *sqlite.ChunkStore
	provider   embedding.Provider
	indexer    *Indexer
	assembler  *ContextAssembler
	contextOps ContextOptions
	searchTopK int
	logger     *log.Logger
}

// NewEngine creates an Engine. A nil Provider is allowed for admin-only use.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine requires a store")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SearchTopK <= 0 {
		opts.SearchTopK = DefaultSearchTopK
	}

	return &Engine{
		store:      opts.Store,
		provider:   opts.Provider,
		indexer:    NewIndexer(opts.Store, opts.Indexer, opts.Logger),
		assembler:  NewContextAssembler(opts.Store, opts.Logger),
		contextOps: opts.Context.withDefaults(),
		searchTopK: opts.SearchTopK,
		logger:     opts.Logger,
	}, nil
}

// Store returns the underlying chunk store
func (e *Engine) Store() *sqlite.ChunkStore {
	return e.store
}

// Close closes the store
func (e *Engine) Close() error {
	return e.store.Close()
}

// IndexText indexes already-extracted text under documentID
func (e *Engine) IndexText(ctx context.Context, documentID, documentName, text string) models.IndexResult {
	if e.provider == nil {
		return models.IndexResult{DocumentID: documentID, DocumentName: documentName, Error: ErrNoProvider.Error()}
	}
	return e.indexer.Index(ctx, documentID, documentName, text, e.provider)
}

// IndexFile extracts path and indexes it under its stable document id.
// Extraction failures are returned as *extract.Error; indexing failures are in the result.
func (e *Engine) IndexFile(ctx context.Context, path string) (models.IndexResult, error) {
	return e.IndexFileAs(ctx, path, extract.DocumentID(path), filepath.Base(path))
}

// IndexFileAs is IndexFile with a caller-chosen document id and name
func (e *Engine) IndexFileAs(ctx context.Context, path, documentID, documentName string) (models.IndexResult, error) {
	text, err := extract.File(path)
	if err != nil {
		e.logger.Warn("extraction failed", "path", path, "err", err)
		return models.IndexResult{DocumentID: documentID, DocumentName: documentName, Error: err.Error()}, err
	}
	return e.IndexText(ctx, documentID, documentName, text), nil
}

// Search returns the topK chunks most similar to query; topK <= 0 uses the default
func (e *Engine) Search(ctx context.Context, query string, topK int, minScore float64) ([]models.SearchResult, error) {
	if e.provider == nil {
		return nil, ErrNoProvider
	}
	if topK <= 0 {
		topK = e.searchTopK
	}
	return e.assembler.Search(ctx, query, e.provider, topK, minScore)
}

// RetrieveContext builds a grounding context for query.
// Zero-valued option fields use the engine's configured defaults.
func (e *Engine) RetrieveContext(ctx context.Context, query string, opts ContextOptions) (string, error) {
	if e.provider == nil {
		return "", ErrNoProvider
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = e.contextOps.MaxTokens
	}
	if opts.SearchK <= 0 {
		opts.SearchK = e.contextOps.SearchK
	}
	if opts.RelevanceCutoff == 0 {
		opts.RelevanceCutoff = e.contextOps.RelevanceCutoff
	}
	if opts.MinResults <= 0 {
		opts.MinResults = e.contextOps.MinResults
	}
	return e.assembler.RetrieveContext(ctx, query, e.provider, opts)
}

// ClearIndex removes every chunk and returns how many were removed
func (e *Engine) ClearIndex(ctx context.Context) (int, error) {
	n, err := e.store.Clear(ctx)
	if err == nil {
		e.logger.Info("index cleared", "chunks", n)
	}
	return n, err
}

// IndexStats reports chunk and document counts
func (e *Engine) IndexStats(ctx context.Context) (models.IndexStats, error) {
	return e.store.Stats(ctx)
}

// RemoveDocument deletes a document's chunks; unknown ids remove nothing
func (e *Engine) RemoveDocument(ctx context.Context, documentID string) (int, error) {
	return e.store.RemoveByDocument(ctx, documentID)
}

// ListDocuments summarizes the indexed documents
func (e *Engine) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	return e.store.ListDocuments(ctx)
}

// DocumentChunks returns a document's chunks in order
func (e *Engine) DocumentChunks(ctx context.Context, documentID string) ([]models.Chunk, error) {
	return e.store.GetDocumentChunks(ctx, documentID)
}
