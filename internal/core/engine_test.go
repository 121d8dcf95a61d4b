// ABOUTME: Tests for the Engine facade
// ABOUTME: Exercises file indexing, search, context and admin operations end to end
package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/omnirecall/internal/extract"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineOptions{
		Store:    newTestStore(t),
		Provider: newKeywordEmbedder(),
		Indexer:  smallChunks(),
		Logger:   quietLogger,
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewEngine_RequiresStore(t *testing.T) {
	if _, err := NewEngine(EngineOptions{}); err == nil {
		t.Error("NewEngine() should require a store")
	}
}

func TestEngine_IndexFileAndSearch(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeDoc(t, dir, "letters.txt", threeSentences)

	result, err := engine.IndexFile(ctx, path)
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if !result.Success || result.ChunksCreated != 3 {
		t.Fatalf("IndexFile() result = %+v", result)
	}
	if result.DocumentID != extract.DocumentID(path) {
		t.Errorf("DocumentID = %q, want stable path id", result.DocumentID)
	}
	if result.DocumentName != "letters.txt" {
		t.Errorf("DocumentName = %q", result.DocumentName)
	}

	results, err := engine.Search(ctx, "tell me about bravo", 1, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Content != "Bravo two." {
		t.Errorf("Search() = %+v, want the bravo chunk", results)
	}

	// re-indexing the same path replaces rather than appends
	if _, err := engine.IndexFile(ctx, path); err != nil {
		t.Fatalf("second IndexFile() error = %v", err)
	}
	stats, _ := engine.IndexStats(ctx)
	if stats.ChunkCount != 3 || stats.DocumentCount != 1 {
		t.Errorf("IndexStats() = %+v after re-index", stats)
	}
}

func TestEngine_SearchDefaultTopK(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	text := strings.Repeat("Alpha one. Bravo two. Charlie three. ", 3)
	_ = engine.IndexText(ctx, "doc_1", "many.txt", text)

	results, err := engine.Search(ctx, "alpha", 0, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != DefaultSearchTopK {
		t.Errorf("Search() returned %d, want %d", len(results), DefaultSearchTopK)
	}
}

func TestEngine_IndexFileExtractionError(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.IndexFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))

	var extErr *extract.Error
	if !errors.As(err, &extErr) {
		t.Fatalf("IndexFile() error = %v, want *extract.Error", err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("result = %+v, want failure with message", result)
	}
}

func TestEngine_RetrieveContext(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	got, err := engine.RetrieveContext(ctx, "charlie", ContextOptions{})
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	if got != "" {
		t.Errorf("RetrieveContext() on empty index = %q, want empty", got)
	}

	_ = engine.IndexText(ctx, "doc_1", "letters.txt", threeSentences)

	got, err = engine.RetrieveContext(ctx, "charlie", ContextOptions{})
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	if !strings.HasPrefix(got, "Relevant document context:\n\n--- letters.txt (relevance: 1.00) ---\nCharlie three.") {
		t.Errorf("RetrieveContext() = %q", got)
	}
}

func TestEngine_AdminOperations(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	_ = engine.IndexText(ctx, "doc_a", "a.txt", threeSentences)
	_ = engine.IndexText(ctx, "doc_b", "b.txt", "Bravo only.")

	docs, err := engine.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 || docs[0].DocumentName != "a.txt" || docs[0].ChunkCount != 3 {
		t.Errorf("ListDocuments() = %+v", docs)
	}

	chunks, err := engine.DocumentChunks(ctx, "doc_a")
	if err != nil || len(chunks) != 3 {
		t.Errorf("DocumentChunks() = %d chunks, err %v", len(chunks), err)
	}

	removed, err := engine.RemoveDocument(ctx, "doc_a")
	if err != nil || removed != 3 {
		t.Errorf("RemoveDocument() = %d, %v; want 3", removed, err)
	}

	stats, err := engine.IndexStats(ctx)
	if err != nil {
		t.Fatalf("IndexStats() error = %v", err)
	}
	if stats.ChunkCount != 1 || !stats.Indexed || stats.Dimension != 3 {
		t.Errorf("IndexStats() = %+v", stats)
	}

	cleared, err := engine.ClearIndex(ctx)
	if err != nil || cleared != 1 {
		t.Errorf("ClearIndex() = %d, %v; want 1", cleared, err)
	}

	stats, _ = engine.IndexStats(ctx)
	if stats.Indexed {
		t.Error("index should be empty after ClearIndex()")
	}
}

func TestEngine_NoProvider(t *testing.T) {
	engine, err := NewEngine(EngineOptions{Store: newTestStore(t), Logger: quietLogger})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()

	if _, err := engine.Search(ctx, "q", 5, 0); !errors.Is(err, ErrNoProvider) {
		t.Errorf("Search() error = %v, want ErrNoProvider", err)
	}
	if _, err := engine.RetrieveContext(ctx, "q", ContextOptions{}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("RetrieveContext() error = %v, want ErrNoProvider", err)
	}
	if result := engine.IndexText(ctx, "d", "d", "Text."); result.Success {
		t.Error("IndexText() without provider should fail")
	}

	// admin operations work without a provider
	if _, err := engine.IndexStats(ctx); err != nil {
		t.Errorf("IndexStats() error = %v", err)
	}
}
