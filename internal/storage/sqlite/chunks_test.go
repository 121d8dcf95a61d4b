// ABOUTME: Tests for ChunkStore persistence, replacement and similarity search
// ABOUTME: Uses in-memory SQLite plus a file-backed store for durability checks
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harper/omnirecall/internal/models"
)

func newTestStore(t *testing.T) *ChunkStore {
	t.Helper()
	store, err := NewChunkStoreInMemory()
	if err != nil {
		t.Fatalf("NewChunkStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testChunk(id, docID string, index int, vec []float32) models.Chunk {
	return models.Chunk{
		ID:           id,
		DocumentID:   docID,
		DocumentName: docID + ".md",
		Content:      "content of " + id,
		Embedding:    vec,
		ChunkIndex:   index,
		TokenCount:   5,
		CreatedAt:    time.Now(),
	}
}

func TestChunkStore_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testChunk("chunk_1", "doc_a", 0, []float32{0.5, 0.25, -1})
	if err := store.Upsert(ctx, c); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	chunks, err := store.GetDocumentChunks(ctx, "doc_a")
	if err != nil {
		t.Fatalf("GetDocumentChunks() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("GetDocumentChunks() returned %d chunks, want 1", len(chunks))
	}

	got := chunks[0]
	if got.ID != "chunk_1" || got.DocumentName != "doc_a.md" || got.Content != "content of chunk_1" {
		t.Errorf("unexpected chunk %+v", got)
	}
	if got.TokenCount != 5 {
		t.Errorf("TokenCount = %d, want 5", got.TokenCount)
	}
	if len(got.Embedding) != 3 || got.Embedding[2] != -1 {
		t.Errorf("Embedding = %v, want [0.5 0.25 -1]", got.Embedding)
	}
}

func TestChunkStore_UpsertReplacesSameID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testChunk("chunk_1", "doc_a", 0, []float32{1, 0})
	if err := store.Upsert(ctx, c); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	c.Content = "updated"
	if err := store.Upsert(ctx, c); err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	chunks, _ := store.GetDocumentChunks(ctx, "doc_a")
	if chunks[0].Content != "updated" {
		t.Errorf("Content = %q, want updated", chunks[0].Content)
	}
}

func TestChunkStore_UpsertRejectsInvalidChunk(t *testing.T) {
	store := newTestStore(t)

	c := testChunk("chunk_1", "doc_a", 0, nil)
	err := store.Upsert(context.Background(), c)
	if err == nil {
		t.Fatal("Upsert() should reject a chunk without an embedding")
	}

	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Errorf("Upsert() error = %T, want *DatabaseError", err)
	}
}

func TestChunkStore_UpsertBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []models.Chunk{
		testChunk("c0", "doc_a", 0, []float32{1, 0}),
		testChunk("c1", "doc_a", 1, []float32{0, 1}),
		testChunk("c2", "doc_b", 0, []float32{1, 1}),
	}
	if err := store.UpsertBatch(ctx, batch); err != nil {
		t.Fatalf("UpsertBatch() error = %v", err)
	}

	count, _ := store.Count(ctx)
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	// an invalid chunk aborts the whole batch
	bad := []models.Chunk{
		testChunk("c3", "doc_c", 0, []float32{1, 0}),
		testChunk("", "doc_c", 1, []float32{1, 0}),
	}
	if err := store.UpsertBatch(ctx, bad); err == nil {
		t.Fatal("UpsertBatch() should fail on an invalid chunk")
	}

	exists, _ := store.DocumentExists(ctx, "doc_c")
	if exists {
		t.Error("failed batch should not leave partial writes")
	}
}

func TestChunkStore_ReplaceDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []models.Chunk{
		testChunk("old_0", "doc_a", 0, []float32{1, 0}),
		testChunk("old_1", "doc_a", 1, []float32{0, 1}),
		testChunk("old_2", "doc_a", 2, []float32{1, 1}),
	}
	if err := store.ReplaceDocument(ctx, "doc_a", first); err != nil {
		t.Fatalf("ReplaceDocument() error = %v", err)
	}
	if err := store.Upsert(ctx, testChunk("other_0", "doc_b", 0, []float32{1, 0})); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	second := []models.Chunk{
		testChunk("new_0", "doc_a", 0, []float32{0, 1}),
	}
	if err := store.ReplaceDocument(ctx, "doc_a", second); err != nil {
		t.Fatalf("ReplaceDocument() second error = %v", err)
	}

	chunks, err := store.GetDocumentChunks(ctx, "doc_a")
	if err != nil {
		t.Fatalf("GetDocumentChunks() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "new_0" {
		t.Errorf("doc_a chunks = %+v, want only new_0", chunks)
	}

	// other documents are untouched
	other, _ := store.GetDocumentChunks(ctx, "doc_b")
	if len(other) != 1 {
		t.Errorf("doc_b chunks = %d, want 1", len(other))
	}
}

func TestChunkStore_ReplaceDocumentWithNothingRemoves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceDocument(ctx, "doc_a", []models.Chunk{testChunk("c0", "doc_a", 0, []float32{1})}); err != nil {
		t.Fatalf("ReplaceDocument() error = %v", err)
	}
	if err := store.ReplaceDocument(ctx, "doc_a", nil); err != nil {
		t.Fatalf("ReplaceDocument(nil) error = %v", err)
	}

	exists, err := store.DocumentExists(ctx, "doc_a")
	if err != nil {
		t.Fatalf("DocumentExists() error = %v", err)
	}
	if exists {
		t.Error("document should be gone after replacing with no chunks")
	}
}

func TestChunkStore_ReplaceDocumentRejectsForeignChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceDocument(ctx, "doc_a", []models.Chunk{testChunk("c0", "doc_a", 0, []float32{1})}); err != nil {
		t.Fatalf("ReplaceDocument() error = %v", err)
	}

	err := store.ReplaceDocument(ctx, "doc_a", []models.Chunk{testChunk("c1", "doc_b", 0, []float32{1})})
	if err == nil {
		t.Fatal("ReplaceDocument() should reject chunks from another document")
	}

	// rejected before any write, so the old chunk survives
	chunks, _ := store.GetDocumentChunks(ctx, "doc_a")
	if len(chunks) != 1 || chunks[0].ID != "c0" {
		t.Errorf("doc_a chunks = %+v, want c0", chunks)
	}
}

func TestChunkStore_RemoveByDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.UpsertBatch(ctx, []models.Chunk{
		testChunk("c0", "doc_a", 0, []float32{1, 0}),
		testChunk("c1", "doc_a", 1, []float32{0, 1}),
		testChunk("c2", "doc_b", 0, []float32{1, 1}),
	})

	removed, err := store.RemoveByDocument(ctx, "doc_a")
	if err != nil {
		t.Fatalf("RemoveByDocument() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("RemoveByDocument() removed %d, want 2", removed)
	}

	// idempotent
	removed, err = store.RemoveByDocument(ctx, "doc_a")
	if err != nil {
		t.Fatalf("RemoveByDocument() second error = %v", err)
	}
	if removed != 0 {
		t.Errorf("second RemoveByDocument() removed %d, want 0", removed)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestChunkStore_SearchScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.UpsertBatch(ctx, []models.Chunk{
		testChunk("A", "doc", 0, []float32{1, 0, 0}),
		testChunk("B", "doc", 1, []float32{0.9, 0.1, 0}),
		testChunk("C", "doc", 2, []float32{0, 1, 0}),
	})

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}

	if results[0].Chunk.ID != "A" {
		t.Errorf("first result = %s, want A", results[0].Chunk.ID)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("first score = %v, want 1.0", results[0].Score)
	}
	if results[1].Chunk.ID != "B" {
		t.Errorf("second result = %s, want B", results[1].Chunk.ID)
	}
	if math.Abs(results[1].Score-0.994) > 0.001 {
		t.Errorf("second score = %v, want ~0.994", results[1].Score)
	}
}

func TestChunkStore_SearchOrderingAndBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var batch []models.Chunk
	for i := 0; i < 20; i++ {
		angle := float64(i) * math.Pi / 20
		batch = append(batch, testChunk(fmt.Sprintf("c%02d", i), "doc", i,
			[]float32{float32(math.Cos(angle)), float32(math.Sin(angle))}))
	}
	_ = store.UpsertBatch(ctx, batch)

	for _, k := range []int{1, 5, 20, 50} {
		results, err := store.Search(ctx, []float32{1, 0}, k)
		if err != nil {
			t.Fatalf("Search(k=%d) error = %v", k, err)
		}

		want := k
		if want > 20 {
			want = 20
		}
		if len(results) != want {
			t.Errorf("Search(k=%d) returned %d results, want %d", k, len(results), want)
		}

		for i := 1; i < len(results); i++ {
			if results[i].Score > results[i-1].Score {
				t.Errorf("Search(k=%d) results not descending at %d", k, i)
			}
		}
	}
}

func TestChunkStore_SearchTiesKeepStorageOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if err := store.Upsert(ctx, testChunk(id, "doc", 0, []float32{1, 1})); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	results, err := store.Search(ctx, []float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, r := range results {
		if r.Chunk.ID != want[i] {
			t.Errorf("result %d = %s, want %s", i, r.Chunk.ID, want[i])
		}
	}
}

func TestChunkStore_SearchEdgeCases(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	results, err := store.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search() on empty store error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty store returned %d results", len(results))
	}

	_ = store.Upsert(ctx, testChunk("c0", "doc", 0, []float32{1, 0}))

	results, _ = store.Search(ctx, []float32{1, 0}, 0)
	if len(results) != 0 {
		t.Errorf("topK=0 returned %d results", len(results))
	}

	// dimension mismatch scores 0 instead of failing
	results, err = store.Search(ctx, []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Search() with mismatched dimension error = %v", err)
	}
	if len(results) != 1 || results[0].Score != 0 {
		t.Errorf("mismatched search = %+v, want one zero-score result", results)
	}
}

func TestChunkStore_ListDocumentsAndStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Indexed || stats.ChunkCount != 0 || stats.Dimension != 0 {
		t.Errorf("empty Stats() = %+v", stats)
	}

	_ = store.UpsertBatch(ctx, []models.Chunk{
		testChunk("b0", "beta", 0, []float32{1, 0, 0, 0}),
		testChunk("a0", "alpha", 0, []float32{1, 0, 0, 0}),
		testChunk("a1", "alpha", 1, []float32{0, 1, 0, 0}),
	})

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.ChunkCount != 3 || stats.DocumentCount != 2 || stats.Dimension != 4 || !stats.Indexed {
		t.Errorf("Stats() = %+v", stats)
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("ListDocuments() returned %d docs, want 2", len(docs))
	}
	if docs[0].DocumentID != "alpha" || docs[0].ChunkCount != 2 || docs[0].TokenCount != 10 {
		t.Errorf("docs[0] = %+v", docs[0])
	}
	if docs[1].DocumentName != "beta.md" {
		t.Errorf("docs[1].DocumentName = %q, want beta.md", docs[1].DocumentName)
	}
}

func TestChunkStore_GetDocumentChunksOrdered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.UpsertBatch(ctx, []models.Chunk{
		testChunk("c2", "doc", 2, []float32{1}),
		testChunk("c0", "doc", 0, []float32{1}),
		testChunk("c1", "doc", 1, []float32{1}),
	})

	chunks, err := store.GetDocumentChunks(ctx, "doc")
	if err != nil {
		t.Fatalf("GetDocumentChunks() error = %v", err)
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunks[%d].ChunkIndex = %d", i, c.ChunkIndex)
		}
	}
}

func TestChunkStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.UpsertBatch(ctx, []models.Chunk{
		testChunk("c0", "doc_a", 0, []float32{1}),
		testChunk("c1", "doc_b", 0, []float32{1}),
	})

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Clear() removed %d, want 2", removed)
	}

	count, _ := store.Count(ctx)
	if count != 0 {
		t.Errorf("Count() after Clear() = %d", count)
	}
}

func TestChunkStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.db")

	store, err := NewChunkStoreWithPath(path)
	if err != nil {
		t.Fatalf("NewChunkStoreWithPath() error = %v", err)
	}
	if err := store.Upsert(ctx, testChunk("c0", "doc", 0, []float32{0.1, 0.2})); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewChunkStoreWithPath(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}

	exists, err := reopened.DocumentExists(ctx, "doc")
	if err != nil {
		t.Fatalf("DocumentExists() error = %v", err)
	}
	if !exists {
		t.Error("chunk should survive a reopen")
	}
}

func TestChunkStore_ConcurrentReadersAndWriter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.ReplaceDocument(ctx, "doc", []models.Chunk{
		testChunk("v0_0", "doc", 0, []float32{1, 0}),
		testChunk("v0_1", "doc", 1, []float32{0, 1}),
	})

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := 1; v <= 10; v++ {
			err := store.ReplaceDocument(ctx, "doc", []models.Chunk{
				testChunk(fmt.Sprintf("v%d_0", v), "doc", 0, []float32{1, 0}),
				testChunk(fmt.Sprintf("v%d_1", v), "doc", 1, []float32{0, 1}),
			})
			if err != nil {
				errs <- err
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				results, err := store.Search(ctx, []float32{1, 0}, 10)
				if err != nil {
					errs <- err
					return
				}
				// a reader sees either the old or the new document, never a mix of sizes
				if len(results) != 2 {
					errs <- fmt.Errorf("reader saw %d chunks, want 2", len(results))
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
