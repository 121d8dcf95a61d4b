// ABOUTME: ChunkStore persists embedded chunks and answers brute-force similarity queries
// ABOUTME: Replace-by-document writes run in one transaction under a single-writer lock
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/harper/omnirecall/internal/models"
)

// ChunkStore handles chunk persistence and vector search
type ChunkStore struct {
	db *DB
	mu sync.RWMutex
}

// NewChunkStore creates a ChunkStore over an open database
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// NewChunkStoreWithPath opens (or creates) the database file at path
func NewChunkStoreWithPath(path string) (*ChunkStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewChunkStore(db), nil
}

// NewChunkStoreInMemory creates a store backed by an in-memory database (for testing)
func NewChunkStoreInMemory() (*ChunkStore, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return NewChunkStore(db), nil
}

// Close closes the underlying database
func (s *ChunkStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *ChunkStore) Path() string {
	return s.db.Path()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const chunkColumns = `id, document_id, document_name, content, embedding, chunk_index, token_count, created_at`

// Upsert inserts a chunk or replaces the existing row with the same id
func (s *ChunkStore) Upsert(ctx context.Context, chunk models.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return dbErr("upsert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbErr("upsert", insertChunk(ctx, s.db.Conn(), chunk))
}

// UpsertBatch upserts chunks in a single transaction
func (s *ChunkStore) UpsertBatch(ctx context.Context, chunks []models.Chunk) error {
	for i := range chunks {
		if err := chunks[i].Validate(); err != nil {
			return dbErr("upsert batch", fmt.Errorf("chunk %d: %w", i, err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbErr("upsert batch", s.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range chunks {
			if err := insertChunk(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	}))
}

// ReplaceDocument removes every chunk of documentID and inserts chunks, atomically.
// An empty chunks slice just removes the document.
func (s *ChunkStore) ReplaceDocument(ctx context.Context, documentID string, chunks []models.Chunk) error {
	for i := range chunks {
		if err := chunks[i].Validate(); err != nil {
			return dbErr("replace document", fmt.Errorf("chunk %d: %w", i, err))
		}
		if chunks[i].DocumentID != documentID {
			return dbErr("replace document", fmt.Errorf("chunk %s belongs to document %s, not %s",
				chunks[i].ID, chunks[i].DocumentID, documentID))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbErr("replace document", s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
			return err
		}
		for _, c := range chunks {
			if err := insertChunk(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	}))
}

// RemoveByDocument deletes all chunks of a document and returns how many were removed.
// Removing an unknown document is not an error.
func (s *ChunkStore) RemoveByDocument(ctx context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return 0, dbErr("remove document", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, dbErr("remove document", err)
	}
	return int(n), nil
}

// Search scores every stored chunk against query and returns the topK best.
// Ties keep storage order.
func (s *ChunkStore) Search(ctx context.Context, query []float32, topK int) ([]models.SearchResult, error) {
	if topK <= 0 {
		return []models.SearchResult{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(ctx, "SELECT "+chunkColumns+" FROM chunks ORDER BY rowid")
	if err != nil {
		return nil, dbErr("search", err)
	}
	defer func() { _ = rows.Close() }()

	results := []models.SearchResult{}
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, dbErr("search", err)
		}

		results = append(results, models.SearchResult{
			Chunk: chunk,
			Score: CosineSimilarity(query, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("search", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Count returns the number of stored chunks
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, dbErr("count", err)
	}
	return count, nil
}

// DocumentExists reports whether any chunk belongs to documentID
func (s *ChunkStore) DocumentExists(ctx context.Context, documentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM chunks WHERE document_id = ?)", documentID).Scan(&exists)
	if err != nil {
		return false, dbErr("document exists", err)
	}
	return exists, nil
}

// GetDocumentChunks returns a document's chunks ordered by chunk index
func (s *ChunkStore) GetDocumentChunks(ctx context.Context, documentID string) ([]models.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE document_id = ? ORDER BY chunk_index ASC",
		documentID)
	if err != nil {
		return nil, dbErr("get document chunks", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []models.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, dbErr("get document chunks", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("get document chunks", err)
	}

	return chunks, nil
}

// ListDocuments summarizes every indexed document, ordered by name
func (s *ChunkStore) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(ctx, `
		SELECT document_id, MAX(document_name), COUNT(*), COALESCE(SUM(token_count), 0)
		FROM chunks
		GROUP BY document_id
		ORDER BY MAX(document_name) ASC, document_id ASC
	`)
	if err != nil {
		return nil, dbErr("list documents", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []models.DocumentSummary
	for rows.Next() {
		var d models.DocumentSummary
		if err := rows.Scan(&d.DocumentID, &d.DocumentName, &d.ChunkCount, &d.TokenCount); err != nil {
			return nil, dbErr("list documents", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("list documents", err)
	}

	return docs, nil
}

// Stats reports chunk and document counts plus the stored vector dimension
func (s *ChunkStore) Stats(ctx context.Context) (models.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.IndexStats
	err := s.db.QueryRow(ctx, "SELECT COUNT(*), COUNT(DISTINCT document_id) FROM chunks").
		Scan(&stats.ChunkCount, &stats.DocumentCount)
	if err != nil {
		return stats, dbErr("stats", err)
	}

	if stats.ChunkCount > 0 {
		var blobLen int
		err := s.db.QueryRow(ctx, "SELECT length(embedding) FROM chunks ORDER BY rowid LIMIT 1").Scan(&blobLen)
		if err != nil {
			return stats, dbErr("stats", err)
		}
		stats.Dimension = blobLen / 4
	}
	stats.Indexed = stats.ChunkCount > 0

	return stats, nil
}

// Clear deletes every chunk and returns how many were removed
func (s *ChunkStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(ctx, "DELETE FROM chunks")
	if err != nil {
		return 0, dbErr("clear", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, dbErr("clear", err)
	}
	return int(n), nil
}

// withTx runs fn inside a transaction, rolling back on error
func (s *ChunkStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func insertChunk(ctx context.Context, ex execer, c models.Chunk) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.DocumentID, c.DocumentName, c.Content, vectorToBlob(c.Embedding),
		c.ChunkIndex, c.TokenCount, createdAt)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChunk(row rowScanner) (models.Chunk, error) {
	var (
		c    models.Chunk
		blob []byte
	)

	err := row.Scan(&c.ID, &c.DocumentID, &c.DocumentName, &c.Content, &blob,
		&c.ChunkIndex, &c.TokenCount, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	c.Embedding = blobToVector(blob)

	return c, nil
}
