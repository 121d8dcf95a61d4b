// ABOUTME: SQLite schema for the chunk vector store
// ABOUTME: One chunks table with lookup indexes on document id and name
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Chunks table (document segments with embedding vectors)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    document_name TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    embedding BLOB NOT NULL,
    chunk_index INTEGER NOT NULL,
    token_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
CREATE INDEX IF NOT EXISTS idx_chunks_document_name ON chunks(document_name);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
