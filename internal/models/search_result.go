// ABOUTME: Search and index result models returned by the retrieval engine
// ABOUTME: SearchResult pairs a chunk with its cosine similarity score
package models

// SearchResult is a chunk ranked by cosine similarity to a query (higher is better)
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// IndexResult reports the outcome of indexing one document.
// A false Success with zero chunks is not fatal; callers may retry later.
type IndexResult struct {
	DocumentID    string `json:"document_id"`
	DocumentName  string `json:"document_name,omitempty"`
	ChunksCreated int    `json:"chunks_created"`
	ChunksSkipped int    `json:"chunks_skipped"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// IndexStats summarizes the vector store for diagnostics
type IndexStats struct {
	ChunkCount    int  `json:"chunk_count"`
	DocumentCount int  `json:"document_count"`
	Dimension     int  `json:"dimension"`
	Indexed       bool `json:"indexed"`
}

// DocumentSummary describes one indexed document
type DocumentSummary struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	ChunkCount   int    `json:"chunk_count"`
	TokenCount   int    `json:"token_count"`
}
