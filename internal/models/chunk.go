// ABOUTME: Chunk represents a retrievable span of a document with its embedding
// ABOUTME: ChunkDraft is the chunker output before an embedding is attached
package models

import (
	"errors"
	"time"
)

// Chunk is a persisted document segment with its embedding vector
type Chunk struct {
	ID           string    `json:"id" yaml:"id"`
	DocumentID   string    `json:"document_id" yaml:"document_id"`
	DocumentName string    `json:"document_name" yaml:"document_name"`
	Content      string    `json:"content" yaml:"content"`
	Embedding    []float32 `json:"embedding,omitempty" yaml:"embedding,omitempty"`
	ChunkIndex   int       `json:"chunk_index" yaml:"chunk_index"`
	TokenCount   int       `json:"token_count" yaml:"token_count"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Validate checks the fields the vector store depends on
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk id cannot be empty")
	}
	if c.DocumentID == "" {
		return errors.New("document id cannot be empty")
	}
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}
	if len(c.Embedding) == 0 {
		return errors.New("chunk embedding cannot be empty")
	}
	if c.ChunkIndex < 0 {
		return errors.New("chunk index cannot be negative")
	}
	return nil
}

// Dimension returns the embedding length
func (c *Chunk) Dimension() int {
	return len(c.Embedding)
}

// ChunkDraft is a chunk produced by the chunker, not yet embedded
type ChunkDraft struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
}

// ToChunk attaches document identity, position and embedding to a draft
func (d ChunkDraft) ToChunk(documentID, documentName string, index int, embedding []float32) Chunk {
	return Chunk{
		ID:           d.ID,
		DocumentID:   documentID,
		DocumentName: documentName,
		Content:      d.Text,
		Embedding:    embedding,
		ChunkIndex:   index,
		TokenCount:   d.TokenCount,
		CreatedAt:    time.Now(),
	}
}
