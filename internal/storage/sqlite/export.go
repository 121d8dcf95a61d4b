// ABOUTME: Export functionality for the chunk index
// ABOUTME: Supports YAML, JSON and Markdown export formats
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable index
type ExportData struct {
	Version    string           `yaml:"version" json:"version"`
	ExportedAt string           `yaml:"exported_at" json:"exported_at"`
	Tool       string           `yaml:"tool" json:"tool"`
	Dimension  int              `yaml:"dimension" json:"dimension"`
	Documents  []ExportDocument `yaml:"documents" json:"documents"`
}

// ExportDocument represents one indexed document for export
type ExportDocument struct {
	DocumentID   string        `yaml:"document_id" json:"document_id"`
	DocumentName string        `yaml:"document_name" json:"document_name"`
	Chunks       []ExportChunk `yaml:"chunks" json:"chunks"`
}

// ExportChunk represents a chunk for export; Embedding is only set when vectors are requested
type ExportChunk struct {
	ChunkID    string    `yaml:"chunk_id" json:"chunk_id"`
	ChunkIndex int       `yaml:"chunk_index" json:"chunk_index"`
	TokenCount int       `yaml:"token_count" json:"token_count"`
	Content    string    `yaml:"content" json:"content"`
	Embedding  []float32 `yaml:"embedding,omitempty,flow" json:"embedding,omitempty"`
	CreatedAt  string    `yaml:"created_at" json:"created_at"`
}

// Export collects every document and its chunks in index order
func (s *ChunkStore) Export(ctx context.Context, withVectors bool) (*ExportData, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "omnirecall",
		Dimension:  stats.Dimension,
		Documents:  []ExportDocument{},
	}

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		chunks, err := s.GetDocumentChunks(ctx, doc.DocumentID)
		if err != nil {
			return nil, err
		}

		exportDoc := ExportDocument{
			DocumentID:   doc.DocumentID,
			DocumentName: doc.DocumentName,
			Chunks:       make([]ExportChunk, 0, len(chunks)),
		}

		for _, c := range chunks {
			ec := ExportChunk{
				ChunkID:    c.ID,
				ChunkIndex: c.ChunkIndex,
				TokenCount: c.TokenCount,
				Content:    c.Content,
				CreatedAt:  c.CreatedAt.Format(time.RFC3339),
			}
			if withVectors {
				ec.Embedding = c.Embedding
			}
			exportDoc.Chunks = append(exportDoc.Chunks, ec)
		}

		data.Documents = append(data.Documents, exportDoc)
	}

	return data, nil
}

// ExportToYAML exports the index to a YAML file
func (s *ChunkStore) ExportToYAML(ctx context.Context, outputPath string, withVectors bool) error {
	data, err := s.Export(ctx, withVectors)
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// ExportToJSON exports the index to a JSON file
func (s *ChunkStore) ExportToJSON(ctx context.Context, outputPath string, withVectors bool) error {
	data, err := s.Export(ctx, withVectors)
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportToMarkdown exports the index as a readable Markdown file (vectors omitted)
func (s *ChunkStore) ExportToMarkdown(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx, false)
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# Index Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Documents) == 0 {
		_, _ = fmt.Fprintln(file, "_No documents indexed._")
		return nil
	}

	_, _ = fmt.Fprintln(file, "## Documents")
	_, _ = fmt.Fprintln(file)
	_, _ = fmt.Fprintln(file, "| Name | ID | Chunks |")
	_, _ = fmt.Fprintln(file, "|------|----|--------|")
	for _, doc := range data.Documents {
		_, _ = fmt.Fprintf(file, "| %s | %s | %d |\n", doc.DocumentName, doc.DocumentID, len(doc.Chunks))
	}
	_, _ = fmt.Fprintln(file)

	for _, doc := range data.Documents {
		_, _ = fmt.Fprintf(file, "## %s\n\n", doc.DocumentName)
		for _, c := range doc.Chunks {
			_, _ = fmt.Fprintf(file, "### Chunk %d (%d tokens)\n\n", c.ChunkIndex, c.TokenCount)
			_, _ = fmt.Fprintf(file, "%s\n\n", c.Content)
		}
		_, _ = fmt.Fprintln(file, "---")
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

func createOutput(outputPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
