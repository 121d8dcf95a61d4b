// ABOUTME: MCP tool handler implementations for the recall server
// ABOUTME: Failures are returned as tool errors so the transport stays healthy
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/core"
	"github.com/harper/omnirecall/internal/extract"
	"github.com/harper/omnirecall/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine *core.Engine
	logger *log.Logger
}

// NewHandlers creates handlers bound to an engine
func NewHandlers(engine *core.Engine, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{engine: engine, logger: logger.WithPrefix("mcp")}
}

// IndexDocument handles the index_document tool
func (h *Handlers) IndexDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	text := request.GetString("text", "")
	documentID := request.GetString("document_id", "")
	documentName := request.GetString("document_name", "")

	if path == "" && text == "" {
		return mcp.NewToolResultError("either path or text is required"), nil
	}

	var result models.IndexResult
	if path != "" {
		if documentID == "" {
			documentID = extract.DocumentID(path)
		}
		if documentName == "" {
			documentName = filepath.Base(path)
		}
		res, err := h.engine.IndexFileAs(ctx, path, documentID, documentName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
		}
		result = res
	} else {
		if documentID == "" {
			return mcp.NewToolResultError("document_id is required when indexing text"), nil
		}
		if documentName == "" {
			documentName = documentID
		}
		result = h.engine.IndexText(ctx, documentID, documentName, text)
	}

	return indexResult(result)
}

// indexResult reports the IndexResult either way; unsuccessful runs are flagged as tool errors
func indexResult(res models.IndexResult) (*mcp.CallToolResult, error) {
	out, err := jsonResult(res)
	if err != nil || out.IsError {
		return out, err
	}
	out.IsError = !res.Success
	return out, nil
}

// SemanticSearch handles the semantic_search tool
func (h *Handlers) SemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 0)
	minScore := request.GetFloat("min_score", 0)

	results, err := h.engine.Search(ctx, query, topK, minScore)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	hits := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		hits = append(hits, map[string]interface{}{
			"chunk_id":      r.Chunk.ID,
			"document_id":   r.Chunk.DocumentID,
			"document_name": r.Chunk.DocumentName,
			"chunk_index":   r.Chunk.ChunkIndex,
			"content":       r.Chunk.Content,
			"score":         r.Score,
		})
	}

	return jsonResult(map[string]interface{}{
		"query":   query,
		"results": hits,
	})
}

// GetRelevantContext handles the get_relevant_context tool
func (h *Handlers) GetRelevantContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	opts := core.ContextOptions{
		MaxTokens: request.GetInt("max_tokens", 0),
		SearchK:   request.GetInt("search_k", 0),
	}

	text, err := h.engine.RetrieveContext(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context retrieval failed: %v", err)), nil
	}
	if text == "" {
		return mcp.NewToolResultText("No relevant document context found."), nil
	}

	return mcp.NewToolResultText(text), nil
}

// RemoveDocument handles the remove_document tool
func (h *Handlers) RemoveDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id argument is required and must be a string"), nil
	}

	removed, err := h.engine.RemoveDocument(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove document: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"document_id":    documentID,
		"chunks_removed": removed,
	})
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.engine.ListDocuments(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"documents": docs,
	})
}

// ClearIndex handles the clear_index tool
func (h *Handlers) ClearIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	removed, err := h.engine.ClearIndex(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear index: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success":        true,
		"chunks_removed": removed,
	})
}

// GetIndexStats handles the get_index_stats tool
func (h *Handlers) GetIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.engine.IndexStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	return jsonResult(stats)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
