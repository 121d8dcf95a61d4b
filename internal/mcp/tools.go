// ABOUTME: MCP tool definitions and registration for the recall server
// ABOUTME: Declares JSON schemas for the indexing, retrieval and admin tools
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, engine *core.Engine, logger *log.Logger) *Handlers {
	handlers := NewHandlers(engine, logger)

	// 1. index_document - extract, chunk and embed a file or raw text
	server.AddTool(mcp.Tool{
		Name:        "index_document",
		Description: "Index a document for semantic search. Pass a file path, or raw text with a document_id. Re-indexing the same document replaces its chunks.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path of a file to index (txt, md, pdf, html, code)",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw text to index instead of a file",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Document ID (required with text; defaults to a stable id derived from path)",
				},
				"document_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name (defaults to the file name)",
				},
			},
		},
	}, handlers.IndexDocument)

	// 2. semantic_search - ranked chunks for a query
	server.AddTool(mcp.Tool{
		Name:        "semantic_search",
		Description: "Find the document chunks most similar to a query, ranked by cosine similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     core.DefaultSearchTopK,
				},
				"min_score": map[string]interface{}{
					"type":        "number",
					"description": "Drop results scoring below this similarity (default: 0)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SemanticSearch)

	// 3. get_relevant_context - token-budgeted grounding text
	server.AddTool(mcp.Tool{
		Name:        "get_relevant_context",
		Description: "Build a token-budgeted block of relevant document excerpts for grounding an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Question or topic to gather context for",
				},
				"max_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Token budget for the assembled context (default: 4000)",
					"default":     core.DefaultContextMaxTokens,
				},
				"search_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of candidate chunks to consider (default: 10)",
					"default":     core.DefaultContextSearchK,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.GetRelevantContext)

	// 4. remove_document
	server.AddTool(mcp.Tool{
		Name:        "remove_document",
		Description: "Remove every chunk of a document from the index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Document ID to remove",
				},
			},
			Required: []string{"document_id"},
		},
	}, handlers.RemoveDocument)

	// 5. list_documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List indexed documents with chunk and token counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	// 6. clear_index
	server.AddTool(mcp.Tool{
		Name:        "clear_index",
		Description: "Delete all indexed chunks.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ClearIndex)

	// 7. get_index_stats
	server.AddTool(mcp.Tool{
		Name:        "get_index_stats",
		Description: "Report chunk count, document count and embedding dimension of the index.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetIndexStats)

	return handlers
}
