// ABOUTME: Standalone MCP server entry point with stdio transport
// ABOUTME: Same tools as 'recall mcp' without the CLI wrapper
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/config"
	"github.com/harper/omnirecall/internal/core"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/mcp"
	"github.com/harper/omnirecall/internal/storage/sqlite"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// stdout carries the MCP protocol, so logs go to stderr
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "recall-server"})

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load(os.Getenv("RECALL_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	provider, err := embedding.New(cfg.EmbeddingConfig(), logger)
	if err != nil {
		logger.Fatal("failed to initialize embedding provider", "err", err)
	}

	store, err := sqlite.NewChunkStoreWithPath(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize storage", "err", err)
	}

	engine, err := core.NewEngine(core.EngineOptions{
		Store:      store,
		Provider:   provider,
		Indexer:    cfg.IndexerConfig(),
		Context:    cfg.ContextOptions(),
		SearchTopK: cfg.SearchTopK,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to create engine", "err", err)
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio", "db", cfg.DBPath, "provider", cfg.Provider)
	if err := mcp.Serve(ctx, mcp.NewServer(engine, version, logger), logger); err != nil {
		logger.Error("server stopped", "err", err)
	}
}
