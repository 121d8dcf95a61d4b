// ABOUTME: Builds the logger, configuration and engine shared by CLI commands
// ABOUTME: providerFactory is swapped in tests to avoid network embedding calls
package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/config"
	"github.com/harper/omnirecall/internal/core"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/storage/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var providerFactory = embedding.New

// newLogger returns a stderr logger honoring --verbose and --quiet
func newLogger(w io.Writer) *log.Logger {
	level := log.WarnLevel
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "recall",
	})
}

// loadConfig reads .env, the --config file and the environment, then applies --db
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openEngine opens the store and, when withProvider is set, the embedding provider.
// The caller must Close the returned engine.
func openEngine(cmd *cobra.Command, withProvider bool) (*core.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cmd.ErrOrStderr())

	var provider embedding.Provider
	if withProvider {
		provider, err = providerFactory(cfg.EmbeddingConfig(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing embedding provider: %w", err)
		}
	}

	store, err := sqlite.NewChunkStoreWithPath(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
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
		_ = store.Close()
		return nil, nil, err
	}

	logger.Debug("engine ready", "db", cfg.DBPath, "provider", cfg.Provider)
	return engine, cfg, nil
}

// useJSON reports whether output should be JSON
func useJSON() bool {
	return outputFormat == "json"
}
