// Command clausefinder extracts HR policy clauses and answers questions about them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/clausefinder/internal/adapters/driven/ai"
	"github.com/custodia-labs/clausefinder/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clausefinder/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/clausefinder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clausefinder/internal/adapters/driven/vector"
	"github.com/custodia-labs/clausefinder/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/clausefinder/internal/adapters/driven/vector/jsonstore"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/cli"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/services"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// version is set at build time.
var version string

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	// Startup logs happen before cobra parses flags.
	if slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose") {
		logger.SetVerbose(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	var warnings []string

	var configStore driven.ConfigStore
	if store, err := file.NewConfigStore(configDir); err != nil {
		warnings = append(warnings, fmt.Sprintf("config unavailable, settings will not persist: %v", err))
		configStore = memory.NewConfigStore()
	} else {
		configStore = store
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	capabilities := ai.Init(ctx, *settings)
	defer capabilities.Close()
	warnings = append(warnings, capabilities.Warnings...)

	var builder driven.IndexBuilder = flat.Builder{}
	if settings.Index.Backend == domain.IndexBackendJSON {
		builder = jsonstore.Builder{}
	}

	indexDir := settings.Index.Dir
	if indexDir == "" {
		indexDir = filepath.Join(configDir, "index")
	}

	handle := services.NewIndexHandle()
	indexService := services.NewIndexService(builder, capabilities.EmbeddingService, handle, indexDir)
	if _, err := indexService.LoadPersisted(ctx); err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			warnings = append(warnings, fmt.Sprintf("persisted index ignored: %v", err))
		} else {
			logger.Debug("No persisted index: %v", err)
		}
	}

	clauses := jsonfile.NewClauseStore(filepath.Join(indexDir, jsonfile.DirName))

	retrieval := services.NewRetrievalService(capabilities.EmbeddingService, handle)
	extraction := services.NewExtractionService(
		capabilities.LLMService,
		prompts,
		services.ExtractionConfigFromSettings(settings),
	)
	extraction.SetClauseStore(clauses)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		API:      services.NewPolicyAPI(retrieval, extraction, settings.TopK),
		Index:    indexService,
		Clauses:  clauses,
		Settings: settingsService,
		Watch:    watchIndex,
		Warnings: warnings,
	})

	return cli.Execute(ctx)
}

func watchIndex(dir string, reload func(context.Context)) (driven.IndexWatcher, error) {
	return vector.NewWatcher(dir, vector.DefaultDebounce, reload)
}
