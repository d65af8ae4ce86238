// Package cli provides the cobra command tree for clausefinder.
// Services are injected by main through SetServices before Execute runs.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var verbose bool

// IndexManager is the index surface the CLI drives.
type IndexManager interface {
	driving.IndexService

	// Dir is the directory index artifacts are persisted to.
	Dir() string

	// Reload reloads persisted artifacts, keeping the served index on failure.
	Reload(ctx context.Context)
}

// Services holds everything the commands call into.
type Services struct {
	API      driving.PolicyAPI
	Index    IndexManager
	Clauses  driven.ClauseStore
	Settings driving.SettingsService

	// Watch opens the watcher serve --watch uses. Nil disables the flag.
	Watch driven.WatcherFactory

	// Warnings are startup notices, such as a fallback to mock capabilities.
	Warnings []string
}

var (
	policyAPI       driving.PolicyAPI
	indexService    IndexManager
	clauseStore     driven.ClauseStore
	settingsService driving.SettingsService
	newWatcher      driven.WatcherFactory
	startupWarnings []string
)

var (
	errAPINotConfigured      = errors.New("policy API not configured")
	errIndexNotConfigured    = errors.New("index service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
	errWatcherNotConfigured  = errors.New("index watcher not configured")
)

var rootCmd = &cobra.Command{
	Use:   "clausefinder",
	Short: "Extract HR policy clauses and answer questions about them",
	Long: `clausefinder turns free-text HR policy documents into structured clauses,
indexes them as embeddings and answers natural-language questions with the
closest matching clauses.

Without an API key the whole pipeline runs offline on deterministic mock
extraction and mock embeddings.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		for _, w := range startupWarnings {
			logger.Warn("%s", w)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug and info logs")
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	policyAPI = s.API
	indexService = s.Index
	clauseStore = s.Clauses
	settingsService = s.Settings
	newWatcher = s.Watch
	startupWarnings = s.Warnings
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
