package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the policy API over HTTP.

Endpoints:
  GET  /health   - Liveness check
  POST /query    - {"query": "...", "k": 3} returns ranked clauses
  POST /extract  - {"text": "..."} returns extracted clauses

Use --watch to reload the index whenever another process rebuilds it in the
index directory, for example with 'clausefinder index build'.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, "listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the index when its artifacts change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if policyAPI == nil {
		return errAPINotConfigured
	}
	logger.SetTimestamps(true)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveWatch {
		if err := startWatcher(ctx); err != nil {
			return err
		}
	}

	server := httpapi.NewServer(policyAPI, serveAddr)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", server.Addr())
	return server.ListenAndServe(ctx)
}

func startWatcher(ctx context.Context) error {
	if indexService == nil {
		return errIndexNotConfigured
	}
	if indexService.Dir() == "" {
		return errors.New("--watch needs an index directory (settings set index.dir)")
	}

	if newWatcher == nil {
		return errWatcherNotConfigured
	}

	watcher, err := newWatcher(indexService.Dir(), indexService.Reload)
	if err != nil {
		return err
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Index watcher stopped: %v", err)
		}
	}()
	logger.Info("Watching %s for index changes", indexService.Dir())
	return nil
}
