package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for clausefinder.

Ask questions about your HR policies and browse the ranked clauses.

Controls:
  Enter    - Ask / Open clause
  ↑/k, ↓/j - Navigate results
  + / -    - More or fewer clauses
  n        - New question
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{API: policyAPI}
	if indexService != nil {
		ports.Index = indexService
	}

	topK := 0
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			topK = settings.TopK
		}
	}

	app, err := tui.NewApp(ports, topK)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// log lines would tear the alt screen
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
