package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

var indexClausesPath string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and inspect the clause index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index from extracted clauses",
	Long: `Embeds clauses and builds the vector index with the configured backend.

By default every batch saved by 'clausefinder extract' is indexed, oldest
first. Use --clauses to build from one explicit JSON file instead, either a
saved batch or a bare array of clauses.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the served index",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

func init() {
	indexBuildCmd.Flags().StringVar(&indexClausesPath, "clauses", "", "clause file to index (default: every saved extraction)")
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}
	if clauseStore == nil {
		return errors.New("clause store not configured")
	}

	var (
		clauses []domain.Clause
		err     error
	)
	if indexClausesPath != "" {
		var batch domain.ClauseBatch
		batch, err = clauseStore.Load(cmd.Context(), indexClausesPath)
		clauses = batch.Clauses
	} else {
		clauses, err = savedCorpus(cmd.Context())
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("no extracted clauses found; run 'clausefinder extract' or pass --clauses")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to read clauses: %w", err)
	}

	stats, err := indexService.Rebuild(cmd.Context(), clauses)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	printStats(cmd, stats)
	return nil
}

// savedCorpus returns the clauses of every saved batch in save order.
func savedCorpus(ctx context.Context) ([]domain.Clause, error) {
	batches, err := clauseStore.All(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Indexing %d saved clause batches", len(batches))
	return domain.MergeBatches(batches), nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	stats, err := indexService.Stats()
	if errors.Is(err, domain.ErrIndexNotBuilt) {
		cmd.Println("No index built. Run 'clausefinder index build'.")
		return nil
	}
	if err != nil {
		return err
	}
	printStats(cmd, stats)
	return nil
}

func printStats(cmd *cobra.Command, stats domain.IndexStats) {
	cmd.Println("[Index]")
	cmd.Printf("  Backend: %s\n", stats.Backend)
	cmd.Printf("  Clauses: %d\n", stats.Count)
	cmd.Printf("  Dimensions: %d\n", stats.Dimensions)
	if indexService != nil && indexService.Dir() != "" {
		cmd.Printf("  Directory: %s\n", indexService.Dir())
	}
}
