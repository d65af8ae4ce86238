package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
	"github.com/custodia-labs/clausefinder/internal/logger"
	"github.com/custodia-labs/clausefinder/internal/normalisers"
)

var (
	extractJSON  bool
	extractIndex bool
)

// documents converts input files to plain text by extension.
var documents = normalisers.Default()

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract policy clauses from a document",
	Long: `Reads a free-text HR policy document from a file, or from stdin when the
argument is "-", and extracts structured clauses from it.

Markdown (.md), HTML (.html, .htm) and Word (.docx) files are converted to
plain text first; anything else is read as plain text.

Extracted clauses are saved as a batch under the index directory so that
'clausefinder index build' can pick them up. Use --index to rebuild the
index over every saved batch, including this one, straight away.

Without an LLM provider, or when the provider fails, a deterministic mock
extractor is used and the output is flagged as mock mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the response as JSON")
	extractCmd.Flags().BoolVar(&extractIndex, "index", false, "rebuild the index over all saved clauses")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if policyAPI == nil {
		return errAPINotConfigured
	}

	doc, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	logger.Info("Read %q as %s (%d bytes of text)", doc.Title, doc.Format, len(doc.Text))

	resp, err := policyAPI.ExtractClauses(cmd.Context(), driving.ExtractRequest{Text: doc.Text})
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printClauses(cmd, resp.Clauses, resp.MockMode)
	}

	if !extractIndex {
		return nil
	}
	if indexService == nil {
		return errIndexNotConfigured
	}
	// The extraction was saved as a batch; rebuild over the whole corpus.
	clauses := resp.Clauses
	if clauseStore != nil {
		corpus, err := savedCorpus(cmd.Context())
		switch {
		case err == nil:
			clauses = corpus
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("failed to read clauses: %w", err)
		}
	}
	stats, err := indexService.Rebuild(cmd.Context(), clauses)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	printStats(cmd, stats)
	return nil
}

func readDocument(cmd *cobra.Command, arg string) (domain.PolicyDocument, error) {
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return domain.PolicyDocument{}, fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := documents.Normalise(arg, data)
	if err != nil {
		return domain.PolicyDocument{}, fmt.Errorf("failed to read document: %w", err)
	}
	if doc.IsEmpty() {
		return domain.PolicyDocument{}, fmt.Errorf("document %s is empty", arg)
	}
	return doc, nil
}

func printClauses(cmd *cobra.Command, clauses []domain.Clause, mockMode bool) {
	if mockMode {
		cmd.Println("Mock mode: clauses produced by the offline extractor.")
		cmd.Println()
	}
	if len(clauses) == 0 {
		cmd.Println("No clauses extracted.")
		return
	}

	cmd.Printf("Extracted %d clause(s):\n\n", len(clauses))
	for _, c := range clauses {
		cmd.Printf("  [%d] %s\n", c.ID, c.Title)
		cmd.Printf("      %s\n", c.Summary)
		if len(c.Keywords) > 0 {
			cmd.Printf("      Keywords: %s\n", strings.Join(c.Keywords, ", "))
		}
		cmd.Printf("      Contact: %s\n", c.Contact)
		cmd.Println()
	}
}
