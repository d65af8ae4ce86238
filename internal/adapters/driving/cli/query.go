package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

var (
	queryK    int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about indexed policy clauses",
	Long: `Embeds the question and returns the closest indexed clauses,
most similar first. Build an index first with 'clausefinder index build'.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryK, "top-k", "k", 0, "number of clauses to return (0 = configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if policyAPI == nil {
		return errAPINotConfigured
	}

	req := driving.QueryRequest{Query: args[0]}
	if cmd.Flags().Changed("top-k") {
		k := queryK
		req.K = &k
	}

	resp, err := policyAPI.AnswerQuery(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, resp)
	}
	outputQueryTable(cmd, resp)
	return nil
}

func outputQueryJSON(cmd *cobra.Command, resp driving.QueryResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, resp driving.QueryResponse) {
	if resp.ResultCount == 0 {
		cmd.Println("No matching clauses. Is the index built?")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range resp.Results {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, r.Metadata.Title, r.Score)
		if r.Metadata.Summary != "" {
			cmd.Printf("      %s\n", r.Metadata.Summary)
		}
		if len(r.Metadata.Keywords) > 0 {
			cmd.Printf("      Keywords: %s\n", strings.Join(r.Metadata.Keywords, ", "))
		}
		if r.Metadata.Contact != "" {
			cmd.Printf("      Contact: %s\n", r.Metadata.Contact)
		}
		cmd.Println()
	}
}
