package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/mcp"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query policy clauses.

By default the server communicates over stdio using JSON-RPC.
Use --port to serve the streamable HTTP transport instead.

Tools:
  answer_query     - Rank indexed clauses against a question
  extract_clauses  - Extract clauses from a policy document

Examples:
  # Stdio mode (default)
  clausefinder mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  clausefinder mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{API: policyAPI}
	if indexService != nil {
		ports.Index = indexService
	}

	server, err := mcp.NewServer(ports, version)
	if err != nil {
		return err
	}

	if port > 0 {
		logger.SetTimestamps(true)
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
