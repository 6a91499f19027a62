package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server so AI assistants can ingest videos,
ask questions and read transcripts from your library.

Tools: ingest_video, ask, list_videos
Resource: askontube://videos/{videoId}/transcript

The server speaks JSON-RPC over stdio unless --addr is given, in which case
it serves the streamable HTTP transport. 'askontube serve --mcp' mounts the
same endpoint next to the REST API.

Examples:
  askontube mcp serve
  askontube mcp serve --addr :8090

Desktop assistant configuration:
  {"mcpServers": {"askontube": {"command": "/path/to/askontube", "args": ["mcp", "serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "serve HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Ingest:  ingestService,
		Answer:  answerService,
		Library: libraryService,
	})
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}
	if mcpAddr != "" {
		cmd.PrintErrf("MCP server listening on %s\n", mcpAddr)
		return server.RunHTTP(cmd.Context(), mcpAddr)
	}
	return server.Run(cmd.Context())
}
