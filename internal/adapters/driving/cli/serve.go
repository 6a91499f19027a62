package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/askontube/internal/core/domain"
)

var (
	serveAddr    string
	serveOrigins []string
	serveMCP     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API used by the askontube web client.

The caller's user id is read from the X-User-ID header, which an
authenticating proxy in front of the server is expected to set.

Examples:
  askontube serve
  askontube serve --addr :9000 --origin https://askontube.example.com`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :8080)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve the MCP endpoint at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	cfg, err := serverConfig()
	if err != nil {
		return err
	}

	if serveMCP {
		mcpServer, err := newMCPServer()
		if err != nil {
			return err
		}
		cfg.MCP = mcpServer.Handler()
	}

	server, err := httpapi.NewServer(cfg, httpapi.Services{
		Ingest:   ingestService,
		Answer:   answerService,
		Library:  libraryService,
		Feedback: feedbackService,
	})
	if err != nil {
		return err
	}

	if ingestService == nil {
		cmd.Println(warningStyle.Render("Ingestion is not configured; POST /api/videos will return 503."))
	}
	cmd.Printf("REST API listening on %s\n", cfg.Addr)
	if cfg.MCP != nil {
		cmd.Printf("MCP endpoint at %s/mcp\n", cfg.Addr)
	}
	return server.Run(cmd.Context())
}

// serverConfig merges flags over the stored server settings.
func serverConfig() (httpapi.Config, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return httpapi.Config{}, fmt.Errorf("failed to get settings: %w", err)
	}

	cfg := httpapi.Config{
		Addr:           settings.Server.Addr,
		AllowedOrigins: settings.Server.AllowedOrigins,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if len(serveOrigins) > 0 {
		cfg.AllowedOrigins = serveOrigins
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}
	return cfg, nil
}
