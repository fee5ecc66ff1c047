package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/promptlab/promptlab/internal/buildinfo"
	"github.com/promptlab/promptlab/internal/config"
	"github.com/promptlab/promptlab/internal/logging"
	"github.com/promptlab/promptlab/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PromptLab server",
	Long: `Start the PromptLab HTTP server.

The server provides:
  - /health       - liveness and version
  - /prompts      - prompt CRUD, search and template variables
  - /collections  - collection CRUD with cascading delete
  - /ws           - change events over WebSocket
  - /mcp          - MCP endpoint for assistants (mcp.enabled)

Examples:
  promptlab serve                     # Start on port 8000
  promptlab serve --port 3000         # Start on custom port
  promptlab serve --config prod.yaml  # Load settings from a file`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger, closer := logging.New(cfg.Log)
	defer closer.Close()
	slog.SetDefault(logger)

	app, err := wire.Build(ctx, cfg, buildinfo.Version)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		return err
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		return err
	}

	slog.Info("promptlab server stopped")
	return nil
}
