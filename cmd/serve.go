package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"checkmkmcp/internal/app"
	"checkmkmcp/internal/config"
	"checkmkmcp/pkg/logging"
)

var (
	serveConfigPath string
	serveDebug      bool
)

// serveCmd starts the MCP stdio server. Stdout is reserved for the MCP
// wire protocol, so all logging goes to stderr.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdin/stdout",
	Long: `Starts the MCP server, speaking the Model Context Protocol on
stdin/stdout until the client disconnects or the process receives SIGINT or
SIGTERM.

Configuration is read from the YAML file given with --config (missing file
falls back to defaults), with the Checkmk secret overridable via the
CHECKMK_PASSWORD environment variable.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	application, err := app.New(cfg, rootCmd.Version)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config.yaml", "Path to the YAML configuration file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging on stderr")
}
