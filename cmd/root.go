package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes. A clean exit — including the stdio client hanging up — is 0;
// configuration and runtime failures are 1.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// rootCmd is the base command of the Checkmk MCP server.
var rootCmd = &cobra.Command{
	Use:   "checkmk-mcp-server",
	Short: "MCP server bridging AI clients to a Checkmk monitoring site",
	Long: `checkmk-mcp-server exposes a Checkmk installation to AI clients over the
Model Context Protocol: host and service management, status dashboards,
acknowledgments and downtimes, parameter-rule management, events, metrics,
and business intelligence, each backed by the Checkmk REST API.

Run 'checkmk-mcp-server serve' to start the stdio server; point your MCP
client's command at this binary.`,
	SilenceUsage: true,
}

// SetVersion injects the build version, typically via -ldflags from main.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI and exits the process with a semantic exit code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "checkmk-mcp-server version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
