package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd prints the build version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("checkmk-mcp-server version %s\n", rootCmd.Version)
		},
	}
}
