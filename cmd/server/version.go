package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/promptlab/promptlab/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "promptlab %s\n", buildinfo.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Go: %s\n", runtime.Version())
	},
}
