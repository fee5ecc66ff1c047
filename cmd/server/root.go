package main

import (
	"github.com/spf13/cobra"

	"github.com/promptlab/promptlab/internal/buildinfo"
	"github.com/promptlab/promptlab/internal/config"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "promptlab",
	Short: "Prompt and collection management service",
	Long: `PromptLab stores prompt templates and the collections that group them.

Running promptlab without a subcommand is the same as "promptlab serve".`,
	Version:      buildinfo.Version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (YAML); environment PROMPTLAB_* overrides it",
	)
	rootCmd.PersistentFlags().Int("port", 8000, "HTTP listen port")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	// Flags only override config when set explicitly.
	_ = v.BindPFlag(config.KeyServerPort, rootCmd.PersistentFlags().Lookup("port"))
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, versionCmd)
}
