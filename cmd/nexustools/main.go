// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nexustools CLI: the terminal
// shell, one-shot tool runs, run history, and the conversion backend.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/nexus-tools/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger  = zap.NewNop()
	verbose bool
	logFile string

	// apiToken is the bearer token loaded from the secrets directory.
	apiToken string
)

var rootCmd = &cobra.Command{
	Use:   "nexustools",
	Short: "PDF, document, image, and media conversion tools",
	Long: `nexustools is a terminal client for the Nexus conversion backend.

Pick a tool in the interactive shell (ui) or call one directly (run). Every
tool uploads its inputs to the backend, downloads the single result file,
and saves it under a fixed name. The backend itself is served by "serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if path := logPath(cmd); path != "" {
			config.OutputPaths = []string{path}
			config.ErrorOutputPaths = []string{path}
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}

		token, err := secrets.Token(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		apiToken = token
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// logPath picks where logs go. The shell owns the terminal, so its logs go
// to a file next to the history database unless --log-file says otherwise.
func logPath(cmd *cobra.Command) string {
	if logFile != "" {
		return logFile
	}
	if cmd.Name() != uiCmd.Name() {
		return ""
	}
	dir := viper.GetString("history_dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "nexustools.log")
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nexustools.yaml or ~/.config/nexustools/nexustools.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("env", "", "backend environment: production or development")
	rootCmd.PersistentFlags().String("base-url", "", "backend base URL (overrides --env)")
	rootCmd.PersistentFlags().String("output-dir", "", "directory results are saved to")

	viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("env"))
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
