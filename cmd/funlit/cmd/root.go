// Package cmd implements the funlit command tree.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-drift/funlit/cmd/funlit/internal/config"
	"github.com/go-drift/funlit/internal/logging"
)

// Version information (set at build time via ldflags).
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	projectDir string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "funlit",
	Short: "Reactive custom elements built from plain functions",
	Long: `funlit defines custom elements from init functions that bind reactive
fields and return a render routine. This tool runs the bundled examples,
replays scripted scenarios against them and scaffolds new components.`,
	SilenceUsage: true,
}

// Execute runs the command tree. Errors are printed before returning.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", ".", "Project directory containing funlit.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")
}

// settings loads funlit.yaml from --dir and builds the logger, which
// writes to the command's error stream.
func settings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOptional(projectDir)
	if err != nil {
		return nil, nil, err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		if level, err = logging.ParseLevel(logLevel); err != nil {
			return nil, nil, err
		}
	}
	return cfg, logging.NewWriter(cmd.ErrOrStderr(), level), nil
}
