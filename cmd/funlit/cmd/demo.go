package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/funlit/cmd/funlit/internal/scenario"
)

var demoCmd = &cobra.Command{
	Use:   "demo [" + strings.Join(scenario.Demos(), "|") + "]",
	Short: "Run a bundled example in a headless document",
	Long: `Mounts a bundled example, drives a scripted interaction and prints every
render and lifecycle event. Without an argument every example runs.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: scenario.Demos(),
	RunE:      runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	// Demo expectations assume the default runtime settings, so only the
	// logging configuration applies.
	_, logger, err := settings(cmd)
	if err != nil {
		return err
	}

	names := scenario.Demos()
	if len(args) == 1 {
		names = args
	}

	runner := scenario.NewRunner(scenario.Options{
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	})
	for i, name := range names {
		sc, err := scenario.Demo(name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := runner.Run(sc); err != nil {
			return err
		}
	}
	return nil
}
