package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/go-drift/funlit/cmd/funlit/internal/config"
	"github.com/go-drift/funlit/cmd/funlit/internal/scenario"
	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/metrics"
)

var (
	runMetrics bool
	runWatch   bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Replay a scenario script against the bundled components",
	Long: `Runs the steps of a scenario file in a headless document and prints every
render and lifecycle event. Failed expect steps make the command exit with a
non-zero status.

With --watch the scenario is re-run whenever the file changes, until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runMetrics, "metrics", false, "Print update and render metrics after the run")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run the scenario whenever the file changes")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := settings(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	if !runWatch {
		return runScenarioFile(cmd.OutOrStdout(), path, cfg, logger)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	rerun := func() {
		if err := runScenarioFile(cmd.OutOrStdout(), path, cfg, logger); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "-- watching %s (Ctrl+C to stop)\n", path)
	}
	rerun()
	return scenario.Watch(ctx, path, logger, rerun)
}

func runScenarioFile(out io.Writer, path string, cfg *config.Config, logger *slog.Logger) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	opts := scenario.Options{
		Out:                 out,
		Logger:              logger,
		SkipDetachedRenders: cfg.Runtime.SkipDetachedRenders,
	}
	var reg *prometheus.Registry
	if runMetrics {
		collector := metrics.NewCollector()
		reg = prometheus.NewRegistry()
		if err := reg.Register(collector); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		opts.Hooks = []core.Hooks{collector.Hooks()}
	}

	runErr := scenario.NewRunner(opts).Run(sc)
	if reg != nil {
		if err := printMetrics(out, reg); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// printMetrics writes one line per sample in the Prometheus text style.
// Histograms print their sample count and sum.
func printMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(out, "-- metrics")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), labels, m.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Fprintf(out, "%s_count%s %d\n", mf.GetName(), labels, h.GetSampleCount())
				fmt.Fprintf(out, "%s_sum%s %g\n", mf.GetName(), labels, h.GetSampleSum())
			}
		}
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
