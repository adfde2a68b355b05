package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/probe"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 2 * time.Minute
)

func newRootCmd() *cobra.Command {
	cfg := &probe.Config{}
	var (
		logFile      string
		logFormat    string
		referenceUSD float64
	)

	cmd := &cobra.Command{
		Use:   "atlas-probe",
		Short: "Check a running atlas service for consistent scores",
		Long: `Fetches the sector cards, heatmap, risk index and view modes from a
running atlas service and checks them against the scoring rules:

  - every opportunity score is recomputed from the card's own aggregate
  - the heatmap is ordered by opportunity and carries the right heat labels
  - the risk index lists the most critical sector first
  - all four view modes are served

Examples:
  atlas-probe --url http://localhost:9080
  atlas-probe --year 2023 --log probe.log`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closer, err := probe.SetupLogging(logFile, logFormat)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
			defer cancel()

			sc := scoring.NewScorer(scoring.WithReferenceCapital(referenceUSD))
			stats, err := probe.Run(ctx, cfg, sc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d checks over %d sectors (%d with data) in %s\n",
				stats.Checks, stats.Sectors, stats.WithData, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVar(&cfg.Year, "year", 0, "reporting year (0 uses the service default)")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every request")
	f.StringVar(&logFile, "log", "", "also append logs to this file")
	f.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	f.Float64Var(&referenceUSD, "reference-usd", 5e8, "capital that maps to one point of capital normalization")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
