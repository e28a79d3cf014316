package main

import (
	"strings"

	"github.com/spf13/cobra"

	"transactions-compare/internal/bench"
)

func benchEntry() *cobra.Command {
	cfg := bench.DefaultConfig()
	backends := strings.Join(cfg.Backends, ",")
	format := bench.FormatTable

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load both listing endpoints with the same query shapes and compare latencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			cfg.Backends = strings.Split(backends, ",")
			reports, err := bench.NewRunner(cfg, l).Run(cmd.Context())
			if err != nil {
				return err
			}
			return bench.WriteReports(cmd.OutOrStdout(), reports, format)
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the running API")
	cmd.Flags().StringVar(&backends, "backends", backends, "Comma separated backends: mongodb,postgres")
	cmd.Flags().IntVarP(&cfg.Concurrency, "concurrency", "c", cfg.Concurrency, "Concurrent requests")
	cmd.Flags().IntVarP(&cfg.Requests, "requests", "n", cfg.Requests, "Requests per scenario and backend")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per request timeout")
	cmd.Flags().StringVarP(&format, "output", "o", format, "table or json")

	return cmd
}
