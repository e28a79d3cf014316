package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/scylladb/termtables"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transactions-compare/cmd/api/infrastructure"
	mongorepo "transactions-compare/internal/adapter/db/mongo"
	"transactions-compare/internal/adapter/db/postgres"
	"transactions-compare/internal/config"
	"transactions-compare/internal/seed"
)

const (
	targetMongo    = "mongo"
	targetPostgres = "postgres"
	targetAll      = "all"
)

func seedEntry() *cobra.Command {
	cfg := seed.DefaultConfig()

	cmd := &cobra.Command{
		Use:       "seed [mongo|postgres|all]",
		Short:     "Wipe and fill the stores with the same generated dataset",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{targetMongo, targetPostgres, targetAll},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetAll
			if len(args) == 1 {
				target = args[0]
			}
			return runSeed(cmd.Context(), cmd.OutOrStdout(), target, cfg)
		},
	}

	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed; equal seeds give equal datasets")
	cmd.Flags().IntVar(&cfg.Companies, "companies", cfg.Companies, "Number of companies")
	cmd.Flags().IntVar(&cfg.Users, "users", cfg.Users, "Number of users")
	cmd.Flags().IntVar(&cfg.Transactions, "transactions", cfg.Transactions, "Number of transactions")
	cmd.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Transactions per insert")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent insert batches")

	return cmd
}

func runSeed(ctx context.Context, w io.Writer, target string, seedCfg seed.Config) error {
	if target != targetMongo && target != targetPostgres && target != targetAll {
		return fmt.Errorf("unknown target %q, want mongo, postgres or all", target)
	}
	l, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var stores []seed.Store

	if target == targetMongo || target == targetAll {
		client, err := infrastructure.NewMongoClient(ctx, cfg, l)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = infrastructure.CloseMongo(closeCtx, client)
		}()
		stores = append(stores, mongorepo.NewSeeder(client.Database(cfg.Mongo.Database), l))
	}

	if target == targetPostgres || target == targetAll {
		db, err := infrastructure.NewDatabase(ctx, cfg, l)
		if err != nil {
			return err
		}
		defer func() { _ = infrastructure.CloseDatabase(db) }()
		stores = append(stores, postgres.NewSeeder(db, l))
	}

	return seedStores(ctx, w, seed.NewRunner(seedCfg, l), l, stores)
}

// seedStores fills each store in turn and writes a summary table to w.
func seedStores(ctx context.Context, w io.Writer, runner *seed.Runner, l *zap.Logger, stores []seed.Store) error {
	view := termtables.CreateTable()
	view.AddHeaders("Backend", "Companies", "Users", "Transactions", "Elapsed")

	for _, store := range stores {
		summary, err := runner.Run(ctx, store)
		if err != nil {
			l.Error("seeding failed", zap.String("backend", store.Backend()), zap.Error(err))
			return err
		}
		view.AddRow(summary.Backend, summary.Companies, summary.Users, summary.Transactions, summary.Elapsed.Round(time.Millisecond).String())
	}

	_, err := fmt.Fprintln(w, view.Render())
	return err
}
