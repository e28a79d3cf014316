package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Config controls the size and shape of a seed run.
type Config struct {
	Seed         uint64
	Companies    int
	Users        int
	Transactions int
	BatchSize    int
	Workers      int // concurrent transaction batch inserts
}

// DefaultConfig returns 100 companies, 500 users and 10000 transactions.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		Companies:    100,
		Users:        500,
		Transactions: 10_000,
		BatchSize:    1_000,
		Workers:      4,
	}
}

// Validate checks that the run produces a consistent dataset.
func (c Config) Validate() error {
	if c.Companies < 1 {
		return errors.New("companies must be at least 1")
	}
	if c.Users < 1 {
		return errors.New("users must be at least 1")
	}
	if c.Transactions < 0 {
		return errors.New("transactions must not be negative")
	}
	if c.BatchSize < 1 {
		return errors.New("batch size must be at least 1")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return nil
}

// Summary reports what a run inserted.
type Summary struct {
	Backend      string
	Companies    int
	Users        int
	Transactions int64
	Elapsed      time.Duration
}

// Runner seeds a Store from a Generator.
type Runner struct {
	cfg Config
	log *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run wipes store and fills it. Companies and users are inserted in one call
// each; transactions are generated sequentially and inserted in batches on a
// bounded worker pool. The first failing batch cancels the rest.
func (r *Runner) Run(ctx context.Context, store Store) (*Summary, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed config: %w", err)
	}

	start := time.Now()
	log := r.log.With(zap.String("backend", store.Backend()))
	gen := NewGenerator(r.cfg.Seed)

	log.Info("clearing existing data")
	if err := store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset %s: %w", store.Backend(), err)
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", store.Backend(), err)
	}

	companyIDs, err := store.InsertCompanies(ctx, gen.Companies(r.cfg.Companies))
	if err != nil {
		return nil, fmt.Errorf("failed to insert companies: %w", err)
	}
	log.Info("companies created", zap.Int("count", len(companyIDs)))

	userIDs, err := store.InsertUsers(ctx, gen.Users(r.cfg.Users, companyIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to insert users: %w", err)
	}
	log.Info("users created", zap.Int("count", len(userIDs)))

	inserted, err := r.insertTransactions(ctx, log, store, gen, userIDs)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Backend:      store.Backend(),
		Companies:    len(companyIDs),
		Users:        len(userIDs),
		Transactions: inserted,
		Elapsed:      time.Since(start),
	}
	log.Info("database seeded successfully",
		zap.Int("companies", summary.Companies),
		zap.Int("users", summary.Users),
		zap.Int64("transactions", summary.Transactions),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) insertTransactions(ctx context.Context, log *zap.Logger, store Store, gen *Generator, userIDs []string) (int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		inserted atomic.Int64
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	pool, err := ants.NewPool(r.cfg.Workers, ants.WithPanicHandler(func(v any) {
		fail(fmt.Errorf("transaction batch panicked: %v", v))
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	batches := (r.cfg.Transactions + r.cfg.BatchSize - 1) / r.cfg.BatchSize
	for b := 0; b < batches; b++ {
		if ctx.Err() != nil {
			break
		}

		offset := b * r.cfg.BatchSize
		size := min(r.cfg.BatchSize, r.cfg.Transactions-offset)
		txs := gen.Transactions(offset, size, userIDs)
		batch := b + 1

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := store.InsertTransactions(ctx, txs); err != nil {
				fail(fmt.Errorf("failed to insert transaction batch %d: %w", batch, err))
				return
			}
			inserted.Add(int64(len(txs)))
			log.Info("transaction batch created",
				zap.Int("batch", batch),
				zap.Int("batches", batches),
				zap.Int("count", len(txs)),
			)
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("failed to submit transaction batch %d: %w", batch, submitErr))
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return inserted.Load(), firstErr
	}
	if err := ctx.Err(); err != nil {
		return inserted.Load(), err
	}
	return inserted.Load(), nil
}
