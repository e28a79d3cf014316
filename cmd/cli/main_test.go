package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transactions-compare/internal/adapter/db/postgres"
	"transactions-compare/internal/seed"
)

func TestSeedEntry_Flags(t *testing.T) {
	cmd := seedEntry()
	require.NoError(t, cmd.ParseFlags([]string{"--seed", "7", "--transactions", "250", "--workers", "2"}))

	seedFlag, err := cmd.Flags().GetUint64("seed")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), seedFlag)

	txs, err := cmd.Flags().GetInt("transactions")
	require.NoError(t, err)
	assert.Equal(t, 250, txs)

	batch, err := cmd.Flags().GetInt("batch-size")
	require.NoError(t, err)
	assert.Equal(t, seed.DefaultConfig().BatchSize, batch)
}

func TestRunSeed_UnknownTarget(t *testing.T) {
	err := runSeed(context.Background(), io.Discard, "mysql", seed.DefaultConfig())
	assert.ErrorContains(t, err, `unknown target "mysql"`)
}

func TestBenchEntry_Defaults(t *testing.T) {
	cmd := benchEntry()

	url, err := cmd.Flags().GetString("url")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", url)

	backends, err := cmd.Flags().GetString("backends")
	require.NoError(t, err)
	assert.Equal(t, "mongodb,postgres", backends)
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["seed"])
	assert.True(t, names["bench"])
}

func TestSeedStores_WritesSummaryTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	l := zaptest.NewLogger(t)
	runner := seed.NewRunner(seed.Config{Seed: 3, Companies: 2, Users: 4, Transactions: 12, BatchSize: 5, Workers: 1}, l)

	var out bytes.Buffer
	require.NoError(t, seedStores(context.Background(), &out, runner, l, []seed.Store{postgres.NewSeeder(db, l)}))

	table := out.String()
	assert.Contains(t, table, "Backend")
	assert.Contains(t, table, "postgres")
	assert.Contains(t, table, "12")
}
