package postgres

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "transactions-compare/internal/domain/transaction"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

// fixture inserts 2 companies, 3 users and 6 transactions spread over two days.
func fixture(t *testing.T, db *gorm.DB) {
	companies := []CompanySchema{
		{ID: "00000000-0000-0000-0000-0000000000c1", Name: "Company 1 Media", Industry: "Media", Country: "UK"},
		{ID: "00000000-0000-0000-0000-0000000000c2", Name: "Company 2 Energy", Industry: "Energy", Country: "USA"},
	}
	users := []UserSchema{
		{ID: "00000000-0000-0000-0000-0000000000a1", Email: "john.smith.0@example.com", FirstName: "John", LastName: "Smith", Position: "Designer", CompanyID: companies[0].ID},
		{ID: "00000000-0000-0000-0000-0000000000a2", Email: "jane.doe.1@example.com", FirstName: "Jane", LastName: "Doe", Position: "QA Engineer", CompanyID: companies[0].ID},
		{ID: "00000000-0000-0000-0000-0000000000a3", Email: "mark.lee.2@example.com", FirstName: "Mark", LastName: "Lee", Position: "HR Manager", CompanyID: companies[1].ID},
	}
	day1 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	txs := []TransactionSchema{
		{UserID: users[0].ID, CreatedAt: day1.Add(1 * time.Hour)},
		{UserID: users[1].ID, CreatedAt: day1.Add(5 * time.Hour)},
		{UserID: users[2].ID, CreatedAt: day1.Add(23*time.Hour + 59*time.Minute)},
		{UserID: users[0].ID, CreatedAt: day2},
		{UserID: users[2].ID, CreatedAt: day2.Add(2 * time.Hour)},
		{UserID: users[2].ID, CreatedAt: day2.Add(3 * time.Hour)},
	}
	for i := range txs {
		txs[i].ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)
		txs[i].Amount = float64(i+1) * 10.5
		txs[i].Currency = "USD"
		txs[i].Status = string(domain.StatusCompleted)
		txs[i].Type = string(domain.TypeTransfer)
		txs[i].Description = fmt.Sprintf("Transaction %d - transfer", i+1)
		txs[i].UpdatedAt = txs[i].CreatedAt
	}

	require.NoError(t, db.Create(&companies).Error)
	require.NoError(t, db.Create(&users).Error)
	require.NoError(t, db.Create(&txs).Error)
}

func setupRepo(t *testing.T) *TransactionRepoPG {
	db := setupTestDB(t)
	fixture(t, db)
	return NewTransactionRepoPG(db, zaptest.NewLogger(t))
}

func TestTransactionRepoPG_List_NewestFirstWithJoins(t *testing.T) {
	repo := setupRepo(t)

	views, err := repo.List(context.Background(), domain.Filter{}, domain.Page{Page: 1, Limit: 10})

	require.NoError(t, err)
	require.Len(t, views, 6)
	for i := 1; i < len(views); i++ {
		assert.False(t, views[i].CreatedAt.After(views[i-1].CreatedAt), "rows must be sorted by createdAt desc")
	}

	newest := views[0]
	assert.Equal(t, "Transaction 6 - transfer", newest.Description)
	assert.Equal(t, 63.0, newest.Amount)
	assert.Equal(t, domain.StatusCompleted, newest.Status)
	assert.Equal(t, "mark.lee.2@example.com", newest.User.Email)
	assert.Equal(t, "Mark", newest.User.FirstName)
	assert.Equal(t, "HR Manager", newest.User.Position)
	assert.Equal(t, "Company 2 Energy", newest.Company.Name)
	assert.Equal(t, "USA", newest.Company.Country)
}

func TestTransactionRepoPG_List_Pagination(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for page := int64(1); page <= 3; page++ {
		views, err := repo.List(ctx, domain.Filter{}, domain.Page{Page: page, Limit: 2})
		require.NoError(t, err)
		require.Len(t, views, 2)
		for _, v := range views {
			assert.False(t, seen[v.ID], "duplicate %s across pages", v.ID)
			seen[v.ID] = true
		}
	}
	assert.Len(t, seen, 6)

	views, err := repo.List(ctx, domain.Filter{}, domain.Page{Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestTransactionRepoPG_List_HugePageIsEmpty(t *testing.T) {
	repo := setupRepo(t)

	for _, page := range []domain.Page{
		{Page: domain.MaxPage(10), Limit: 10},
		{Page: math.MaxInt64 / 5, Limit: 10},
	} {
		views, err := repo.List(context.Background(), domain.Filter{}, page)
		require.NoError(t, err)
		assert.Empty(t, views, "page %d must not wrap around to the first rows", page.Page)
	}
}

func TestTransactionRepoPG_Filters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	day, err := domain.ParseDay("2024-03-10", time.UTC)
	require.NoError(t, err)

	tests := []struct {
		name      string
		filter    domain.Filter
		wantTotal int64
	}{
		{"no filter", domain.Filter{}, 6},
		{"created at day", domain.Filter{CreatedAt: &day}, 3},
		{"email", domain.Filter{Email: "mark.lee.2@example.com"}, 3},
		{"company name", domain.Filter{CompanyName: "Company 1 Media"}, 3},
		{"email and day", domain.Filter{Email: "mark.lee.2@example.com", CreatedAt: &day}, 1},
		{"email and other company", domain.Filter{Email: "mark.lee.2@example.com", CompanyName: "Company 1 Media"}, 0},
		{"unknown email", domain.Filter{Email: "nobody@example.com"}, 0},
		{"email is exact match", domain.Filter{Email: "mark.lee"}, 0},
		{"injection attempt is a literal", domain.Filter{Email: "' OR 1=1 --"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			views, err := repo.List(ctx, tt.filter, domain.Page{Page: 1, Limit: 100})
			require.NoError(t, err)
			assert.Len(t, views, int(tt.wantTotal))

			for _, v := range views {
				if tt.filter.CreatedAt != nil {
					assert.True(t, tt.filter.CreatedAt.Contains(v.CreatedAt), "%s outside day", v.CreatedAt)
				}
				if tt.filter.Email != "" {
					assert.Equal(t, tt.filter.Email, v.User.Email)
				}
				if tt.filter.CompanyName != "" {
					assert.Equal(t, tt.filter.CompanyName, v.Company.Name)
				}
			}
		})
	}
}

func TestTransactionRepoPG_PingAndBackend(t *testing.T) {
	repo := setupRepo(t)

	assert.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, "postgres", repo.Backend())
}

func TestTransactionRepoPG_ClosedDB(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepoPG(db, zaptest.NewLogger(t))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.List(context.Background(), domain.Filter{}, domain.Page{Page: 1, Limit: 10})
	assert.ErrorContains(t, err, "failed to list transactions")

	_, err = repo.Count(context.Background(), domain.Filter{})
	assert.ErrorContains(t, err, "failed to count transactions")
}
