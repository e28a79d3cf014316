package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "transactions-compare/internal/domain/transaction"
)

const insertBatchSize = 500

// Seeder writes generated data into PostgreSQL.
type Seeder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(db *gorm.DB, log *zap.Logger) *Seeder {
	return &Seeder{db: db, log: log}
}

// Backend returns "postgres".
func (s *Seeder) Backend() string {
	return Backend
}

// Migrate creates or updates the tables and indexes.
func (s *Seeder) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Reset deletes every row, children first. Missing tables are skipped.
func (s *Seeder) Reset(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	for _, model := range []any{&TransactionSchema{}, &UserSchema{}, &CompanySchema{}} {
		if !db.Migrator().HasTable(model) {
			continue
		}
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}
	return nil
}

// InsertCompanies inserts companies and returns their generated ids.
func (s *Seeder) InsertCompanies(ctx context.Context, companies []domain.Company) ([]string, error) {
	models := make([]CompanySchema, len(companies))
	for i, c := range companies {
		models[i] = CompanySchema{
			ID:            c.ID,
			Name:          c.Name,
			Industry:      c.Industry,
			Country:       c.Country,
			Revenue:       c.Revenue,
			EmployeeCount: c.EmployeeCount,
			FoundedYear:   c.FoundedYear,
			IsActive:      c.IsActive,
		}
	}

	if err := s.db.WithContext(ctx).CreateInBatches(&models, insertBatchSize).Error; err != nil {
		s.log.Error("failed to insert companies", zap.Error(err), zap.Int("count", len(models)))
		return nil, fmt.Errorf("failed to insert companies: %w", err)
	}

	ids := make([]string, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}
	return ids, nil
}

// InsertUsers inserts users and returns their generated ids.
func (s *Seeder) InsertUsers(ctx context.Context, users []domain.User) ([]string, error) {
	models := make([]UserSchema, len(users))
	for i, u := range users {
		models[i] = UserSchema{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
			Position:  u.Position,
			Salary:    u.Salary,
			CompanyID: u.CompanyID,
		}
	}

	if err := s.db.WithContext(ctx).CreateInBatches(&models, insertBatchSize).Error; err != nil {
		s.log.Error("failed to insert users", zap.Error(err), zap.Int("count", len(models)))
		return nil, fmt.Errorf("failed to insert users: %w", err)
	}

	ids := make([]string, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}
	return ids, nil
}

// InsertTransactions inserts one batch of transactions.
func (s *Seeder) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	models := make([]TransactionSchema, len(txs))
	for i, tx := range txs {
		models[i] = TransactionSchema{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Currency:    tx.Currency,
			Status:      string(tx.Status),
			Type:        string(tx.Type),
			Description: tx.Description,
			UserID:      tx.UserID,
			CreatedAt:   tx.CreatedAt,
			UpdatedAt:   tx.UpdatedAt,
		}
	}

	if err := s.db.WithContext(ctx).CreateInBatches(&models, insertBatchSize).Error; err != nil {
		s.log.Error("failed to insert transactions", zap.Error(err), zap.Int("count", len(models)))
		return fmt.Errorf("failed to insert transactions: %w", err)
	}
	return nil
}
