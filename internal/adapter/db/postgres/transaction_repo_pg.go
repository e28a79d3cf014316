package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "transactions-compare/internal/domain/transaction"
)

// Backend is the name reported by TransactionRepoPG
const Backend = "postgres"

const listColumns = `transactions.id, transactions.amount, transactions.currency,
	transactions.status, transactions.type, transactions.description,
	transactions.created_at, transactions.updated_at,
	users.id AS user_id, users.email AS user_email, users.first_name AS user_first_name,
	users.last_name AS user_last_name, users.position AS user_position,
	companies.id AS company_id, companies.name AS company_name,
	companies.industry AS company_industry, companies.country AS company_country`

const (
	joinUsers     = "JOIN users ON users.id = transactions.user_id"
	joinCompanies = "JOIN companies ON companies.id = users.company_id"
)

// TransactionRepoPG implements the transaction Repository using PostgreSQL and GORM.
type TransactionRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewTransactionRepoPG creates a new instance of TransactionRepoPG.
func NewTransactionRepoPG(db *gorm.DB, log *zap.Logger) *TransactionRepoPG {
	return &TransactionRepoPG{db: db, log: log}
}

// transactionRow is one row of the joined listing query.
type transactionRow struct {
	ID          string
	Amount      float64
	Currency    string
	Status      string
	Type        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	UserID        string
	UserEmail     string
	UserFirstName string
	UserLastName  string
	UserPosition  string

	CompanyID       string
	CompanyName     string
	CompanyIndustry string
	CompanyCountry  string
}

func (r transactionRow) toView() domain.View {
	return domain.View{
		ID:          r.ID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Status:      domain.Status(r.Status),
		Type:        domain.Type(r.Type),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		User: domain.UserSummary{
			ID:        r.UserID,
			Email:     r.UserEmail,
			FirstName: r.UserFirstName,
			LastName:  r.UserLastName,
			Position:  r.UserPosition,
		},
		Company: domain.CompanySummary{
			ID:       r.CompanyID,
			Name:     r.CompanyName,
			Industry: r.CompanyIndustry,
			Country:  r.CompanyCountry,
		},
	}
}

// applyFilter adds the WHERE clauses for f. Values are always bound as parameters.
func applyFilter(q *gorm.DB, f domain.Filter) *gorm.DB {
	if f.CreatedAt != nil {
		q = q.Where("transactions.created_at >= ? AND transactions.created_at < ?", f.CreatedAt.Start, f.CreatedAt.End)
	}
	if f.Email != "" {
		q = q.Where("users.email = ?", f.Email)
	}
	if f.CompanyName != "" {
		q = q.Where("companies.name = ?", f.CompanyName)
	}
	return q
}

// List retrieves one page of transactions joined with their user and company,
// newest first.
func (r *TransactionRepoPG) List(ctx context.Context, filter domain.Filter, page domain.Page) ([]domain.View, error) {
	q := r.db.WithContext(ctx).
		Table("transactions").
		Select(listColumns).
		Joins(joinUsers).
		Joins(joinCompanies)

	var rows []transactionRow
	err := applyFilter(q, filter).
		Order("transactions.created_at DESC").
		Order("transactions.id DESC").
		Offset(int(page.Skip())).
		Limit(int(page.Limit)).
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to list transactions from db", zap.Error(err), zap.Int64("page", page.Page), zap.Int64("limit", page.Limit))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	views := make([]domain.View, len(rows))
	for i, row := range rows {
		views[i] = row.toView()
	}
	return views, nil
}

// Count returns the number of transactions matching filter. Users and companies
// are only joined when the filter references them.
func (r *TransactionRepoPG) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	q := r.db.WithContext(ctx).Table("transactions")
	if filter.NeedsJoin() {
		q = q.Joins(joinUsers).Joins(joinCompanies)
	}

	var total int64
	if err := applyFilter(q, filter).Count(&total).Error; err != nil {
		r.log.Error("failed to count transactions in db", zap.Error(err))
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}

// Ping checks the underlying connection.
func (r *TransactionRepoPG) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Backend returns "postgres".
func (r *TransactionRepoPG) Backend() string {
	return Backend
}
