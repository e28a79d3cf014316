package seed

import (
	"context"

	domain "transactions-compare/internal/domain/transaction"
)

// Store is a backend that can be wiped and filled with generated data.
// Insert methods return the identifiers assigned by the store, in input order.
type Store interface {
	Backend() string
	Reset(ctx context.Context) error
	Migrate(ctx context.Context) error
	InsertCompanies(ctx context.Context, companies []domain.Company) ([]string, error)
	InsertUsers(ctx context.Context, users []domain.User) ([]string, error)
	InsertTransactions(ctx context.Context, txs []domain.Transaction) error
}
