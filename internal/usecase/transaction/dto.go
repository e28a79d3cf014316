package transaction

import (
	"time"

	domain "transactions-compare/internal/domain/transaction"
)

// ListTransactionsRequest carries the raw listing parameters.
// Page and Limit may be zero; the usecase fills in defaults.
type ListTransactionsRequest struct {
	Page        int64
	Limit       int64
	CreatedAt   string `validate:"omitempty,max=64"`
	Email       string `validate:"omitempty,max=320"`
	CompanyName string `validate:"omitempty,max=320"`
}

// ListTransactionsResponse is one page of transactions from a single backend.
type ListTransactionsResponse struct {
	Backend       string
	Data          []domain.View
	Pagination    domain.Pagination
	ExecutionTime time.Duration
}

// BackendResult summarises one backend's answer to a comparison request.
type BackendResult struct {
	Backend       string
	Total         int64
	Returned      int
	ExecutionTime time.Duration
	Err           error
}

// CompareResponse holds the per-backend results for the same request.
type CompareResponse struct {
	Results     []BackendResult
	TotalsMatch bool
}
