package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "transactions-compare/internal/domain/transaction"
	usecase "transactions-compare/internal/usecase/transaction"
	pkgerrors "transactions-compare/pkg/errors"
	"transactions-compare/pkg/logger"
)

// timestampLayout renders times in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TransactionHandler serves the listing endpoint of one backend
type TransactionHandler struct {
	uc  usecase.Lister
	log *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler instance
func NewTransactionHandler(uc usecase.Lister, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse is the user embedded in a transaction
type UserResponse struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position"`
}

// CompanyResponse is the company embedded in a transaction
type CompanyResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Country  string `json:"country"`
}

// TransactionResponse represents one transaction in the HTTP response
type TransactionResponse struct {
	ID          string          `json:"_id"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
	User        UserResponse    `json:"user"`
	Company     CompanyResponse `json:"company"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// ListTransactionsResponse represents the HTTP response for listing transactions
type ListTransactionsResponse struct {
	Data          []TransactionResponse `json:"data"`
	Pagination    Pagination            `json:"pagination"`
	ExecutionTime int64                 `json:"executionTime"` // milliseconds
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errFetchTransactions is the error title of every failed listing
const errFetchTransactions = "Failed to fetch transactions"

// ListTransactions handles GET /api/transactions and GET /api/postgres-transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	req := parseListRequest(c)

	resp, err := h.uc.ListTransactions(ctx, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(resp))
}

// handleError renders every failure as a 500, the listing API's only error status.
func (h *TransactionHandler) handleError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log).With(zap.String("backend", h.uc.Backend()))
	if pkgerrors.IsValidation(err) {
		log.Warn("invalid transaction request", zap.Error(err))
	} else if q, ok := pkgerrors.AsQuery(err); ok && q.Timeout() {
		log.Error("transaction query timed out", zap.Error(err))
	} else {
		log.Error("failed to fetch transactions", zap.Error(err))
	}
	_ = c.Error(err)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   errFetchTransactions,
		Message: err.Error(),
	})
}

// parseListRequest reads the query string. Unparsable numbers become zero and
// are replaced with defaults by the usecase.
func parseListRequest(c *gin.Context) usecase.ListTransactionsRequest {
	return usecase.ListTransactionsRequest{
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
		CreatedAt:   c.Query("createdAt"),
		Email:       c.Query("email"),
		CompanyName: c.Query("companyName"),
	}
}

func queryInt(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func toListResponse(resp *usecase.ListTransactionsResponse) ListTransactionsResponse {
	data := make([]TransactionResponse, len(resp.Data))
	for i, v := range resp.Data {
		data[i] = toTransactionResponse(v)
	}

	return ListTransactionsResponse{
		Data: data,
		Pagination: Pagination{
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			Total:      resp.Pagination.Total,
			TotalPages: resp.Pagination.TotalPages,
			HasMore:    resp.Pagination.HasMore,
		},
		ExecutionTime: resp.ExecutionTime.Milliseconds(),
	}
}

func toTransactionResponse(v domain.View) TransactionResponse {
	return TransactionResponse{
		ID:          v.ID,
		Amount:      v.Amount,
		Currency:    v.Currency,
		Status:      string(v.Status),
		Type:        string(v.Type),
		Description: v.Description,
		CreatedAt:   v.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:   v.UpdatedAt.UTC().Format(timestampLayout),
		User: UserResponse{
			ID:        v.User.ID,
			Email:     v.User.Email,
			FirstName: v.User.FirstName,
			LastName:  v.User.LastName,
			Position:  v.User.Position,
		},
		Company: CompanyResponse{
			ID:       v.Company.ID,
			Name:     v.Company.Name,
			Industry: v.Company.Industry,
			Country:  v.Company.Country,
		},
	}
}
