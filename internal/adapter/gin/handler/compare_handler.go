package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	usecase "transactions-compare/internal/usecase/transaction"
)

// Comparer runs one listing request against every backend
type Comparer interface {
	Compare(ctx context.Context, in usecase.ListTransactionsRequest) *usecase.CompareResponse
}

// CompareHandler serves GET /api/compare
type CompareHandler struct {
	comparer Comparer
	log      *zap.Logger
}

// NewCompareHandler creates a new CompareHandler instance
func NewCompareHandler(comparer Comparer, log *zap.Logger) *CompareHandler {
	return &CompareHandler{comparer: comparer, log: log}
}

// BackendResultResponse is one backend's outcome
type BackendResultResponse struct {
	Backend       string `json:"backend"`
	Total         int64  `json:"total"`
	Returned      int    `json:"returned"`
	ExecutionTime int64  `json:"executionTime"` // milliseconds
	Error         string `json:"error,omitempty"`
}

// CompareResponse represents the HTTP response for a comparison
type CompareResponse struct {
	Results     []BackendResultResponse `json:"results"`
	TotalsMatch bool                    `json:"totalsMatch"`
}

// Compare handles GET /api/compare. It accepts the same query parameters as
// the listing endpoints and always answers 200; per-backend failures are
// reported in the body.
func (h *CompareHandler) Compare(c *gin.Context) {
	resp := h.comparer.Compare(c.Request.Context(), parseListRequest(c))

	out := CompareResponse{
		Results:     make([]BackendResultResponse, len(resp.Results)),
		TotalsMatch: resp.TotalsMatch,
	}
	for i, r := range resp.Results {
		out.Results[i] = BackendResultResponse{
			Backend:       r.Backend,
			Total:         r.Total,
			Returned:      r.Returned,
			ExecutionTime: r.ExecutionTime.Milliseconds(),
		}
		if r.Err != nil {
			out.Results[i].Error = r.Err.Error()
		}
	}

	c.JSON(http.StatusOK, out)
}
