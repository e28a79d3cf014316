package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "transactions-compare/internal/domain/transaction"
	usecase "transactions-compare/internal/usecase/transaction"
	pkgerrors "transactions-compare/pkg/errors"
)

// MockLister is a mock implementation of usecase.Lister
type MockLister struct {
	mock.Mock
	backend string
}

func (m *MockLister) ListTransactions(ctx context.Context, req usecase.ListTransactionsRequest) (*usecase.ListTransactionsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListTransactionsResponse), args.Error(1)
}

func (m *MockLister) Backend() string {
	return m.backend
}

func setupTestRouter(t *testing.T) (*gin.Engine, *MockLister) {
	gin.SetMode(gin.TestMode)
	mockUC := &MockLister{backend: "mongodb"}
	h := NewTransactionHandler(mockUC, zaptest.NewLogger(t))

	router := gin.New()
	router.GET("/api/transactions", h.ListTransactions)
	return router, mockUC
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListTransactions_Success(t *testing.T) {
	router, mockUC := setupTestRouter(t)

	berlin := time.FixedZone("CET", 3600)
	created := time.Date(2024, 3, 10, 9, 30, 15, 250_000_000, berlin)

	mockUC.On("ListTransactions", mock.Anything, usecase.ListTransactionsRequest{Page: 2, Limit: 5}).Return(&usecase.ListTransactionsResponse{
		Backend: "mongodb",
		Data: []domain.View{{
			ID:          "65f0c0ffee",
			Amount:      99.99,
			Currency:    "GBP",
			Status:      domain.StatusFailed,
			Type:        domain.TypeTransfer,
			Description: "Transaction 12 - deposit",
			CreatedAt:   created,
			UpdatedAt:   created,
			User:        domain.UserSummary{ID: "u1", Email: "emily.brown.4@example.com", FirstName: "Emily", LastName: "Brown", Position: "Designer"},
			Company:     domain.CompanySummary{ID: "c1", Name: "Company 9 Finance", Industry: "Retail", Country: "Canada"},
		}},
		Pagination:    domain.NewPagination(11, 2, 5),
		ExecutionTime: 37 * time.Millisecond,
	}, nil)

	w := get(router, "/api/transactions?page=2&limit=5")

	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, float64(37), raw["executionTime"])
	assert.Equal(t, map[string]any{
		"page": float64(2), "limit": float64(5), "total": float64(11), "totalPages": float64(3), "hasMore": true,
	}, raw["pagination"])

	data := raw["data"].([]any)
	require.Len(t, data, 1)
	tx := data[0].(map[string]any)
	assert.Equal(t, "65f0c0ffee", tx["_id"])
	assert.Equal(t, 99.99, tx["amount"])
	assert.Equal(t, "failed", tx["status"])
	assert.Equal(t, "transfer", tx["type"])
	assert.Equal(t, "2024-03-10T08:30:15.250Z", tx["createdAt"])
	assert.Equal(t, map[string]any{
		"_id": "u1", "email": "emily.brown.4@example.com", "firstName": "Emily", "lastName": "Brown", "position": "Designer",
	}, tx["user"])
	assert.Equal(t, map[string]any{
		"_id": "c1", "name": "Company 9 Finance", "industry": "Retail", "country": "Canada",
	}, tx["company"])

	mockUC.AssertExpectations(t)
}

func TestListTransactions_ParsesQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  usecase.ListTransactionsRequest
	}{
		{
			name:  "no params",
			query: "",
			want:  usecase.ListTransactionsRequest{},
		},
		{
			name:  "filters are passed through",
			query: "?createdAt=2024-05-01&email=john.smith.0%40example.com&companyName=Company+1+Media",
			want: usecase.ListTransactionsRequest{
				CreatedAt:   "2024-05-01",
				Email:       "john.smith.0@example.com",
				CompanyName: "Company 1 Media",
			},
		},
		{
			name:  "non numeric page and limit become zero",
			query: "?page=abc&limit=1.5",
			want:  usecase.ListTransactionsRequest{},
		},
		{
			name:  "negative values are left to the usecase",
			query: "?page=-2&limit=-9",
			want:  usecase.ListTransactionsRequest{Page: -2, Limit: -9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockUC := setupTestRouter(t)
			mockUC.On("ListTransactions", mock.Anything, tt.want).Return(&usecase.ListTransactionsResponse{
				Data:       []domain.View{},
				Pagination: domain.NewPagination(0, 1, 10),
			}, nil)

			w := get(router, "/api/transactions"+tt.query)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0,"hasMore":false},"executionTime":0}`, w.Body.String())
			mockUC.AssertExpectations(t)
		})
	}
}

func TestListTransactions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "backend failure",
			err:     pkgerrors.NewQueryError("mongodb", errors.New("server selection timeout")),
			message: "failed to query mongodb: server selection timeout",
		},
		{
			name:    "invalid createdAt",
			err:     pkgerrors.NewValidationError("createdAt", "invalid date"),
			message: "validation failed: createdAt - invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockUC := setupTestRouter(t)
			mockUC.On("ListTransactions", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := get(router, "/api/transactions?createdAt=nope")

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Failed to fetch transactions", body.Error)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
