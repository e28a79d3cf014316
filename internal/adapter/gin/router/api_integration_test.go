package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transactions-compare/internal/adapter/db/postgres"
	"transactions-compare/internal/adapter/gin/handler"
	"transactions-compare/internal/adapter/gin/middleware"
	"transactions-compare/internal/adapter/gin/router"
	"transactions-compare/internal/bench"
	"transactions-compare/internal/seed"
	usecase "transactions-compare/internal/usecase/transaction"
)

const seededTransactions = 60

// APIIntegrationTestSuite runs the full HTTP stack over a seeded SQL store.
// Both listing routes are served from the same store so their results must agree.
type APIIntegrationTestSuite struct {
	suite.Suite
	log    *zap.Logger
	server *httptest.Server
	client *http.Client
}

func (s *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.log = zaptest.NewLogger(s.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	cfg := seed.Config{Seed: 11, Companies: 3, Users: 8, Transactions: seededTransactions, BatchSize: 25, Workers: 2}
	_, err = seed.NewRunner(cfg, s.log).Run(context.Background(), postgres.NewSeeder(db, s.log))
	s.Require().NoError(err)

	repo := postgres.NewTransactionRepoPG(db, s.log)
	opts := usecase.Options{Location: time.UTC, QueryTimeout: 5 * time.Second}
	primary := usecase.New(repo, s.log, opts)
	secondary := usecase.New(repo, s.log, opts)

	swaggerFile := filepath.Join(s.T().TempDir(), "transactions.swagger.json")
	s.Require().NoError(os.WriteFile(swaggerFile, []byte(`{"swagger":"2.0"}`), 0o600))

	engine := router.SetupRouter(router.Handlers{
		Mongo:    handler.NewTransactionHandler(secondary, s.log),
		Postgres: handler.NewTransactionHandler(primary, s.log),
		Compare:  handler.NewCompareHandler(usecase.NewComparer(s.log, secondary, primary), s.log),
		Health:   handler.NewHealthHandler("transactions-compare", s.log, repo),
	}, middleware.NewRateLimiter(nil, middleware.RateLimiterConfig{}, s.log), swaggerFile, s.log)

	s.server = httptest.NewServer(engine)
	s.client = s.server.Client()
}

func (s *APIIntegrationTestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *APIIntegrationTestSuite) list(path string, q url.Values) handler.ListTransactionsResponse {
	target := s.server.URL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	resp, err := s.client.Get(target)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body handler.ListTransactionsResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (s *APIIntegrationTestSuite) TestFirstPage() {
	body := s.list("/api/postgres-transactions", url.Values{"limit": {"5"}})

	s.Len(body.Data, 5)
	s.Equal(int64(seededTransactions), body.Pagination.Total)
	s.Equal(int64(12), body.Pagination.TotalPages)
	s.True(body.Pagination.HasMore)
	for i := 1; i < len(body.Data); i++ {
		s.GreaterOrEqual(body.Data[i-1].CreatedAt, body.Data[i].CreatedAt)
	}
}

func (s *APIIntegrationTestSuite) TestPagesDoNotOverlap() {
	seen := map[string]bool{}
	for page := 1; page <= 6; page++ {
		body := s.list("/api/postgres-transactions", url.Values{"page": {strconv.Itoa(page)}, "limit": {"10"}})
		for _, tx := range body.Data {
			s.False(seen[tx.ID], "transaction %s returned twice", tx.ID)
			seen[tx.ID] = true
		}
	}
	s.Len(seen, seededTransactions)
}

func (s *APIIntegrationTestSuite) TestLimitClamped() {
	body := s.list("/api/postgres-transactions", url.Values{"limit": {"1000"}})

	s.Equal(int64(100), body.Pagination.Limit)
	s.Len(body.Data, seededTransactions)
	s.False(body.Pagination.HasMore)
}

func (s *APIIntegrationTestSuite) TestFilters() {
	newest := s.list("/api/postgres-transactions", url.Values{"limit": {"1"}}).Data[0]

	byEmail := s.list("/api/postgres-transactions", url.Values{"email": {newest.User.Email}, "limit": {"100"}})
	s.NotEmpty(byEmail.Data)
	for _, tx := range byEmail.Data {
		s.Equal(newest.User.Email, tx.User.Email)
	}

	byCompany := s.list("/api/postgres-transactions", url.Values{"companyName": {newest.Company.Name}, "limit": {"100"}})
	s.GreaterOrEqual(byCompany.Pagination.Total, byEmail.Pagination.Total)
	for _, tx := range byCompany.Data {
		s.Equal(newest.Company.Name, tx.Company.Name)
	}

	day := newest.CreatedAt[:len("2006-01-02")]
	byDay := s.list("/api/postgres-transactions", url.Values{"createdAt": {day}, "limit": {"100"}})
	s.NotEmpty(byDay.Data)
	for _, tx := range byDay.Data {
		s.True(strings.HasPrefix(tx.CreatedAt, day), tx.CreatedAt)
	}

	none := s.list("/api/postgres-transactions", url.Values{"email": {"nobody@example.com"}})
	s.Empty(none.Data)
	s.NotNil(none.Data)
	s.Equal(int64(0), none.Pagination.Total)
}

func (s *APIIntegrationTestSuite) TestCompare() {
	resp, err := s.client.Get(s.server.URL + "/api/compare?limit=3")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body handler.CompareResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.TotalsMatch)
	s.Len(body.Results, 2)
	for _, r := range body.Results {
		s.Equal(int64(seededTransactions), r.Total)
		s.Equal(3, r.Returned)
		s.Empty(r.Error)
	}
}

func (s *APIIntegrationTestSuite) TestHealth() {
	resp, err := s.client.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APIIntegrationTestSuite) TestBenchRunner() {
	cfg := bench.DefaultConfig()
	cfg.BaseURL = s.server.URL
	cfg.Requests = 4
	cfg.Concurrency = 2

	reports, err := bench.NewRunner(cfg, s.log).Run(context.Background())
	s.Require().NoError(err)
	s.Len(reports, 12)
	for _, r := range reports {
		s.Zero(r.ErrorCount, "%s/%s", r.Scenario, r.Backend)
	}
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}
	suite.Run(t, new(APIIntegrationTestSuite))
}
