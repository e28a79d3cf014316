package bench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Endpoints maps backend names to their listing routes.
var Endpoints = map[string]string{
	"mongodb":  "/api/transactions",
	"postgres": "/api/postgres-transactions",
}

// Config holds configuration for benchmark runs
type Config struct {
	BaseURL     string
	Backends    []string
	Concurrency int
	Requests    int // per scenario and backend
	Timeout     time.Duration
}

// DefaultConfig returns default benchmark configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:3000",
		Backends:    []string{"mongodb", "postgres"},
		Concurrency: 10,
		Requests:    200,
		Timeout:     30 * time.Second,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if c.Requests < 1 {
		return errors.New("requests must be at least 1")
	}
	if len(c.Backends) == 0 {
		return errors.New("at least one backend is required")
	}
	for _, b := range c.Backends {
		if _, ok := Endpoints[b]; !ok {
			return fmt.Errorf("unknown backend %q", b)
		}
	}
	return nil
}

// Scenario is one query shape sent to every backend.
type Scenario struct {
	Name  string
	Query url.Values
}

// sample holds filter values taken from live data so filtered scenarios match rows.
type sample struct {
	Email       string
	CompanyName string
	Day         string
}

// Scenarios builds the query shapes. Filtered scenarios are skipped when no
// sample value is known.
func Scenarios(s sample) []Scenario {
	out := []Scenario{
		{Name: "first-page", Query: url.Values{"page": {"1"}, "limit": {"10"}}},
		{Name: "deep-page", Query: url.Values{"page": {"500"}, "limit": {"10"}}},
		{Name: "max-limit", Query: url.Values{"page": {"1"}, "limit": {"100"}}},
	}
	if s.Day != "" {
		out = append(out, Scenario{Name: "created-at", Query: url.Values{"createdAt": {s.Day}}})
	}
	if s.Email != "" {
		out = append(out, Scenario{Name: "email", Query: url.Values{"email": {s.Email}}})
	}
	if s.CompanyName != "" {
		out = append(out, Scenario{Name: "company-name", Query: url.Values{"companyName": {s.CompanyName}}})
	}
	return out
}

// listResponse is the subset of the listing payload the runner reads.
type listResponse struct {
	Data []struct {
		CreatedAt string `json:"createdAt"`
		User      struct {
			Email string `json:"email"`
		} `json:"user"`
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
	} `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
	ExecutionTime int64 `json:"executionTime"`
}

// Runner drives load against the listing endpoints.
type Runner struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

// NewRunner creates a new benchmark runner
func NewRunner(cfg Config, log *zap.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Run executes every scenario against every configured backend.
func (r *Runner) Run(ctx context.Context) ([]*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := r.discover(ctx)
	if err != nil {
		r.log.Warn("could not sample filter values, running unfiltered scenarios only", zap.Error(err))
	}

	var reports []*Report
	for _, sc := range Scenarios(s) {
		for _, backend := range r.cfg.Backends {
			if ctx.Err() != nil {
				return reports, ctx.Err()
			}
			r.log.Info("running scenario",
				zap.String("scenario", sc.Name),
				zap.String("backend", backend),
				zap.Int("requests", r.cfg.Requests),
				zap.Int("concurrency", r.cfg.Concurrency),
			)
			reports = append(reports, r.runScenario(ctx, sc, backend))
		}
	}
	return reports, nil
}

// discover reads the newest transaction from the first backend to pick filter values.
func (r *Runner) discover(ctx context.Context) (sample, error) {
	target := r.url(r.cfg.Backends[0], url.Values{"limit": {"1"}})
	resp, err := r.get(ctx, target)
	if err != nil {
		return sample{}, err
	}
	if len(resp.Data) == 0 {
		return sample{}, errors.New("no transactions found")
	}

	first := resp.Data[0]
	s := sample{Email: first.User.Email, CompanyName: first.Company.Name}
	if len(first.CreatedAt) >= len("2006-01-02") {
		s.Day = first.CreatedAt[:len("2006-01-02")]
	}
	return s, nil
}

func (r *Runner) runScenario(ctx context.Context, sc Scenario, backend string) *Report {
	collector := NewCollector()
	target := r.url(backend, sc.Query)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i := 0; i < r.cfg.Requests; i++ {
		g.Go(func() error {
			start := time.Now()
			resp, err := r.get(gctx, target)
			if err != nil {
				collector.RecordError()
				r.log.Debug("request failed", zap.String("url", target), zap.Error(err))
				return nil
			}
			collector.RecordSuccess(time.Since(start), time.Duration(resp.ExecutionTime)*time.Millisecond, resp.Pagination.Total)
			return nil
		})
	}
	_ = g.Wait()

	return collector.Report(sc.Name, backend, Endpoints[backend]+"?"+sc.Query.Encode())
}

func (r *Runner) url(backend string, q url.Values) string {
	u := strings.TrimRight(r.cfg.BaseURL, "/") + Endpoints[backend]
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (r *Runner) get(ctx context.Context, target string) (*listResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out listResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
