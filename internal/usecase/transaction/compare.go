package transaction

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"transactions-compare/pkg/logger"
)

// Comparer runs the same listing request against several backends at once.
type Comparer struct {
	listers []Lister
	log     *zap.Logger
}

// NewComparer creates a Comparer over the given backends
func NewComparer(log *zap.Logger, listers ...Lister) *Comparer {
	return &Comparer{listers: listers, log: log}
}

// Compare issues in to every backend concurrently. A failing backend is
// reported in its result rather than failing the whole comparison.
func (c *Comparer) Compare(ctx context.Context, in ListTransactionsRequest) *CompareResponse {
	results := make([]BackendResult, len(c.listers))

	var wg sync.WaitGroup
	for i, l := range c.listers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			resp, err := l.ListTransactions(ctx, in)
			if err != nil {
				results[i] = BackendResult{
					Backend:       l.Backend(),
					ExecutionTime: time.Since(start),
					Err:           err,
				}
				return
			}
			results[i] = BackendResult{
				Backend:       resp.Backend,
				Total:         resp.Pagination.Total,
				Returned:      len(resp.Data),
				ExecutionTime: resp.ExecutionTime,
			}
		}()
	}
	wg.Wait()

	match := totalsMatch(results)
	if !match {
		logger.WithContext(ctx, c.log).Warn("backends disagree on transaction totals", zap.Any("results", results))
	}

	return &CompareResponse{
		Results:     results,
		TotalsMatch: match,
	}
}

func totalsMatch(results []BackendResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Err != nil || r.Total != results[0].Total {
			return false
		}
	}
	return true
}
