package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "transactions-compare/internal/domain/transaction"
	pkgerrors "transactions-compare/pkg/errors"
	"transactions-compare/pkg/logger"
	"transactions-compare/pkg/security"
)

// Repository defines the read operations a storage backend must provide.
// The PostgreSQL and MongoDB implementations must agree on ordering
// (createdAt descending) and on which rows a Filter selects.
type Repository interface {
	List(ctx context.Context, filter domain.Filter, page domain.Page) ([]domain.View, error)
	Count(ctx context.Context, filter domain.Filter) (int64, error)
	Ping(ctx context.Context) error
	Backend() string
}

// QueryObserver receives the timing of every listing request.
type QueryObserver interface {
	ObserveQuery(backend, filter string, elapsed time.Duration, err error)
}

// Options tunes request coercion and query execution.
type Options struct {
	Location         *time.Location // calendar-day filters are evaluated here
	DefaultPageLimit int64
	MaxPageLimit     int64
	QueryTimeout     time.Duration // zero disables the per-request deadline
	Observer         QueryObserver // optional
}

// Usecase implements transaction listing on top of one Repository.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
	opts     Options
}

// New creates a Usecase. Missing options fall back to UTC, 10 and 100.
func New(r Repository, log *zap.Logger, opts Options) *Usecase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultPageLimit < 1 {
		opts.DefaultPageLimit = 10
	}
	if opts.MaxPageLimit < opts.DefaultPageLimit {
		opts.MaxPageLimit = max(100, opts.DefaultPageLimit)
	}
	return &Usecase{repo: r, log: log, validate: validator.New(), opts: opts}
}

// Backend names the storage backend behind this usecase
func (uc *Usecase) Backend() string {
	return uc.repo.Backend()
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
}

// coercePage applies defaults and bounds; invalid values never fail a request.
func (uc *Usecase) coercePage(page, limit int64) domain.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = uc.opts.DefaultPageLimit
	}
	if limit > uc.opts.MaxPageLimit {
		limit = uc.opts.MaxPageLimit
	}
	if maxPage := domain.MaxPage(limit); page > maxPage {
		page = maxPage
	}
	return domain.Page{Page: page, Limit: limit}
}

// buildFilter validates the raw filter values and resolves createdAt to a day.
func (uc *Usecase) buildFilter(in ListTransactionsRequest) (domain.Filter, error) {
	if err := uc.validate.Struct(in); err != nil {
		return domain.Filter{}, formatValidationError(err)
	}

	if err := security.ValidateFilterValue(in.Email); err != nil {
		return domain.Filter{}, pkgerrors.NewValidationError("email", err.Error())
	}
	if err := security.ValidateFilterValue(in.CompanyName); err != nil {
		return domain.Filter{}, pkgerrors.NewValidationError("companyName", err.Error())
	}

	filter := domain.Filter{
		Email:       in.Email,
		CompanyName: in.CompanyName,
	}

	if in.CreatedAt != "" {
		day, err := domain.ParseDay(in.CreatedAt, uc.opts.Location)
		if err != nil {
			return domain.Filter{}, pkgerrors.NewValidationError("createdAt", err.Error())
		}
		filter.CreatedAt = &day
	}

	return filter, nil
}

// ListTransactions returns one page of transactions plus the total match count.
// The page query and the count query run in parallel.
func (uc *Usecase) ListTransactions(ctx context.Context, in ListTransactionsRequest) (*ListTransactionsResponse, error) {
	start := time.Now()
	backend := uc.repo.Backend()
	ctx = logger.ContextWithBackend(ctx, backend)
	log := logger.WithContext(ctx, uc.log)

	page := uc.coercePage(in.Page, in.Limit)

	filter, err := uc.buildFilter(in)
	if err != nil {
		log.Warn("invalid transaction filter", zap.Error(err))
		uc.observe(backend, "invalid", time.Since(start), err)
		return nil, err
	}

	label := FilterLabel(filter)
	log.Debug("listing transactions",
		zap.String("filter", label),
		zap.Int64("page", page.Page),
		zap.Int64("limit", page.Limit),
	)

	if uc.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.QueryTimeout)
		defer cancel()
	}

	var (
		views []domain.View
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		views, err = uc.repo.List(gctx, filter, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.repo.Count(gctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to list transactions",
			zap.String("filter", label),
			zap.Int64("page", page.Page),
			zap.Int64("limit", page.Limit),
			zap.Error(err),
		)
		uc.observe(backend, label, time.Since(start), err)
		return nil, pkgerrors.NewQueryError(backend, err)
	}

	if views == nil {
		views = []domain.View{}
	}

	elapsed := time.Since(start)
	uc.observe(backend, label, elapsed, nil)

	return &ListTransactionsResponse{
		Backend:       backend,
		Data:          views,
		Pagination:    domain.NewPagination(total, page.Page, page.Limit),
		ExecutionTime: elapsed,
	}, nil
}

func (uc *Usecase) observe(backend, label string, elapsed time.Duration, err error) {
	if uc.opts.Observer != nil {
		uc.opts.Observer.ObserveQuery(backend, label, elapsed, err)
	}
}

// FilterLabel names the combination of active filters, e.g. "createdAt+email".
// The set of labels is small and fixed, so it is safe as a metrics label.
func FilterLabel(f domain.Filter) string {
	parts := make([]string, 0, 3)
	if f.CreatedAt != nil {
		parts = append(parts, "createdAt")
	}
	if f.Email != "" {
		parts = append(parts, "email")
	}
	if f.CompanyName != "" {
		parts = append(parts, "companyName")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
