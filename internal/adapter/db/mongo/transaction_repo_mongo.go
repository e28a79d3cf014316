package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	domain "transactions-compare/internal/domain/transaction"
)

// Backend is the name reported by TransactionRepoMongo
const Backend = "mongodb"

// TransactionRepoMongo implements the transaction Repository with aggregation pipelines.
type TransactionRepoMongo struct {
	db  *mongo.Database
	log *zap.Logger
}

// NewTransactionRepoMongo creates a new instance of TransactionRepoMongo.
func NewTransactionRepoMongo(db *mongo.Database, log *zap.Logger) *TransactionRepoMongo {
	return &TransactionRepoMongo{db: db, log: log}
}

// List runs the listing pipeline and decodes the projected documents.
func (r *TransactionRepoMongo) List(ctx context.Context, filter domain.Filter, page domain.Page) ([]domain.View, error) {
	cur, err := r.db.Collection(TransactionsCollection).Aggregate(ctx, BuildListPipeline(filter, page))
	if err != nil {
		r.log.Error("failed to aggregate transactions", zap.Error(err), zap.Int64("page", page.Page), zap.Int64("limit", page.Limit))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var docs []transactionView
	if err := cur.All(ctx, &docs); err != nil {
		r.log.Error("failed to decode transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	views := make([]domain.View, len(docs))
	for i, d := range docs {
		views[i] = domain.View{
			ID:          d.ID.Hex(),
			Amount:      d.Amount,
			Currency:    d.Currency,
			Status:      domain.Status(d.Status),
			Type:        domain.Type(d.Type),
			Description: d.Description,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
			User: domain.UserSummary{
				ID:        d.User.ID.Hex(),
				Email:     d.User.Email,
				FirstName: d.User.FirstName,
				LastName:  d.User.LastName,
				Position:  d.User.Position,
			},
			Company: domain.CompanySummary{
				ID:       d.Company.ID.Hex(),
				Name:     d.Company.Name,
				Industry: d.Company.Industry,
				Country:  d.Company.Country,
			},
		}
	}
	return views, nil
}

// Count runs the count pipeline. $count emits no document when nothing
// matches, which is reported as zero.
func (r *TransactionRepoMongo) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	cur, err := r.db.Collection(TransactionsCollection).Aggregate(ctx, BuildCountPipeline(filter))
	if err != nil {
		r.log.Error("failed to count transactions", zap.Error(err))
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode transaction count: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// Ping checks the connection to the primary.
func (r *TransactionRepoMongo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

// Backend returns "mongodb".
func (r *TransactionRepoMongo) Backend() string {
	return Backend
}
