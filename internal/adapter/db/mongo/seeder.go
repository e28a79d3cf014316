package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	domain "transactions-compare/internal/domain/transaction"
)

// Seeder writes generated data into MongoDB.
type Seeder struct {
	db  *mongo.Database
	log *zap.Logger
	now func() time.Time
}

// NewSeeder creates a new Seeder.
func NewSeeder(db *mongo.Database, log *zap.Logger) *Seeder {
	return &Seeder{db: db, log: log, now: time.Now}
}

// Backend returns "mongodb".
func (s *Seeder) Backend() string {
	return Backend
}

// Migrate creates the indexes.
func (s *Seeder) Migrate(ctx context.Context) error {
	return EnsureIndexes(ctx, s.db)
}

// Reset deletes every document, children first.
func (s *Seeder) Reset(ctx context.Context) error {
	for _, coll := range []string{TransactionsCollection, UsersCollection, CompaniesCollection} {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("failed to clear %s: %w", coll, err)
		}
	}
	return nil
}

// InsertCompanies inserts companies and returns their ObjectIDs as hex strings.
func (s *Seeder) InsertCompanies(ctx context.Context, companies []domain.Company) ([]string, error) {
	now := s.now().UTC()
	docs := make([]any, len(companies))
	ids := make([]string, len(companies))
	for i, c := range companies {
		id := primitive.NewObjectID()
		ids[i] = id.Hex()
		docs[i] = CompanyDoc{
			ID:            id,
			Name:          c.Name,
			Industry:      c.Industry,
			Country:       c.Country,
			Revenue:       c.Revenue,
			EmployeeCount: c.EmployeeCount,
			FoundedYear:   c.FoundedYear,
			IsActive:      c.IsActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	if err := s.insert(ctx, CompaniesCollection, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertUsers inserts users and returns their ObjectIDs as hex strings.
func (s *Seeder) InsertUsers(ctx context.Context, users []domain.User) ([]string, error) {
	now := s.now().UTC()
	docs := make([]any, len(users))
	ids := make([]string, len(users))
	for i, u := range users {
		companyID, err := primitive.ObjectIDFromHex(u.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("invalid company id %q for %s: %w", u.CompanyID, u.Email, err)
		}
		id := primitive.NewObjectID()
		ids[i] = id.Hex()
		docs[i] = UserDoc{
			ID:        id,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
			Position:  u.Position,
			Salary:    u.Salary,
			CompanyID: companyID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.insert(ctx, UsersCollection, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertTransactions inserts one batch of transactions.
func (s *Seeder) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	docs := make([]any, len(txs))
	for i, tx := range txs {
		userID, err := primitive.ObjectIDFromHex(tx.UserID)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", tx.UserID, err)
		}
		docs[i] = TransactionDoc{
			ID:          primitive.NewObjectID(),
			Amount:      tx.Amount,
			Currency:    tx.Currency,
			Status:      string(tx.Status),
			Type:        string(tx.Type),
			Description: tx.Description,
			UserID:      userID,
			CreatedAt:   tx.CreatedAt,
			UpdatedAt:   tx.UpdatedAt,
		}
	}
	return s.insert(ctx, TransactionsCollection, docs)
}

func (s *Seeder) insert(ctx context.Context, coll string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.db.Collection(coll).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		s.log.Error("failed to insert documents", zap.String("collection", coll), zap.Int("count", len(docs)), zap.Error(err))
		return fmt.Errorf("failed to insert into %s: %w", coll, err)
	}
	return nil
}
