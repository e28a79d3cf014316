package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var indexes = map[string][]mongo.IndexModel{
	CompaniesCollection: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("name_1")},
	},
	UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_1").SetUnique(true)},
		{Keys: bson.D{{Key: "companyId", Value: 1}}, Options: options.Index().SetName("companyId_1")},
	},
	TransactionsCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetName("userId_1")},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetName("createdAt_1")},
	},
}

// EnsureIndexes creates the indexes the listing pipelines rely on. Creating an
// index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, coll := range []string{CompaniesCollection, UsersCollection, TransactionsCollection} {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes[coll]); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
