package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domain "transactions-compare/internal/domain/transaction"
)

// BuildListPipeline returns the aggregation for one page of transactions.
//
// Without a user or company filter the page is cut right after the sort, so
// only the rows being returned are joined. With one, every candidate has to be
// joined and matched first and the page is cut at the end.
func BuildListPipeline(f domain.Filter, page domain.Page) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if f.CreatedAt != nil {
		pipeline = append(pipeline, createdAtMatch(f.CreatedAt))
	}

	// _id breaks createdAt ties so pages never overlap.
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	}}})

	if !f.NeedsJoin() {
		pipeline = append(pipeline, paginate(page)...)
	}

	pipeline = append(pipeline, joinStages(f)...)

	if f.NeedsJoin() {
		pipeline = append(pipeline, paginate(page)...)
	}

	return append(pipeline, projectView())
}

// BuildCountPipeline returns the aggregation counting every transaction that
// matches f. It only joins when the filter references users or companies.
func BuildCountPipeline(f domain.Filter) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if f.CreatedAt != nil {
		pipeline = append(pipeline, createdAtMatch(f.CreatedAt))
	}
	if f.NeedsJoin() {
		pipeline = append(pipeline, joinStages(f)...)
	}

	return append(pipeline, bson.D{{Key: "$count", Value: "total"}})
}

func createdAtMatch(day *domain.DayRange) bson.D {
	return bson.D{{Key: "$match", Value: bson.D{
		{Key: "createdAt", Value: bson.D{
			{Key: "$gte", Value: day.Start},
			{Key: "$lt", Value: day.End},
		}},
	}}}
}

func paginate(page domain.Page) []bson.D {
	return []bson.D{
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: page.Limit}},
	}
}

// joinStages looks up the user and the user's company, matching on email and
// company name as soon as each is available.
func joinStages(f domain.Filter) []bson.D {
	stages := []bson.D{
		lookup(UsersCollection, "userId", "user"),
		{{Key: "$unwind", Value: "$user"}},
	}
	if f.Email != "" {
		stages = append(stages, bson.D{{Key: "$match", Value: bson.D{{Key: "user.email", Value: f.Email}}}})
	}

	stages = append(stages,
		lookup(CompaniesCollection, "user.companyId", "company"),
		bson.D{{Key: "$unwind", Value: "$company"}},
	)
	if f.CompanyName != "" {
		stages = append(stages, bson.D{{Key: "$match", Value: bson.D{{Key: "company.name", Value: f.CompanyName}}}})
	}
	return stages
}

func lookup(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func projectView() bson.D {
	return bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 1},
		{Key: "amount", Value: 1},
		{Key: "currency", Value: 1},
		{Key: "status", Value: 1},
		{Key: "type", Value: 1},
		{Key: "description", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "updatedAt", Value: 1},
		{Key: "user", Value: bson.D{
			{Key: "_id", Value: "$user._id"},
			{Key: "email", Value: "$user.email"},
			{Key: "firstName", Value: "$user.firstName"},
			{Key: "lastName", Value: "$user.lastName"},
			{Key: "position", Value: "$user.position"},
		}},
		{Key: "company", Value: bson.D{
			{Key: "_id", Value: "$company._id"},
			{Key: "name", Value: "$company.name"},
			{Key: "industry", Value: "$company.industry"},
			{Key: "country", Value: "$company.country"},
		}},
	}}}
}
