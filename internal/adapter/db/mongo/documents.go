package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names
const (
	CompaniesCollection    = "companies"
	UsersCollection        = "users"
	TransactionsCollection = "transactions"
)

// CompanyDoc is a document in the companies collection.
type CompanyDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Name          string             `bson:"name"`
	Industry      string             `bson:"industry"`
	Country       string             `bson:"country"`
	Revenue       int64              `bson:"revenue"`
	EmployeeCount int                `bson:"employeeCount"`
	FoundedYear   int                `bson:"foundedYear"`
	IsActive      bool               `bson:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// UserDoc is a document in the users collection.
type UserDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Phone     string             `bson:"phone"`
	Position  string             `bson:"position"`
	Salary    int64              `bson:"salary"`
	CompanyID primitive.ObjectID `bson:"companyId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// TransactionDoc is a document in the transactions collection.
type TransactionDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Amount      float64            `bson:"amount"`
	Currency    string             `bson:"currency"`
	Status      string             `bson:"status"`
	Type        string             `bson:"type"`
	Description string             `bson:"description"`
	UserID      primitive.ObjectID `bson:"userId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// transactionView is the shape produced by the listing pipeline's $project stage.
type transactionView struct {
	ID          primitive.ObjectID `bson:"_id"`
	Amount      float64            `bson:"amount"`
	Currency    string             `bson:"currency"`
	Status      string             `bson:"status"`
	Type        string             `bson:"type"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	User        struct {
		ID        primitive.ObjectID `bson:"_id"`
		Email     string             `bson:"email"`
		FirstName string             `bson:"firstName"`
		LastName  string             `bson:"lastName"`
		Position  string             `bson:"position"`
	} `bson:"user"`
	Company struct {
		ID       primitive.ObjectID `bson:"_id"`
		Name     string             `bson:"name"`
		Industry string             `bson:"industry"`
		Country  string             `bson:"country"`
	} `bson:"company"`
}
