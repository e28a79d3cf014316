package transaction

import "time"

// Status of a transaction
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Type of a transaction
type Type string

const (
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeTransfer   Type = "transfer"
)

// Statuses lists every valid Status
var Statuses = []Status{StatusPending, StatusCompleted, StatusFailed}

// Types lists every valid Type
var Types = []Type{TypeDeposit, TypeWithdrawal, TypeTransfer}

// Company is the root entity; it owns zero or more users.
type Company struct {
	ID            string
	Name          string
	Industry      string
	Country       string
	Revenue       int64
	EmployeeCount int
	FoundedYear   int
	IsActive      bool
}

// User belongs to exactly one company.
type User struct {
	ID        string
	Email     string // unique
	FirstName string
	LastName  string
	Phone     string
	Position  string
	Salary    int64
	CompanyID string
}

// Transaction belongs to exactly one user.
type Transaction struct {
	ID          string
	Amount      float64
	Currency    string
	Status      Status
	Type        Type
	Description string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserSummary is the user projection returned with a transaction
type UserSummary struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Position  string
}

// CompanySummary is the company projection returned with a transaction
type CompanySummary struct {
	ID       string
	Name     string
	Industry string
	Country  string
}

// View is a transaction joined with its user and the user's company.
// Both backends produce exactly this shape.
type View struct {
	ID          string
	Amount      float64
	Currency    string
	Status      Status
	Type        Type
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	User        UserSummary
	Company     CompanySummary
}
