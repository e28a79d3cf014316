package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySchema represents the database schema for the companies table.
type CompanySchema struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null;index"`
	Industry      string    `gorm:"not null"`
	Country       string    `gorm:"not null"`
	Revenue       int64     `gorm:"not null"`
	EmployeeCount int       `gorm:"not null"`
	FoundedYear   int       `gorm:"not null"`
	IsActive      bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for the CompanySchema model.
func (CompanySchema) TableName() string {
	return "companies"
}

// BeforeCreate assigns a uuid when the caller did not set one.
func (c *CompanySchema) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	Email     string         `gorm:"not null;uniqueIndex"`
	FirstName string         `gorm:"not null"`
	LastName  string         `gorm:"not null"`
	Phone     string         `gorm:"not null"`
	Position  string         `gorm:"not null"`
	Salary    int64          `gorm:"not null"`
	CompanyID string         `gorm:"type:uuid;not null;index"`
	Company   *CompanySchema `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns a uuid when the caller did not set one.
func (u *UserSchema) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TransactionSchema represents the database schema for the transactions table.
type TransactionSchema struct {
	ID          string      `gorm:"type:uuid;primaryKey"`
	Amount      float64     `gorm:"type:decimal(12,2);not null"`
	Currency    string      `gorm:"type:varchar(3);not null"`
	Status      string      `gorm:"type:varchar(16);not null"`
	Type        string      `gorm:"type:varchar(16);not null"`
	Description string      `gorm:"not null"`
	UserID      string      `gorm:"type:uuid;not null;index"`
	User        *UserSchema `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `gorm:"not null;index"`
	UpdatedAt   time.Time   `gorm:"not null"`
}

// TableName specifies the table name for the TransactionSchema model.
func (TransactionSchema) TableName() string {
	return "transactions"
}

// BeforeCreate assigns a uuid when the caller did not set one.
func (t *TransactionSchema) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Models lists the schemas in dependency order, for AutoMigrate.
func Models() []any {
	return []any{&CompanySchema{}, &UserSchema{}, &TransactionSchema{}}
}
