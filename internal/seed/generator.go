package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	domain "transactions-compare/internal/domain/transaction"
)

var (
	industries = []string{
		"Technology", "Finance", "Healthcare", "Retail", "Manufacturing",
		"Education", "Real Estate", "Energy", "Transportation", "Media",
	}
	countries = []string{
		"USA", "UK", "Germany", "France", "Japan", "China", "Canada",
		"Australia", "Netherlands", "Switzerland", "Singapore", "India",
	}
	firstNames = []string{
		"John", "Jane", "Michael", "Emily", "David", "Sarah", "Robert", "Lisa",
		"William", "Jennifer", "James", "Mary", "Christopher", "Patricia", "Daniel",
		"Linda", "Matthew", "Barbara", "Anthony", "Susan", "Mark", "Jessica", "Donald",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
		"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Thompson", "White",
	}
	positions = []string{
		"Software Engineer", "Product Manager", "Data Analyst", "Sales Manager",
		"Marketing Specialist", "HR Manager", "Financial Analyst", "Designer",
		"DevOps Engineer", "Customer Support", "Business Analyst", "QA Engineer",
	}
	currencies = []string{"USD", "EUR", "GBP", "JPY", "CNY", "CAD"}
)

// Transactions are spread over [CreatedFrom, CreatedUntil).
var (
	CreatedFrom  = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	CreatedUntil = time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
)

// Generator produces a deterministic dataset. Two generators created with the
// same seed and called in the same order yield identical values.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func pick[T any](g *Generator, s []T) T {
	return s[g.rng.IntN(len(s))]
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int64) int64 {
	return lo + g.rng.Int64N(hi-lo+1)
}

// Companies generates n companies.
func (g *Generator) Companies(n int) []domain.Company {
	out := make([]domain.Company, n)
	for i := range out {
		out[i] = domain.Company{
			Name:          fmt.Sprintf("Company %d %s", i+1, pick(g, industries)),
			Industry:      pick(g, industries),
			Country:       pick(g, countries),
			Revenue:       g.between(100_000, 100_000_000),
			EmployeeCount: int(g.between(10, 10_000)),
			FoundedYear:   int(g.between(1950, 2023)),
			IsActive:      g.rng.Float64() > 0.1,
		}
	}
	return out
}

// Users generates n users, each assigned to one of companyIDs.
func (g *Generator) Users(n int, companyIDs []string) []domain.User {
	out := make([]domain.User, n)
	for i := range out {
		first := pick(g, firstNames)
		last := pick(g, lastNames)
		out[i] = domain.User{
			Email:     fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			FirstName: first,
			LastName:  last,
			Phone:     fmt.Sprintf("+1%d", g.between(1_000_000_000, 9_999_999_999)),
			Position:  pick(g, positions),
			Salary:    g.between(30_000, 200_000),
			CompanyID: pick(g, companyIDs),
		}
	}
	return out
}

// Transactions generates n transactions numbered from offset+1, each owned by
// one of userIDs. Timestamps are truncated to milliseconds so both stores keep
// them exactly.
func (g *Generator) Transactions(offset, n int, userIDs []string) []domain.Transaction {
	span := CreatedUntil.Sub(CreatedFrom).Milliseconds()
	out := make([]domain.Transaction, n)
	for i := range out {
		created := CreatedFrom.Add(time.Duration(g.rng.Int64N(span)) * time.Millisecond)
		out[i] = domain.Transaction{
			Amount:      math.Round(g.rng.Float64()*10_000*100) / 100,
			Currency:    pick(g, currencies),
			Status:      pick(g, domain.Statuses),
			Type:        pick(g, domain.Types),
			Description: fmt.Sprintf("Transaction %d - %s", offset+i+1, pick(g, domain.Types)),
			UserID:      pick(g, userIDs),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}
	return out
}
