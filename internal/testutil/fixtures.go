package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"obralink/internal/models"
	"obralink/internal/uuid"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewOrgID returns a fresh organization ID for scoping a test's data.
func NewOrgID() string {
	return uuid.New()
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, orgID string) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, orgID, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, orgID, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		OrgID:       orgID,
		Email:       email,
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Test User %d", nextID()),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates an expense budget in pesos with the given amount.
func CreateTestBudget(t *testing.T, db *gorm.DB, orgID string, amount decimal.Decimal) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		OrgID:           orgID,
		ProjectID:       uuid.New(),
		Kind:            models.BudgetKindExpense,
		Amount:          amount,
		Currency:        models.CurrencyARS,
		IndexationMode:  models.IndexationNone,
		ComparisonBasis: models.BasisGross,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestHistoryEntry appends a history entry to the given budget.
func CreateTestHistoryEntry(t *testing.T, db *gorm.DB, budgetID string, kind models.HistoryKind, at time.Time, newAmount decimal.Decimal) *models.HistoryEntry {
	t.Helper()

	entry := &models.HistoryEntry{
		BudgetID:    budgetID,
		Timestamp:   models.Timestamp{Time: at},
		Kind:        kind,
		NewAmount:   newAmount,
		NewCurrency: models.CurrencyARS,
		Reason:      fmt.Sprintf("Test entry %d", nextID()),
		Author:      "Tester",
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test history entry: %v", err)
	}
	return entry
}

// CreateTestMovement attributes a cash movement to the given budget. The net
// amount is set below the gross amount so basis-dependent projections differ.
func CreateTestMovement(t *testing.T, db *gorm.DB, orgID, budgetID string, gross, net decimal.Decimal) *models.CashMovement {
	t.Helper()

	movement := &models.CashMovement{
		OrgID:       orgID,
		BudgetID:    budgetID,
		Kind:        models.BudgetKindExpense,
		GrossAmount: gross,
		NetAmount:   net,
		Currency:    models.CurrencyARS,
		Date:        time.Now(),
		Description: fmt.Sprintf("Test movement %d", nextID()),
	}
	if err := db.Create(movement).Error; err != nil {
		t.Fatalf("failed to create test movement: %v", err)
	}
	return movement
}
