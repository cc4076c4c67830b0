package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"spendwise/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Username: models.DefaultUsername(email),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRecord creates a 12.50 food expense on 2024-01-01 at 12:00.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID uint) *models.Record {
	t.Helper()

	date, _ := models.ParseDate("2024-01-01")
	record := &models.Record{
		UserID:     userID,
		RecordType: "expense",
		Category:   "food",
		Note:       fmt.Sprintf("Test note %d", nextID()),
		Amount:     models.MustAmount("12.50"),
		Time:       models.TimeOfDay{Hour: 12},
		Date:       date,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}

// CreateTestBudget creates a budget of 100.00 for the given month and year.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, month, year string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Amount: models.MustAmount("100.00"),
		Month:  month,
		Year:   year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
