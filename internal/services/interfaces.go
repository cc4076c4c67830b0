package services

import (
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	ChangePassword(user *models.User, currentPassword, newPassword string) (*models.User, error)
	ChangeUsername(user *models.User, currentPassword, newUsername string) (*models.User, error)
}

// RecordInput carries the fields of a new record.
type RecordInput struct {
	RecordType string
	Category   string
	Note       string
	Amount     models.Amount
	Time       models.TimeOfDay
	Date       models.Date
}

// RecordPatch carries the fields of a partial record update; nil fields are
// left untouched.
type RecordPatch struct {
	RecordType *string
	Category   *string
	Note       *string
	Amount     *models.Amount
	Time       *models.TimeOfDay
	Date       *models.Date
}

// RecordServicer defines the contract for record-related business logic.
type RecordServicer interface {
	CreateRecord(userID uint, input RecordInput) (*models.Record, error)
	GetUserRecords(userID uint) ([]models.Record, error)
	ListRecords(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Record], error)
	GetRecordByID(userID, recordID uint) (*models.Record, error)
	UpdateRecord(userID, recordID uint, patch RecordPatch) (*models.Record, error)
	DeleteRecord(userID, recordID uint) error
}

// BudgetPatch carries the fields of a partial budget update.
type BudgetPatch struct {
	Amount *models.Amount
	Month  *string
	Year   *string
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	UpsertBudget(userID uint, month, year string, amount models.Amount) (budget *models.Budget, created bool, err error)
	CreateBudget(userID uint, month, year string, amount models.Amount) (*models.Budget, error)
	GetUserBudgets(userID uint) ([]models.Budget, error)
	ListBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	GetLastUpdatedBudget(userID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, patch BudgetPatch) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}
