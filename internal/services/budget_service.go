package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

const budgetOrder = "year ASC, month ASC, id ASC"

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func validateBudgetFields(month, year string, amount models.Amount) error {
	if month == "" || len(month) > 20 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: month")
	}
	if len(year) != 4 || strings.Trim(year, "0123456789") != "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: year")
	}
	if amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "budget must not be negative")
	}
	return nil
}

// UpsertBudget sets the user's budget for a month and year, creating the row
// if none exists. The stored row is re-read after the write so the returned
// timestamps are the persisted ones.
func (s *budgetService) UpsertBudget(userID uint, month, year string, amount models.Amount) (*models.Budget, bool, error) {
	month = strings.TrimSpace(month)
	if err := validateBudgetFields(month, year, amount); err != nil {
		return nil, false, err
	}

	var budget models.Budget
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Budget{}).
			Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
			Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = existing == 0

		row := &models.Budget{UserID: userID, Amount: amount, Month: month, Year: year}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"amount":     amount,
				"updated_at": time.Now(),
			}),
		}).Create(row).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
			First(&budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &budget, created, nil
}

// CreateBudget creates a budget and fails if the period is already taken.
func (s *budgetService) CreateBudget(userID uint, month, year string, amount models.Amount) (*models.Budget, error) {
	month = strings.TrimSpace(month)
	if err := validateBudgetFields(month, year, amount); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID: userID,
		Amount: amount,
		Month:  month,
		Year:   year,
	}

	if err := s.db.Create(budget).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrBudgetPeriodTaken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns every budget the user owns.
func (s *budgetService) GetUserBudgets(userID uint) ([]models.Budget, error) {
	budgets := []models.Budget{}
	if err := s.db.Where("user_id = ?", userID).Order(budgetOrder).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// ListBudgets returns a page of the user's budgets.
func (s *budgetService) ListBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order(budgetOrder).Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetLastUpdatedBudget returns the user's most recently saved budget across
// all periods.
func (s *budgetService) GetLastUpdatedBudget(userID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("updated_at DESC, id DESC").First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(userID, budgetID uint, patch BudgetPatch) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	month, year, amount := budget.Month, budget.Year, budget.Amount
	updates := make(map[string]interface{})
	if patch.Amount != nil {
		amount = *patch.Amount
		updates["amount"] = amount
	}
	if patch.Month != nil {
		month = strings.TrimSpace(*patch.Month)
		updates["month"] = month
	}
	if patch.Year != nil {
		year = *patch.Year
		updates["year"] = year
	}

	// A save with nothing to change still marks the budget as updated.
	if len(updates) == 0 {
		updates["updated_at"] = time.Now()
	}
	if err := validateBudgetFields(month, year, amount); err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrBudgetPeriodTaken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes one of the user's budgets.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}
