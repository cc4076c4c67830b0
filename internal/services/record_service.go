package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// recordOrder lists records chronologically, with insertion order breaking ties.
const recordOrder = `"date" ASC, "time" ASC, id ASC`

// recordService handles record-related business logic.
type recordService struct {
	db *gorm.DB
}

// NewRecordService creates a new RecordServicer.
func NewRecordService(db *gorm.DB) RecordServicer {
	return &recordService{db: db}
}

// CreateRecord stores a new record owned by the user.
func (s *recordService) CreateRecord(userID uint, input RecordInput) (*models.Record, error) {
	if input.RecordType == "" || input.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recordType and category are required")
	}

	record := &models.Record{
		UserID:     userID,
		RecordType: input.RecordType,
		Category:   input.Category,
		Note:       input.Note,
		Amount:     input.Amount,
		Time:       input.Time,
		Date:       input.Date,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return record, nil
}

// GetUserRecords returns every record the user owns.
func (s *recordService) GetUserRecords(userID uint) ([]models.Record, error) {
	records := []models.Record{}
	if err := s.db.Where("user_id = ?", userID).Order(recordOrder).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// ListRecords returns a page of the user's records.
func (s *recordService) ListRecords(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Record], error) {
	page.Defaults()

	base := s.db.Model(&models.Record{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.Record
	if err := base.Order(recordOrder).Scopes(pagination.Paginate(page)).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page, totalItems)
	return &result, nil
}

// GetRecordByID returns a record if it belongs to the user.
func (s *recordService) GetRecordByID(userID, recordID uint) (*models.Record, error) {
	var record models.Record
	if err := s.db.Where("id = ? AND user_id = ?", recordID, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// UpdateRecord applies the supplied fields to one of the user's records.
// An empty patch leaves the row untouched.
func (s *recordService) UpdateRecord(userID, recordID uint, patch RecordPatch) (*models.Record, error) {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.RecordType != nil {
		if *patch.RecordType == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: recordType")
		}
		updates["record_type"] = *patch.RecordType
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: category")
		}
		updates["category"] = *patch.Category
	}
	if patch.Note != nil {
		updates["note"] = *patch.Note
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Time != nil {
		updates["time"] = *patch.Time
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}

	if len(updates) == 0 {
		return record, nil
	}

	if err := s.db.Model(record).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetRecordByID(userID, recordID)
}

// DeleteRecord removes one of the user's records.
func (s *recordService) DeleteRecord(userID, recordID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", recordID, userID).Delete(&models.Record{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}
