package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// RecordHandler handles record-related requests.
type RecordHandler struct {
	recordService services.RecordServicer
	userService   services.UserServicer
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService services.RecordServicer, userService services.UserServicer) *RecordHandler {
	return &RecordHandler{recordService: recordService, userService: userService}
}

// RecordFields are the user-editable columns of a record.
type RecordFields struct {
	RecordType string       `json:"recordType" binding:"required,max=100"`
	Category   string       `json:"category" binding:"required,max=50"`
	Note       string       `json:"note" binding:"required"`
	Amount     decimalInput `json:"amount" binding:"required,money" swaggertype:"string" example:"12.50"`
	Time       string       `json:"time" binding:"required,clock" example:"12:00"`
	Date       string       `json:"date" binding:"required,datetime=2006-01-02" example:"2024-01-01"`
}

// RecordPatchFields are the optional columns of a partial record update.
type RecordPatchFields struct {
	RecordType *string       `json:"recordType" binding:"omitnil,min=1,max=100"`
	Category   *string       `json:"category" binding:"omitnil,min=1,max=50"`
	Note       *string       `json:"note"`
	Amount     *decimalInput `json:"amount" binding:"omitnil,money" swaggertype:"string"`
	Time       *string       `json:"time" binding:"omitnil,clock"`
	Date       *string       `json:"date" binding:"omitnil,datetime=2006-01-02"`
}

// CreateRecordRequest represents the request payload for creating a record
type CreateRecordRequest struct {
	RecordFields
	Email string `json:"email_address" binding:"required,email_address"`
}

// ListRecordsRequest identifies whose records to list
type ListRecordsRequest struct {
	Email string `json:"email_address" binding:"required"`
}

// UpdateRecordRequest represents the request payload for updating a record
type UpdateRecordRequest struct {
	RecordPatchFields
	Email string `json:"email_address" binding:"required"`
}

// DeleteRecordRequest identifies the record to delete
type DeleteRecordRequest struct {
	ID    uint   `json:"id" binding:"required"`
	Email string `json:"email_address" binding:"required"`
}

// RecordResponse wraps a single record with an outcome message
type RecordResponse struct {
	Message string        `json:"message"`
	Record  models.Record `json:"record"`
}

// RecordListResponse wraps a user's records
type RecordListResponse struct {
	Records []models.Record `json:"records"`
}

func (f RecordFields) input() (services.RecordInput, error) {
	amount, err := f.Amount.amount()
	if err != nil {
		return services.RecordInput{}, err
	}
	clock, err := models.ParseTimeOfDay(f.Time)
	if err != nil {
		return services.RecordInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: time")
	}
	date, err := models.ParseDate(f.Date)
	if err != nil {
		return services.RecordInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: date")
	}
	return services.RecordInput{
		RecordType: f.RecordType,
		Category:   f.Category,
		Note:       f.Note,
		Amount:     amount,
		Time:       clock,
		Date:       date,
	}, nil
}

func (f RecordPatchFields) patch() (services.RecordPatch, error) {
	p := services.RecordPatch{
		RecordType: f.RecordType,
		Category:   f.Category,
		Note:       f.Note,
	}
	if f.Amount != nil {
		amount, err := f.Amount.amount()
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if f.Time != nil {
		clock, err := models.ParseTimeOfDay(*f.Time)
		if err != nil {
			return p, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: time")
		}
		p.Time = &clock
	}
	if f.Date != nil {
		date, err := models.ParseDate(*f.Date)
		if err != nil {
			return p, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: date")
		}
		p.Date = &date
	}
	return p, nil
}

// CreateRecord handles the creation of a new record
// @Summary     Create a record
// @Description Create an expense or income record. Every field is required.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecordRequest true "Record details"
// @Success     201 {object} RecordResponse "Record created"
// @Failure     400 {object} ErrorResponse "Missing or invalid field"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Email does not match token"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /records/create/ [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	logger.Get().Debugw("create record payload", "payload", req)

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	input, err := req.RecordFields.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.CreateRecord(user.ID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	logger.Get().Debugw("record created", "record", record)

	c.JSON(http.StatusCreated, RecordResponse{Message: "Record created successfully", Record: *record})
}

// ListRecords returns all of the caller's records
// @Summary     List records
// @Description List every record of the caller ordered by date and time
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ListRecordsRequest true "Owner"
// @Success     200 {object} RecordListResponse "Records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Email does not match token"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /records/list/ [post]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var req ListRecordsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	records, err := h.recordService.GetUserRecords(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecordListResponse{Records: records})
}

// UpdateRecord applies a partial update to one of the caller's records
// @Summary     Update record
// @Description Overwrite only the supplied fields of a record the caller owns
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Record ID"
// @Param       request body UpdateRecordRequest true "Fields to change"
// @Success     200 {object} RecordResponse "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input or record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Email does not match token"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /records/update/{id}/ [patch]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	patch, err := req.RecordPatchFields.patch()
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.UpdateRecord(user.ID, recordID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecordResponse{Message: "Record updated successfully", Record: *record})
}

// DeleteRecord deletes one of the caller's records
// @Summary     Delete record
// @Description Delete a record the caller owns
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DeleteRecordRequest true "Record to delete"
// @Success     200 {object} MessageResponse "Record deleted"
// @Failure     400 {object} ErrorResponse "Missing id"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Email does not match token"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /records/delete/ [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	var req DeleteRecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.DeleteRecord(user.ID, req.ID); err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("record deleted", "user_id", user.ID, "record_id", req.ID)
	c.JSON(http.StatusOK, MessageResponse{Message: "Record deleted successfully"})
}

// ListResource returns a page of the caller's records
// @Summary     List records (paginated)
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Record] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/records/ [get]
func (h *RecordHandler) ListResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid pagination parameters"))
		return
	}

	result, err := h.recordService.ListRecords(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateResource creates a record for the caller
// @Summary     Create record
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordFields true "Record details"
// @Success     201 {object} models.Record "Record created"
// @Failure     400 {object} ErrorResponse "Missing or invalid field"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/records/ [post]
func (h *RecordHandler) CreateResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordFields
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	input, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.CreateRecord(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetResource returns one of the caller's records
// @Summary     Get record by ID
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Record ID"
// @Success     200 {object} models.Record "Record"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /api/records/{id}/ [get]
func (h *RecordHandler) GetResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateResource partially updates one of the caller's records
// @Summary     Update record by ID
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Record ID"
// @Param       request body RecordPatchFields true "Fields to change"
// @Success     200 {object} models.Record "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input or record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /api/records/{id}/ [patch]
func (h *RecordHandler) UpdateResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPatchFields
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	patch, err := req.patch()
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.UpdateRecord(userID, recordID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteResource deletes one of the caller's records
// @Summary     Delete record by ID
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Record ID"
// @Success     200 {object} MessageResponse "Record deleted"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Router      /api/records/{id}/ [delete]
func (h *RecordHandler) DeleteResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.DeleteRecord(userID, recordID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Record deleted successfully"})
}
