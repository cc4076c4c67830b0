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

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	userService   services.UserServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, userService services.UserServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, userService: userService}
}

// BudgetFields are the user-editable columns of a budget.
type BudgetFields struct {
	Budget decimalInput `json:"budget" binding:"required,money" swaggertype:"string" example:"100.00"`
	Month  string       `json:"month" binding:"required,max=20" example:"January"`
	Year   string       `json:"year" binding:"required,year" example:"2024"`
}

// BudgetPatchFields are the optional columns of a partial budget update.
type BudgetPatchFields struct {
	Budget *decimalInput `json:"budget" binding:"omitnil,money" swaggertype:"string"`
	Month  *string       `json:"month" binding:"omitnil,min=1,max=20"`
	Year   *string       `json:"year" binding:"omitnil,year"`
}

// CreateBudgetRequest represents the request payload for setting a budget
type CreateBudgetRequest struct {
	Email string `json:"email_address" binding:"required"`
	BudgetFields
}

// ListBudgetsRequest carries the credentials required to list budgets
type ListBudgetsRequest struct {
	Email    string `json:"email_address" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateBudgetRequest represents the request payload for updating a budget
type UpdateBudgetRequest struct {
	Email    string `json:"email_address" binding:"required"`
	Password string `json:"password" binding:"required"`
	BudgetPatchFields
}

// DeleteBudgetRequest identifies the budget to delete
type DeleteBudgetRequest struct {
	ID       uint   `json:"id" binding:"required"`
	Email    string `json:"email_address" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpsertBudgetResponse reports the stored budget and whether it was new
type UpsertBudgetResponse struct {
	Budget  models.Budget `json:"budget"`
	Created bool          `json:"created"`
}

// BudgetResponse wraps a single budget
type BudgetResponse struct {
	Budget models.Budget `json:"budget"`
}

// BudgetListResponse wraps a user's budgets
type BudgetListResponse struct {
	Budgets []models.Budget `json:"budgets"`
}

func (f BudgetPatchFields) patch() (services.BudgetPatch, error) {
	p := services.BudgetPatch{Month: f.Month, Year: f.Year}
	if f.Budget != nil {
		amount, err := f.Budget.amount()
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	return p, nil
}

// CreateBudget creates or replaces the caller's budget for a month
// @Summary     Set budget
// @Description Create the budget for a month and year, or overwrite its amount if one exists
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     200 {object} UpsertBudgetResponse "Stored budget"
// @Failure     400 {object} ErrorResponse "Missing or invalid field"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Email does not match token"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/create/ [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	amount, err := req.Budget.amount()
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, created, err := h.budgetService.UpsertBudget(user.ID, req.Month, req.Year, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	logger.Get().Debugw("budget saved", "budget_id", budget.ID, "created", created)

	c.JSON(http.StatusOK, UpsertBudgetResponse{Budget: *budget, Created: created})
}

// LastBudgetUpdate returns the caller's most recently saved budget
// @Summary     Last budget update
// @Description Return the budget with the latest update time across all periods
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       email_address query string true "Owner email address"
// @Success     200 {object} BudgetResponse "Latest budget"
// @Failure     400 {object} ErrorResponse "Missing email_address"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Email does not match token"
// @Failure     404 {object} ErrorResponse "No budget found"
// @Router      /budgets/last-update/ [get]
func (h *BudgetHandler) LastBudgetUpdate(c *gin.Context) {
	email := c.Query("email_address")
	if email == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "missing required field: email_address"))
		return
	}

	user, err := resolveActor(c, h.userService, email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetLastUpdatedBudget(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Budget: *budget})
}

// ListBudgets returns all of the caller's budgets
// @Summary     List budgets
// @Description List every budget of the caller after confirming the password
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ListBudgetsRequest true "Credentials"
// @Success     200 {object} BudgetListResponse "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Incorrect password or email mismatch"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /budgets/ [post]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	var req ListBudgetsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActorWithPassword(c, h.userService, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetUserBudgets(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetListResponse{Budgets: budgets})
}

// UpdateBudget changes one of the caller's budgets
// @Summary     Update budget
// @Description Change the amount or period of a budget after confirming the password
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to change"
// @Success     200 {object} BudgetResponse "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Incorrect password or email mismatch"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Period already has a budget"
// @Router      /budgets/update/{id}/ [patch]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActorWithPassword(c, h.userService, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	patch, err := req.BudgetPatchFields.patch()
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(user.ID, budgetID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Budget: *budget})
}

// DeleteBudget deletes one of the caller's budgets
// @Summary     Delete budget
// @Description Delete a budget the caller owns after confirming the password
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DeleteBudgetRequest true "Budget to delete"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Incorrect password or email mismatch"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/delete/ [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	var req DeleteBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActorWithPassword(c, h.userService, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(user.ID, req.ID); err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("budget deleted", "user_id", user.ID, "budget_id", req.ID)
	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}

// ListResource returns a page of the caller's budgets
// @Summary     List budgets (paginated)
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/budgets/ [get]
func (h *BudgetHandler) ListResource(c *gin.Context) {
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

	result, err := h.budgetService.ListBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateResource creates a budget for a period that has none
// @Summary     Create budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetFields true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Missing or invalid field"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Period already has a budget"
// @Router      /api/budgets/ [post]
func (h *BudgetHandler) CreateResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetFields
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	amount, err := req.Budget.amount()
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, req.Month, req.Year, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// GetResource returns one of the caller's budgets
// @Summary     Get budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.Budget "Budget"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /api/budgets/{id}/ [get]
func (h *BudgetHandler) GetResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// UpdateResource partially updates one of the caller's budgets
// @Summary     Update budget by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Budget ID"
// @Param       request body BudgetPatchFields true "Fields to change"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Period already has a budget"
// @Router      /api/budgets/{id}/ [patch]
func (h *BudgetHandler) UpdateResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetPatchFields
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	patch, err := req.patch()
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// DeleteResource deletes one of the caller's budgets
// @Summary     Delete budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /api/budgets/{id}/ [delete]
func (h *BudgetHandler) DeleteResource(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}
