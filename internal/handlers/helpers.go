package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/services"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// bindJSON decodes and validates the request body, reporting the first
// offending field by its JSON name.
func bindJSON(c *gin.Context, req interface{}) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "missing required field: "+fe.Field())
		}
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid value for field: "+fe.Field())
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid request body")
}

// resolveActor loads the user a request acts for. The email in the body
// must match the one the access token was issued to.
func resolveActor(c *gin.Context, users services.UserServicer, email string) (*models.User, error) {
	if models.NormalizeEmail(email) != models.NormalizeEmail(c.GetString("email")) {
		return nil, apperrors.ErrForbidden
	}
	return users.GetUserByEmail(email)
}

// resolveActorWithPassword is resolveActor plus a password check.
func resolveActorWithPassword(c *gin.Context, users services.UserServicer, email, password string) (*models.User, error) {
	user, err := resolveActor(c, users, email)
	if err != nil {
		return nil, err
	}
	if !users.VerifyPassword(user, password) {
		return nil, apperrors.ErrIncorrectPassword
	}
	return user, nil
}

// decimalInput accepts an amount sent either as a JSON number or a string.
type decimalInput string

// UnmarshalJSON implements json.Unmarshaler.
func (d *decimalInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = decimalInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = decimalInput(n.String())
	return nil
}

func (d decimalInput) amount() (models.Amount, error) {
	a, err := models.ParseAmount(string(d))
	if err != nil {
		return models.Amount{}, apperrors.ErrInvalidAmount
	}
	return a, nil
}

// respondWithError writes the standard error body for err.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
