package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/services"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email_address" binding:"required,email_address,max=254"`
	Password string `json:"password" binding:"required,max=128"`
	Username string `json:"username" binding:"max=150"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email_address" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to exchange
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ChangePasswordRequest represents the change-password payload
type ChangePasswordRequest struct {
	Email       string `json:"email_address" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,max=128"`
}

// ChangeUsernameRequest represents the change-username payload
type ChangeUsernameRequest struct {
	Email       string `json:"email_address" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NewUsername string `json:"newUsername" binding:"required,max=150"`
}

// UserResponse is the non-secret view of a user
type UserResponse struct {
	Email    string `json:"email_address"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// TokenPairResponse is returned by login, token and refresh endpoints
type TokenPairResponse struct {
	Refresh string        `json:"refresh"`
	Access  string        `json:"access"`
	User    *UserResponse `json:"user,omitempty"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		Email:    user.Email,
		Username: user.Username,
		IsActive: user.IsActive,
		IsStaff:  user.IsStaff,
	}
}

// issueTokens generates an access/refresh pair and records the refresh hash,
// which invalidates any refresh token issued earlier.
func (h *AuthHandler) issueTokens(user *models.User) (*TokenPairResponse, error) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		return nil, err
	}
	return &TokenPairResponse{Refresh: refreshToken, Access: accessToken}, nil
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create an account from an email address and password. No tokens are issued.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} RegisterResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("user registered", "user_id", user.ID)

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		User:    newUserResponse(user),
	})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate with email address and password and receive a token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} TokenPairResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	view := newUserResponse(user)
	tokens.User = &view

	c.JSON(http.StatusOK, tokens)
}

// ObtainToken issues a token pair for valid credentials
// @Summary     Obtain token pair
// @Description Same contract as login, for token-only clients
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User credentials"
// @Success     200 {object} TokenPairResponse "Token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /api/token/ [post]
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	h.Login(c)
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary     Refresh tokens
// @Description Exchange the current refresh token for a new access/refresh pair. The old refresh token stops working.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} TokenPairResponse "New token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid, expired or revoked refresh token"
// @Router      /api/token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.Refresh)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash == "" ||
		subtle.ConstantTimeCompare([]byte(storedHash), []byte(middleware.HashToken(req.Refresh))) != 1 {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil || !user.IsActive {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/profile/ [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// ChangePassword replaces the caller's password
// @Summary     Change password
// @Description Replace the password after confirming the current one. Outstanding refresh tokens are revoked.
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Current and new password"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Incorrect password or email mismatch"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/change-password/ [patch]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.userService.ChangePassword(user, req.Password, req.NewPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("password changed", "user_id", updated.ID)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(updated)})
}

// ChangeUsername replaces the caller's display name
// @Summary     Change username
// @Description Replace the display name after confirming the password
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangeUsernameRequest true "Password and new username"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Incorrect password or email mismatch"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/change-username/ [patch]
func (h *AuthHandler) ChangeUsername(c *gin.Context) {
	var req ChangeUsernameRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := resolveActor(c, h.userService, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.userService.ChangeUsername(user, req.Password, req.NewUsername)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(updated)})
}
