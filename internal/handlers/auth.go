package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitir-joshi/task-manager-app/internal/dto"
	apierrors "github.com/kitir-joshi/task-manager-app/internal/errors"
	"github.com/kitir-joshi/task-manager-app/internal/middleware"
	"github.com/kitir-joshi/task-manager-app/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user and returns a bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required,min=3,max=30"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  dto.ToUserDTO(*user),
	})
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  dto.ToUserDTO(*user),
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "username", "Username already taken")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "email", "Email already registered")
	case errors.Is(err, services.ErrWeakPassword):
		apierrors.ValidationFailed(c, []apierrors.FieldError{
			{Field: "password", Reason: err.Error()},
		})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDisabled):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		logInternalError(c, err)
		apierrors.InternalError(c, "")
	}
}
