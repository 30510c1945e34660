package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitir-joshi/task-manager-app/internal/dto"
	apierrors "github.com/kitir-joshi/task-manager-app/internal/errors"
	"github.com/kitir-joshi/task-manager-app/internal/middleware"
	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/services"
)

// UserHandler coordinates user-related HTTP handlers.
type UserHandler struct {
	userService *services.UserService
	taskService *services.TaskService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, taskService *services.TaskService) *UserHandler {
	return &UserHandler{
		userService: userService,
		taskService: taskService,
	}
}

// ListUsers returns all users. Admin only (gated at the route).
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		logInternalError(c, err)
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProfileRequest struct {
		Username *string `json:"username" binding:"omitempty,min=3,max=30"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Avatar   *string `json:"avatar" binding:"omitempty,url"`
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// ChangePassword rotates the authenticated user's password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetStats returns statistics scoped to the authenticated user
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.taskService.StatsForUser(userID)
	if err != nil {
		logInternalError(c, err)
		apierrors.InternalError(c, "Failed to fetch user statistics")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserStatsDTO(*stats))
}

// GetTasks returns tasks where the authenticated user is assignee or creator
func (h *UserHandler) GetTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input, ok := parseListInput(c)
	if !ok {
		return
	}
	input.InvolvedUserID = &userID

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		logInternalError(c, err)
		apierrors.InternalError(c, "Failed to fetch user tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Pagination, total))
}

// UpdateRole changes another user's role. Admin only (gated at the route).
func (h *UserHandler) UpdateRole(c *gin.Context) {
	type UpdateRoleRequest struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}

	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Param("userId"), models.Role(req.Role))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// UpdateStatus activates or deactivates a user. Admin only (gated at the route).
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateStatus(c.Param("userId"), *req.IsActive)
	if err != nil {
		respondUserError(c, err)
		return
	}

	action := "deactivated"
	if *req.IsActive {
		action = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User %s successfully", action),
		"user":    dto.ToUserDTO(*user),
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "username", "Username already taken")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "email", "Email already registered")
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.BadRequest(c, "Current password is incorrect")
	case errors.Is(err, services.ErrWeakPassword):
		apierrors.ValidationFailed(c, []apierrors.FieldError{
			{Field: "newPassword", Reason: err.Error()},
		})
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.ValidationFailed(c, []apierrors.FieldError{
			{Field: "role", Reason: "must be one of: user admin"},
		})
	default:
		logInternalError(c, err)
		apierrors.InternalError(c, "")
	}
}
