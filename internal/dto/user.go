package dto

import (
	"time"

	"github.com/kitir-joshi/task-manager-app/internal/models"
)

// UserProjection is the reduced view of a user embedded in task responses.
// It never carries the password or role.
type UserProjection struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

// UserDTO represents a full user in API responses, minus the password.
type UserDTO struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	Avatar    string      `json:"avatar,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToUserProjection converts a User model to its display projection
func ToUserProjection(user models.User) UserProjection {
	return UserProjection{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
