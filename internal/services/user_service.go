package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/repository"
)

var (
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrInvalidRole   = errors.New("role must be user or admin")
)

// UserService handles profile and administrative user operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all users. Admin gating happens at the route.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetProfile returns the user's own record.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds optional profile fields.
type UpdateProfileInput struct {
	Username *string
	Email    *string
	Avatar   *string
}

// UpdateProfile applies profile changes, rejecting username/email values
// already held by another user. The conflict error names the field.
func (s *UserService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	var username, email string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if username != "" || email != "" {
		existing, err := s.userRepo.FindConflicting(username, email, userID)
		if err == nil {
			if username != "" && existing.Username == username {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword rotates the password after re-verifying the current one.
func (s *UserService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// UpdateRole changes another user's role. Admin gating happens at the route.
func (s *UserService) UpdateRole(targetID string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.GetProfile(targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return user, nil
}

// UpdateStatus activates or deactivates another user's account.
func (s *UserService) UpdateStatus(targetID string, isActive bool) (*models.User, error) {
	user, err := s.GetProfile(targetID)
	if err != nil {
		return nil, err
	}

	user.IsActive = isActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return user, nil
}
