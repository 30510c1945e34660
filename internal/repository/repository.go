package repository

import (
	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID without relations
	FindByID(id string) (*models.Task, error)

	// FindDetailed finds a task with assignee, creator and ordered comments resolved
	FindDetailed(id string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete hard-removes the task and its comments
	Delete(id string) error

	// AddComment appends a comment to a task
	AddComment(comment *models.Comment) error

	// Stats computes aggregate counters, optionally scoped to tasks where the
	// given user is assignee or creator
	Stats(scopeUserID *string) (*TaskStats, error)
}

// TaskFilter holds filtering options for listing tasks.
// All set filters combine with AND; Search additionally matches title,
// description or tags (OR, case-insensitive substring).
type TaskFilter struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedToID   *string
	Search         string
	InvolvedUserID *string

	utils.PaginationParams
}

// TaskStats holds aggregate task counters. Categories with no tasks are
// absent from the maps; consumers treat missing keys as zero.
type TaskStats struct {
	Total      int64
	Completed  int64
	Overdue    int64
	ByStatus   map[models.TaskStatus]int64
	ByPriority map[models.TaskPriority]int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindConflicting finds another user holding the given username or email,
	// excluding the user being updated
	FindConflicting(username, email, excludeID string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error
}
