package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/kitir-joshi/task-manager-app/internal/authz"
	"github.com/kitir-joshi/task-manager-app/internal/constants"
	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/repository"
	"github.com/kitir-joshi/task-manager-app/internal/utils"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskForbidden     = errors.New("not authorized to modify this task")
	ErrAssigneeNotFound  = errors.New("assigned user not found")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrTitleTooLong      = errors.New("title must be at most 200 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 2000 characters")
	ErrNegativeHours     = errors.New("hours must be zero or positive")
	ErrInvalidDueDate    = errors.New("due date must be an ISO 8601 timestamp")
)

// TaskService orchestrates validated, authorized task mutations.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedToID   *string
	Search         string
	InvolvedUserID *string
	Pagination     utils.PaginationParams
}

// ListTasks returns the matching page of tasks and the total count
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:           input.Status,
		Priority:         input.Priority,
		AssignedToID:     input.AssignedToID,
		Search:           input.Search,
		InvolvedUserID:   input.InvolvedUserID,
		PaginationParams: input.Pagination,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task with related users and comments resolved
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindDetailed(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	AssignedToID   string
	DueDate        string
	Tags           []string
	EstimatedHours *float64
	CreatorID      string
}

// CreateTask creates a task after verifying the assignee exists. Status and
// priority default to todo/medium when omitted; the creator comes from the
// authenticated identity, never the request body.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	if err := validateTaskFields(input.Title, input.Description, input.Status, input.Priority, input.EstimatedHours, nil); err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAssigneeExists(input.AssignedToID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Priority:       input.Priority,
		AssignedToID:   input.AssignedToID,
		CreatedByID:    input.CreatorID,
		DueDate:        dueDate,
		Tags:           input.Tags,
		EstimatedHours: input.EstimatedHours,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindDetailed(task.ID)
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedToID   *string
	DueDate        *string
	Tags           *[]string
	Attachments    *[]string
	EstimatedHours *float64
	ActualHours    *float64
}

// UpdateTask applies a partial update after the authorization gate approves.
// A changed assignee is re-verified against the user store.
func (s *TaskService) UpdateTask(taskID string, actor *models.User, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanModifyTask(actor, task) {
		return nil, ErrTaskForbidden
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssignedToID != nil {
		if err := s.ensureAssigneeExists(*input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = *input.AssignedToID
	}
	if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = input.ActualHours
	}

	if err := validateTaskFields(task.Title, task.Description, task.Status, task.Priority, task.EstimatedHours, task.ActualHours); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindDetailed(task.ID)
}

// DeleteTask hard-removes a task and its comments after the gate approves.
func (s *TaskService) DeleteTask(taskID string, actor *models.User) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanModifyTask(actor, task) {
		return ErrTaskForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AddComment appends a comment authored by the acting user and returns the
// task with all comment authors resolved. Comments are append-only.
func (s *TaskService) AddComment(taskID, authorID, text string) (*models.Task, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.Comment{
		TaskID:    taskID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.taskRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.taskRepo.FindDetailed(taskID)
}

// OverviewStats returns global task counters.
func (s *TaskService) OverviewStats() (*repository.TaskStats, error) {
	stats, err := s.taskRepo.Stats(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// UserStats holds counters restricted to tasks the user is involved in.
type UserStats struct {
	repository.TaskStats
	CompletionRate float64
}

// StatsForUser returns counters for tasks where the user is assignee or creator.
func (s *TaskService) StatsForUser(userID string) (*UserStats, error) {
	stats, err := s.taskRepo.Stats(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}

	out := &UserStats{TaskStats: *stats}
	if stats.Total > 0 {
		out.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return out, nil
}

func (s *TaskService) ensureAssigneeExists(userID string) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}

func validateTaskFields(title, description string, status models.TaskStatus, priority models.TaskPriority, estimated, actual *float64) error {
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(description) > constants.MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	if estimated != nil && *estimated < 0 {
		return ErrNegativeHours
	}
	if actual != nil && *actual < 0 {
		return ErrNegativeHours
	}
	return nil
}

// parseDueDate coerces a due date string into a time value. An empty string
// clears the due date.
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Date-only form is accepted as well.
		parsed, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
	}
	return &parsed, nil
}
