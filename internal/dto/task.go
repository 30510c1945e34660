package dto

import (
	"time"

	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/utils"
)

// CommentDTO represents a task comment with its author resolved
type CommentDTO struct {
	ID        string         `json:"id"`
	Author    UserProjection `json:"author"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
}

// TaskDTO represents a task in API responses. IsOverdue and Progress are
// derived fields, never stored.
type TaskDTO struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	AssignedTo     *UserProjection     `json:"assignedTo,omitempty"`
	CreatedBy      *UserProjection     `json:"createdBy,omitempty"`
	DueDate        *time.Time          `json:"dueDate"`
	Tags           []string            `json:"tags"`
	Attachments    []string            `json:"attachments"`
	EstimatedHours *float64            `json:"estimatedHours,omitempty"`
	ActualHours    *float64            `json:"actualHours,omitempty"`
	Comments       []CommentDTO        `json:"comments"`
	IsOverdue      bool                `json:"isOverdue"`
	Progress       int                 `json:"progress"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		Tags:           task.Tags,
		Attachments:    task.Attachments,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		IsOverdue:      task.IsOverdue(),
		Progress:       task.Progress(),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if dto.Attachments == nil {
		dto.Attachments = []string{}
	}

	// Include related users if preloaded
	if task.AssignedTo.ID != "" {
		assignee := ToUserProjection(task.AssignedTo)
		dto.AssignedTo = &assignee
	}
	if task.CreatedBy.ID != "" {
		creator := ToUserProjection(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	dto.Comments = make([]CommentDTO, len(task.Comments))
	for i, comment := range task.Comments {
		dto.Comments[i] = CommentDTO{
			ID:        comment.ID,
			Author:    ToUserProjection(comment.Author),
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: utils.TotalPages(total, params.Limit),
		},
	}
}
