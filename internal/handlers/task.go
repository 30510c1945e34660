package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitir-joshi/task-manager-app/internal/dto"
	apierrors "github.com/kitir-joshi/task-manager-app/internal/errors"
	"github.com/kitir-joshi/task-manager-app/internal/middleware"
	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/services"
	"github.com/kitir-joshi/task-manager-app/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a filtered, paginated task page.
// Query parameters: page, limit, status, priority, assignedTo, search.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input, ok := parseListInput(c)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		logInternalError(c, err)
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Pagination, total))
}

// GetTask returns a single task by id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task owned by the authenticated user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title          string   `json:"title" binding:"required,max=200"`
		Description    string   `json:"description" binding:"required,max=2000"`
		Status         string   `json:"status" binding:"omitempty,oneof=todo in-progress review completed"`
		Priority       string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
		AssignedTo     string   `json:"assignedTo" binding:"required"`
		DueDate        string   `json:"dueDate" binding:"omitempty"`
		Tags           []string `json:"tags"`
		EstimatedHours *float64 `json:"estimatedHours" binding:"omitempty,gte=0"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.TaskStatus(req.Status),
		Priority:       models.TaskPriority(req.Priority),
		AssignedToID:   req.AssignedTo,
		DueDate:        req.DueDate,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		CreatorID:      userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Title          *string   `json:"title" binding:"omitempty,max=200"`
		Description    *string   `json:"description" binding:"omitempty,max=2000"`
		Status         *string   `json:"status" binding:"omitempty,oneof=todo in-progress review completed"`
		Priority       *string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
		AssignedTo     *string   `json:"assignedTo"`
		DueDate        *string   `json:"dueDate"`
		Tags           *[]string `json:"tags"`
		Attachments    *[]string `json:"attachments"`
		EstimatedHours *float64  `json:"estimatedHours" binding:"omitempty,gte=0"`
		ActualHours    *float64  `json:"actualHours" binding:"omitempty,gte=0"`
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		AssignedToID:   req.AssignedTo,
		DueDate:        req.DueDate,
		Tags:           req.Tags,
		Attachments:    req.Attachments,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.UpdateTask(c.Param("id"), actor, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask removes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Param("id"), actor); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddCommentRequest struct {
		Text string `json:"text" binding:"required,max=1000"`
	}

	var req AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.AddComment(c.Param("id"), userID, req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment added successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// Stats returns global task statistics
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.taskService.OverviewStats()
	if err != nil {
		logInternalError(c, err)
		apierrors.InternalError(c, "Failed to fetch statistics")
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewStatsDTO(*stats))
}

// parseListInput validates list query parameters. Invalid enum values are
// rejected with field-level errors before any query runs.
func parseListInput(c *gin.Context) (services.ListTasksInput, bool) {
	input := services.ListTasksInput{
		Pagination: utils.GetPaginationParams(c),
		Search:     c.Query("search"),
	}

	var fields []apierrors.FieldError

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			fields = append(fields, apierrors.FieldError{
				Field: "status", Reason: "must be one of: todo in-progress review completed",
			})
		} else {
			input.Status = &status
		}
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !priority.Valid() {
			fields = append(fields, apierrors.FieldError{
				Field: "priority", Reason: "must be one of: low medium high urgent",
			})
		} else {
			input.Priority = &priority
		}
	}
	if raw := c.Query("assignedTo"); raw != "" {
		input.AssignedToID = &raw
	}

	if len(fields) > 0 {
		apierrors.ValidationFailed(c, fields)
		return services.ListTasksInput{}, false
	}
	return input, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, "Not authorized to modify this task")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, "Assigned user not found")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrNegativeHours),
		errors.Is(err, services.ErrInvalidDueDate):
		apierrors.BadRequest(c, err.Error())
	default:
		logInternalError(c, err)
		apierrors.InternalError(c, "")
	}
}
