package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	Title          string       `gorm:"type:varchar(200);not null" json:"title"`
	Description    string       `gorm:"type:text;not null" json:"description"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index:idx_tasks_assignee_status,priority:2" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(10);not null;default:'medium';index" json:"priority"`
	AssignedToID   string       `gorm:"size:36;not null;index:idx_tasks_assignee_status,priority:1" json:"assignedToId"`
	CreatedByID    string       `gorm:"size:36;not null;index" json:"createdById"`
	DueDate        *time.Time   `gorm:"index" json:"dueDate"`
	Tags           []string     `gorm:"serializer:json;type:text" json:"tags"`
	Attachments    []string     `gorm:"serializer:json;type:text" json:"attachments"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty"`
	ActualHours    *float64     `json:"actualHours,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// Relations
	AssignedTo User      `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedBy  User      `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Comments   []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsOverdue reports whether the task is past its due date and not completed.
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(time.Now()) && t.Status != TaskStatusCompleted
}

// Progress returns the completion percentage derived from the status.
func (t *Task) Progress() int {
	switch t.Status {
	case TaskStatusInProgress:
		return 50
	case TaskStatusReview:
		return 75
	case TaskStatusCompleted:
		return 100
	default:
		return 0
	}
}
