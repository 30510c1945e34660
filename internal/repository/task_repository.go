package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kitir-joshi/task-manager-app/internal/database"
	"github.com/kitir-joshi/task-manager-app/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// likeEscaper neutralizes LIKE metacharacters so search terms match
// literally. '!' is the escape character on every supported driver.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID without relations
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindDetailed finds a task with assignee, creator and comments resolved.
// Comments keep strict creation order.
func (r *GormTaskRepository) FindDetailed(id string) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.InvolvedUserID != nil {
		query = query.Where("tasks.assigned_to_id = ? OR tasks.created_by_id = ?",
			*filter.InvolvedUserID, *filter.InvolvedUserID)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(
			"LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!' OR LOWER(tasks.tags) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.PaginationParams)).
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete hard-removes the task and its comments
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

// AddComment appends a comment to a task
func (r *GormTaskRepository) AddComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// Stats computes aggregate counters, optionally scoped to a user
func (r *GormTaskRepository) Stats(scopeUserID *string) (*TaskStats, error) {
	stats := &TaskStats{
		ByStatus:   make(map[models.TaskStatus]int64),
		ByPriority: make(map[models.TaskPriority]int64),
	}

	scoped := func() *gorm.DB {
		q := r.db.Model(&models.Task{})
		if scopeUserID != nil {
			q = q.Where("assigned_to_id = ? OR created_by_id = ?", *scopeUserID, *scopeUserID)
		}
		return q
	}

	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status models.TaskStatus
		Count  int64
	}
	var statusRows []statusRow
	if err := scoped().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}
	stats.Completed = stats.ByStatus[models.TaskStatusCompleted]

	type priorityRow struct {
		Priority models.TaskPriority
		Count    int64
	}
	var priorityRows []priorityRow
	if err := scoped().
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&priorityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		stats.ByPriority[row.Priority] = row.Count
	}

	if err := scoped().
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?",
			time.Now(), models.TaskStatusCompleted).
		Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
