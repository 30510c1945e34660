package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kitir-joshi/task-manager-app/internal/models"
	"github.com/kitir-joshi/task-manager-app/internal/utils"
)

func newTaskRepoDB(t *testing.T) (*gorm.DB, TaskRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}, &models.Comment{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	return db, NewTaskRepository(db)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.RoleUser,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTask(t *testing.T, db *gorm.DB, owner *models.User, mutate func(*models.Task)) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        "seed",
		Description:  "seed description",
		Status:       models.TaskStatusTodo,
		Priority:     models.TaskPriorityMedium,
		CreatedByID:  owner.ID,
		AssignedToID: owner.ID,
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func strPtr[T ~string](v T) *T { return &v }

func TestList_FiltersAreConjunctive(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "match"
		task.Status = models.TaskStatusInProgress
		task.Priority = models.TaskPriorityUrgent
	})
	seedTask(t, db, alice, func(task *models.Task) {
		task.Status = models.TaskStatusInProgress
	})
	seedTask(t, db, bob, func(task *models.Task) {
		task.Priority = models.TaskPriorityUrgent
	})

	tasks, total, err := repo.List(TaskFilter{
		Status:           strPtr(models.TaskStatusInProgress),
		Priority:         strPtr(models.TaskPriorityUrgent),
		AssignedToID:     &alice.ID,
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	require.Equal(t, "match", tasks[0].Title)
}

func TestList_SearchCoversTags(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")

	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "Deploy service"
		task.Tags = []string{"Infra", "urgent-fix"}
	})
	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "Unrelated"
	})

	tasks, total, err := repo.List(TaskFilter{
		Search:           "INFRA",
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Deploy service", tasks[0].Title)
}

func TestList_SearchMatchesMetacharactersLiterally(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")

	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "Progress 50% done"
	})
	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "Progress 505 done"
	})
	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "snake_case cleanup"
	})
	seedTask(t, db, alice, func(task *models.Task) {
		task.Title = "snakeXcase cleanup"
	})

	tasks, total, err := repo.List(TaskFilter{
		Search:           "50%",
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total, "% is not a wildcard in search terms")
	require.Equal(t, "Progress 50% done", tasks[0].Title)

	tasks, total, err = repo.List(TaskFilter{
		Search:           "snake_case",
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total, "_ is not a wildcard in search terms")
	require.Equal(t, "snake_case cleanup", tasks[0].Title)
}

func TestList_PaginationAndOrdering(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		seedTask(t, db, alice, func(task *models.Task) {
			task.Title = fmt.Sprintf("task %d", i)
			task.CreatedAt = createdAt
		})
	}

	tasks, total, err := repo.List(TaskFilter{
		PaginationParams: utils.PaginationParams{Page: 2, Limit: 3, Offset: 3},
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, total)
	require.Len(t, tasks, 3)

	// Newest first, so page 2 starts at the fourth-newest task.
	require.Equal(t, "task 3", tasks[0].Title)
	require.Equal(t, "task 2", tasks[1].Title)
	require.Equal(t, "task 1", tasks[2].Title)
}

func TestDelete_CascadesToComments(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")
	task := seedTask(t, db, alice, nil)
	keeper := seedTask(t, db, alice, nil)

	for _, target := range []*models.Task{task, keeper} {
		require.NoError(t, repo.AddComment(&models.Comment{
			TaskID:   target.ID,
			AuthorID: alice.ID,
			Text:     "note",
		}))
	}

	require.NoError(t, repo.Delete(task.ID))

	_, err := repo.FindByID(task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.EqualValues(t, 1, comments, "other tasks keep their comments")
}

func TestStats_ScopingAndOverdue(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	past := time.Now().Add(-time.Hour)

	seedTask(t, db, alice, func(task *models.Task) {
		task.Status = models.TaskStatusCompleted
		task.DueDate = &past
	})
	seedTask(t, db, alice, func(task *models.Task) {
		task.DueDate = &past
	})
	seedTask(t, db, bob, func(task *models.Task) {
		task.Priority = models.TaskPriorityHigh
		task.DueDate = &past
	})

	global, err := repo.Stats(nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, global.Total)
	require.EqualValues(t, 1, global.Completed)
	require.EqualValues(t, 2, global.Overdue, "completed tasks are never overdue")
	require.EqualValues(t, 1, global.ByPriority[models.TaskPriorityHigh])
	require.EqualValues(t, 2, global.ByStatus[models.TaskStatusTodo])

	scoped, err := repo.Stats(&alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, scoped.Total)
	require.EqualValues(t, 1, scoped.Completed)
	require.EqualValues(t, 1, scoped.Overdue)
}

func TestFindDetailed_PreloadsRelations(t *testing.T) {
	db, repo := newTaskRepoDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	task := seedTask(t, db, alice, func(task *models.Task) {
		task.AssignedToID = bob.ID
	})

	base := time.Now().Add(-time.Minute)
	for i, text := range []string{"one", "two"} {
		require.NoError(t, db.Create(&models.Comment{
			TaskID:    task.ID,
			AuthorID:  bob.ID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}).Error)
	}

	found, err := repo.FindDetailed(task.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", found.AssignedTo.Username)
	require.Equal(t, "alice", found.CreatedBy.Username)
	require.Len(t, found.Comments, 2)
	require.Equal(t, "one", found.Comments[0].Text)
	require.Equal(t, "bob", found.Comments[0].Author.Username)
}
