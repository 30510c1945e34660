package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kitir-joshi/task-manager-app/internal/models"
)

func newMockUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func userRows(users ...models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "email", "role", "is_active"})
	for _, u := range users {
		rows.AddRow(u.ID, u.Username, u.Email, string(u.Role), u.IsActive)
	}
	return rows
}

func TestFindByEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = \\?").
		WillReturnRows(userRows(models.User{
			ID:       "u-1",
			Username: "alice",
			Email:    "alice@example.com",
			Role:     models.RoleUser,
			IsActive: true,
		}))

	user, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
	require.Equal(t, "alice", user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = \\?").
		WillReturnRows(userRows())

	_, err := repo.FindByEmail("ghost@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflicting_UsernameOnly(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE id <> \\? AND username = \\?").
		WillReturnRows(userRows(models.User{ID: "u-2", Username: "bob"}))

	user, err := repo.FindConflicting("bob", "", "u-1")
	require.NoError(t, err)
	require.Equal(t, "u-2", user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflicting_UsernameAndEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE id <> \\? AND \\(username = \\? OR email = \\?\\)").
		WillReturnRows(userRows())

	_, err := repo.FindConflicting("bob", "bob@example.com", "u-1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflicting_NothingToCheck(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	// No query is issued at all.
	_, err := repo.FindConflicting("", "", "u-1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OrderedByCreation(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users` ORDER BY created_at ASC").
		WillReturnRows(userRows(
			models.User{ID: "u-1", Username: "alice"},
			models.User{ID: "u-2", Username: "bob"},
		))

	users, err := repo.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}
