// Package authz answers "may this acting user perform this action on this
// resource?". Rules are evaluated per request with no caching; they are pure
// functions over the domain types so every handler checks the same policy.
package authz

import (
	"github.com/kitir-joshi/task-manager-app/internal/models"
)

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(actor *models.User) bool {
	return actor != nil && actor.Role == models.RoleAdmin
}

// CanModifyTask reports whether the actor may update or delete the task.
// Only the task's creator or an admin may mutate it; reading and commenting
// are open to any authenticated user.
func CanModifyTask(actor *models.User, task *models.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	return IsAdmin(actor) || task.CreatedByID == actor.ID
}

// CanAdministerUsers reports whether the actor may list all users or change
// another user's role or active status.
func CanAdministerUsers(actor *models.User) bool {
	return IsAdmin(actor)
}
