package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kitir-joshi/task-manager-app/internal/authz"
	"github.com/kitir-joshi/task-manager-app/internal/constants"
	"github.com/kitir-joshi/task-manager-app/internal/database"
	apierrors "github.com/kitir-joshi/task-manager-app/internal/errors"
	"github.com/kitir-joshi/task-manager-app/internal/models"
)

// RequireAuth verifies the bearer token and resolves the acting user from the
// store on every request. The handler chain never relies on ambient session
// state; identity travels in the Authorization header.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, "id = ?", claims.Subject).Error; err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		if !user.IsActive {
			apierrors.Unauthorized(c, "Account is deactivated")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, &user)
		c.Next()
	}
}

// RequireAdmin rejects requests whose acting user lacks the admin role.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !authz.CanAdministerUsers(user) {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser retrieves the acting user from the request context.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetUserID retrieves the acting user's id from the request context.
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
