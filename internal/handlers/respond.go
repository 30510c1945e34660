package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	apierrors "github.com/kitir-joshi/task-manager-app/internal/errors"
)

var log = logrus.StandardLogger()

// SetLogger replaces the logger used for unexpected handler errors.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// logInternalError records the detail of an unexpected failure. Only the
// generic message reaches the client.
func logInternalError(c *gin.Context, err error) {
	log.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).WithError(err).Error("request failed")
}

// bindJSON binds the request body and, on failure, responds with the
// field-level error list. Returns false when the request was rejected.
func bindJSON(c *gin.Context, target interface{}) bool {
	err := c.ShouldBindJSON(target)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apierrors.FieldError, len(verrs))
		for i, fe := range verrs {
			fields[i] = apierrors.FieldError{
				Field:  strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Reason: validationReason(fe),
			}
		}
		apierrors.ValidationFailed(c, fields)
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
