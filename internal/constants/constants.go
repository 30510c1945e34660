package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// Pagination bounds
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Field length limits
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCommentLength     = 1000
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinPasswordLength    = 6
)
