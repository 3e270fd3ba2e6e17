package constants

// Session and context keys
const (
	SessionCookieName = "task_session"
	SessionKeyUserID  = "user_id"
	SessionKeyRole    = "role"

	ContextKeyUserID      = "user_id"
	ContextKeyUserRole    = "user_role"
	ContextKeyCurrentUser = "current_user"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
