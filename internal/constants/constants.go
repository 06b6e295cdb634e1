package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user's id
	ContextKeyUserID = "user_id"

	// ContextKeyTaskID is the gin context key holding the validated :id route parameter
	ContextKeyTaskID = "task_id"

	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8

	// Name length bounds for registration
	MinNameLength = 3
	MaxNameLength = 50

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200

	// MaxAIGeneratedTasks caps the number of suggestions returned from one prompt
	MaxAIGeneratedTasks = 20

	// TotalCountHeader carries the unpaginated task count on list responses
	TotalCountHeader = "X-Total-Count"
)
