package constants

const (
	// SessionCookieName is the cookie under which the session is stored.
	SessionCookieName = "tracker_session"

	// ContextKeyUserID is the session and gin context key for the
	// authenticated user's ID.
	ContextKeyUserID = "user_id"

	// ContextKeyProject and ContextKeyTask hold entities loaded by the
	// access-check middleware.
	ContextKeyProject = "project"
	ContextKeyTask    = "task"

	// DefaultResetTokenTTLSeconds is how long a password reset token stays
	// valid unless overridden by config.
	DefaultResetTokenTTLSeconds = 1800
)
