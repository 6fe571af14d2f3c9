package ctxkey

// key is private so values set here cannot collide with other packages.
type key string

const (
	UserID   key = "user_id"
	UserRole key = "user_role"
)
