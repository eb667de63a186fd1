package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyGender        = "gender"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
)
