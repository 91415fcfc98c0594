package contextkeys

type ContextKey string

// DBContextKey is where the request-scoped *gorm.DB (pool or test
// transaction) lives in the gin context.
const DBContextKey ContextKey = "db"

const (
	UserIDKey ContextKey = "userID"
	RoleKey   ContextKey = "role"
)
