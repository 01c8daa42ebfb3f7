package contextkeys

type contextKey string

const (
	// DBContextKey - *gorm.DB stored on the gin context (pool or transaction)
	DBContextKey = contextKey("db")
	// CallerContextKey - authenticated caller resolved from the bearer token
	CallerContextKey = contextKey("caller")
)
