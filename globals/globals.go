package globals

import (
	"context"
)

// Context keys
type ContextKey string

const RequestIDKey ContextKey = "requestId"

var Ctx = context.Background()
