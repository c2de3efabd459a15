package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"agenthub/internal/identity"
	"agenthub/internal/model"
	"agenthub/internal/transport/http/response"
)

const ContextUserKey = "current_user"

// CurrentUser resolves the request identity through the configured resolver
// and stores it on the gin context. Aborts with 401 when resolution fails.
func CurrentUser(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Resolve(c)
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				response.Error(c, 401, response.CodeUnauthorized, "authentication required")
			} else {
				response.Error(c, 500, response.CodeInternalServer, "resolve identity failed")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// UserFromContext returns the resolved user, or nil when the middleware did
// not run on this route.
func UserFromContext(c *gin.Context) *model.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
