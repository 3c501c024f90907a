package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/marketplace/services/common/auth"
)

// OptionalAuth records the principal when a valid bearer token is present and
// lets the request through either way. Public catalog routes use it so
// downstream logs carry the caller when known.
func OptionalAuth(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
			if p, err := v.Verify(tok); err == nil {
				c.Set(auth.ContextUserID, p.ID)
				c.Set(auth.ContextRole, p.Role)
			}
		}
		c.Next()
	}
}
