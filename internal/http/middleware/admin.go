package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole lets through only authenticated callers holding role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil || !p.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}
		if !p.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Role " + role + " required",
				},
			})
			return
		}
		c.Next()
	}
}
