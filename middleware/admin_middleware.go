package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware gates the manual catalog endpoints behind the shared admin
// password, supplied in the x-admin-password header.
func AdminMiddleware(adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("x-admin-password")
		if adminPassword == "" ||
			subtle.ConstantTimeCompare([]byte(supplied), []byte(adminPassword)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Não autorizado"})
			return
		}
		c.Next()
	}
}
