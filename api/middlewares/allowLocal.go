package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OnlyAllowLocal rejects anything not originating from the loopback interface.
// The agent holds the user's archive token, so the self API must never be
// reachable from other machines.
func OnlyAllowLocal(c *gin.Context) {
	ip := c.ClientIP()
	if ip == "127.0.0.1" || ip == "::1" {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
}
