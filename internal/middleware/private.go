package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// PrivateEndpointGuard blocks administrative backend sub-paths from public
// traffic. The pattern is matched against {METHOD}{path}, so a credential
// never gets these requests past the proxy.
func PrivateEndpointGuard(pattern *regexp.Regexp) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := c.Request.Method + c.Request.URL.Path
		if pattern.MatchString(target) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized to request the endpoint",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
