package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osvaldn/indexer-gateway/internal/state"
)

// Health short-circuits the configured health path, any method. The
// response reflects the last upstream probe, the connection is closed and
// the request is marked so logging and metrics skip it.
func Health(st *state.State, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != path {
			c.Next()
			return
		}

		c.Set(ctxHealthRequest, true)
		c.Header("Connection", "close")

		if st.Healthy() {
			c.String(http.StatusOK, "OK")
		} else {
			c.String(http.StatusInternalServerError, "UNHEALTHY")
		}

		c.Abort()
	}
}
