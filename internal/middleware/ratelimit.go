package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osvaldn/indexer-gateway/internal/models"
	"github.com/osvaldn/indexer-gateway/internal/state"
)

// RateLimit enforces the consumer's tier. A tier missing from the catalog
// fails open: new or unlisted tenants are not penalized for configuration
// that has not landed yet.
func RateLimit(st *state.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ctxConsumer)
		if !exists {
			c.Next()
			return
		}
		consumer := v.(models.Consumer)

		tier, ok := st.Tier(consumer.Tier)
		if !ok {
			c.Next()
			return
		}

		if st.Limiter.Exceeded(consumer.Key, tier.Rules) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
