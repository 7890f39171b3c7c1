package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/models"
)

// Logger emits one structured line and one counter increment per proxied
// request, after the response is written. It is mounted on the proxy
// pipeline only, so admin-API traffic never reaches the request counter.
// Health-endpoint hits are excluded. Unauthenticated requests log with an
// empty consumer, matching the metric labels.
func Logger(m *metrics.Metrics, namespace string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if c.GetBool(ctxHealthRequest) {
			return
		}

		var consumer models.Consumer
		if v, exists := c.Get(ctxConsumer); exists {
			consumer = v.(models.Consumer)
		}
		instance := c.GetString(CtxInstance)
		status := c.Writer.Status()

		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"latency":  time.Since(start).String(),
			"consumer": consumer.Name,
			"instance": instance,
		}).Info("request completed")

		m.IncRequest(consumer.Name, namespace, instance, status)
	}
}
