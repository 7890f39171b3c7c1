package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/osvaldn/indexer-gateway/internal/config"
	"github.com/osvaldn/indexer-gateway/internal/state"
)

// Deliberately permissive: the leading label of whatever arrived in Host.
var hostKeyPattern = regexp.MustCompile(`^([\w-]+)?\.?.+`)

// Authenticate resolves the request's credential to a consumer. The key
// comes from the configured header, falling back to the leading label of
// the Host header; an empty key is simply a failing lookup. A resolved
// consumer must belong to this proxy's network - a key minted for another
// network is rejected even if it exists.
func Authenticate(st *state.State, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(cfg.APIKeyHeader))
		if key == "" {
			key = keyFromHost(c.Request.Host)
		}

		hash := sha256.Sum256([]byte(key))
		consumer, ok := st.Consumer(hex.EncodeToString(hash[:]))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			c.Abort()
			return
		}

		if consumer.Network != cfg.Network {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			c.Abort()
			return
		}

		c.Set(ctxConsumer, consumer)
		c.Set(CtxInstance, cfg.Instance(consumer.Pruned))

		c.Next()
	}
}

// keyFromHost pulls the subdomain-style key out of a Host header like
// "abc123.gateway.example.com".
func keyFromHost(host string) string {
	m := hostKeyPattern.FindStringSubmatch(host)
	if m == nil {
		return ""
	}
	return m[1]
}
