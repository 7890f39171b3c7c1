package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/middleware"
)

// Forwarder sends authenticated traffic to the instance the pipeline
// resolved for the consumer. One ReverseProxy is built per distinct
// instance address and reused; for a single network that is at most the
// full and the pruned variant.
type Forwarder struct {
	mu      sync.Mutex
	proxies map[string]*httputil.ReverseProxy
}

func New() *Forwarder {
	return &Forwarder{
		proxies: make(map[string]*httputil.ReverseProxy),
	}
}

// Handle forwards the request. State decisions are all done by the time
// this runs; no shared-state lock is held across the upstream exchange.
func (f *Forwarder) Handle(c *gin.Context) {
	instance := c.GetString(middleware.CtxInstance)
	if instance == "" {
		// The pipeline never routes here without a resolved instance.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "no upstream instance resolved",
		})
		return
	}

	p := f.proxyFor(instance)

	c.Request.Header.Set("X-Forwarded-Host", c.Request.Host)
	c.Request.Host = instance

	p.ServeHTTP(c.Writer, c.Request)
}

func (f *Forwarder) proxyFor(instance string) *httputil.ReverseProxy {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.proxies[instance]; ok {
		return p
	}

	target := &url.URL{Scheme: "http", Host: instance}
	p := httputil.NewSingleHostReverseProxy(target)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithField("instance", instance).Error("upstream request failed")
		w.WriteHeader(http.StatusBadGateway)
	}

	f.proxies[instance] = p
	return p
}
