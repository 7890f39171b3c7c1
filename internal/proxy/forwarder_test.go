package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldn/indexer-gateway/internal/middleware"
)

func TestHandleForwardsToResolvedInstance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotHost, gotForwardedHost string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotForwardedHost = r.Header.Get("X-Forwarded-Host")
		w.Write([]byte("indexed"))
	}))
	defer backend.Close()

	instance := backend.Listener.Addr().String()

	f := New()
	router := gin.New()
	router.GET("/matches", func(c *gin.Context) {
		c.Set(middleware.CtxInstance, instance)
		f.Handle(c)
	})

	// ReverseProxy needs a cancelable request context; a recorder alone
	// would send it down the CloseNotifier path, which recorders lack.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/matches", nil).WithContext(ctx)
	req.Host = "abc.gateway.example.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "indexed", w.Body.String())
	assert.Equal(t, instance, gotHost)
	assert.Equal(t, "abc.gateway.example.com", gotForwardedHost)
}

func TestHandleWithoutInstance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	f := New()
	router := gin.New()
	router.GET("/matches", f.Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/matches", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProxyReusedPerInstance(t *testing.T) {
	f := New()

	p1 := f.proxyFor("indexer-mainnet.svc:1442")
	p2 := f.proxyFor("indexer-mainnet.svc:1442")
	p3 := f.proxyFor("indexer-mainnet-pruned.svc:1442")

	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, p3)
}
