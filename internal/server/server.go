package server

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/config"
	"github.com/osvaldn/indexer-gateway/internal/handler"
	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/middleware"
	"github.com/osvaldn/indexer-gateway/internal/proxy"
	"github.com/osvaldn/indexer-gateway/internal/service"
	"github.com/osvaldn/indexer-gateway/internal/state"
)

type Server struct {
	router        *gin.Engine
	config        *config.Config
	state         *state.State
	metrics       *metrics.Metrics
	forwarder     *proxy.Forwarder
	authService   *service.AuthService
	authHandler   *handler.AuthHandler
	tenantHandler *handler.TenantHandler
	tiersHandler  *handler.TiersHandler
	httpServer    *http.Server
}

func New(cfg *config.Config, st *state.State, m *metrics.Metrics, tenantService *service.TenantService, authService *service.AuthService) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:        gin.New(),
		config:        cfg,
		state:         st,
		metrics:       m,
		forwarder:     proxy.New(),
		authService:   authService,
		authHandler:   handler.NewAuthHandler(authService),
		tenantHandler: handler.NewTenantHandler(tenantService),
		tiersHandler:  handler.NewTiersHandler(st),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
}

// setupRoutes mounts the admin API on fixed paths and hangs the proxy
// pipeline on everything else. The pipeline order is the contract: health
// short-circuit, private endpoint guard, authentication (key extraction,
// consumer lookup, network match), rate limit, forward.
func (s *Server) setupRoutes() {
	admin := s.router.Group("/admin")
	{
		admin.POST("/login", s.authHandler.Login)

		authorized := admin.Group("", middleware.RequireAuth(s.authService))
		authorized.POST("/tenants", s.tenantHandler.Create)
		authorized.GET("/tenants", s.tenantHandler.List)
		authorized.DELETE("/tenants/:id", s.tenantHandler.Delete)
		authorized.GET("/tiers", s.tiersHandler.List)
	}

	privateEndpoint := regexp.MustCompile(s.config.PrivateEndpoint)

	s.router.NoRoute(
		middleware.Logger(s.metrics, s.config.ProxyNamespace),
		middleware.Health(s.state, s.config.HealthEndpoint),
		middleware.PrivateEndpointGuard(privateEndpoint),
		middleware.Authenticate(s.state, s.config),
		middleware.RateLimit(s.state),
		s.forwarder.Handle,
	)
}

func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.config.ProxyAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithFields(log.Fields{
		"addr":    s.config.ProxyAddr,
		"network": s.config.Network,
	}).Info("starting gateway")

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
