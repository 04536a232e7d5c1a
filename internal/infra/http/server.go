// Package http is the HTTP boundary of the auth core: route wiring, the
// authentication middleware, per-class rate limiting, and the stable error
// surface.
package http

import (
	"net/http"
	"time"

	"gatekeeper/internal/config"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/credential"
	"gatekeeper/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Resolver   *usecase.ResolveIdentity
	KeyManager *usecase.ManageAPIKeys
	Login      *usecase.Login
	Limiter    domain.RateLimiter
}

type Server struct {
	router    *gin.Engine
	extractor *credential.Extractor

	resolver   *usecase.ResolveIdentity
	keyManager *usecase.ManageAPIKeys
	login      *usecase.Login
	limiter    domain.RateLimiter

	tokenTTL        time.Duration
	loginRateLimit  int
	loginRateWindow time.Duration
	apiRateLimit    int
	apiRateWindow   time.Duration
}

func NewServer(cfg config.Config, deps Deps) *Server {
	s := &Server{
		router:          gin.New(),
		extractor:       credential.NewExtractor(),
		resolver:        deps.Resolver,
		keyManager:      deps.KeyManager,
		login:           deps.Login,
		limiter:         deps.Limiter,
		tokenTTL:        cfg.TokenTTL,
		loginRateLimit:  cfg.LoginRateLimit,
		loginRateWindow: cfg.LoginRateWindow,
		apiRateLimit:    cfg.APIRateLimit,
		apiRateWindow:   cfg.APIRateWindow,
	}
	s.router.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/v1/auth/login", s.rateLimit(domain.RateClassLogin), s.handleLogin)

	v1 := s.router.Group("/v1", s.rateLimit(domain.RateClassAPI))
	{
		v1.GET("/auth/me", s.requireAuth(usecase.AnyAuthenticated()), s.handleMe)
		v1.GET("/status", s.optionalAuth(), s.handleStatus)

		v1.POST("/keys", s.requireAuth(usecase.AnyAuthenticated()), s.handleCreateKey)
		v1.GET("/keys", s.requireAuth(usecase.AnyAuthenticated()), s.handleListKeys)
		v1.DELETE("/keys/:id", s.requireAuth(usecase.AnyAuthenticated()), s.handleRevokeKey)

		v1.GET("/instances", s.requireAuth(usecase.RequireScope("instances:read")), s.handleListInstances)
		v1.POST("/instances", s.requireAuth(usecase.RequireScope("instances:write")), s.handleCreateInstance)

		v1.GET("/admin/tenant", s.requireAuth(usecase.RequireRole(domain.RoleAdmin)), s.handleAdminTenant)
	}
}
