package http

import (
	"errors"
	"log/slog"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/metrics"
	"gatekeeper/internal/usecase"

	"github.com/gin-gonic/gin"
)

const resolutionContextKey = "gatekeeper.resolution"

// ResolutionFrom returns the resolved caller attached by the auth
// middleware, if any.
func ResolutionFrom(c *gin.Context) (*usecase.Resolution, bool) {
	value, ok := c.Get(resolutionContextKey)
	if !ok {
		return nil, false
	}
	res, ok := value.(*usecase.Resolution)
	return res, ok
}

func (s *Server) authenticate(c *gin.Context) (*usecase.Resolution, error) {
	cred, err := s.extractor.FromRequest(c.Request)
	if err != nil {
		return nil, err
	}
	return s.resolver.Execute(c.Request.Context(), cred)
}

// requireAuth authenticates the caller and enforces the endpoint's
// requirement. Every rejection is a structured response; nothing from this
// path surfaces as a bare 500.
func (s *Server) requireAuth(req usecase.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := s.authenticate(c)
		if err == nil {
			err = usecase.Authorize(res, req)
		}
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues(kindLabel(err)).Inc()
			slog.Warn("request rejected",
				"path", c.Request.URL.Path,
				"remote_addr", c.ClientIP(),
				"error", err,
			)
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(resolutionContextKey, res)
		c.Next()
	}
}

// optionalAuth attaches an identity when the request carries a valid
// credential and proceeds anonymously otherwise. Infrastructure failures
// still fail closed.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := s.authenticate(c)
		if err != nil {
			if errors.Is(err, domain.ErrServiceUnavailable) {
				writeError(c, err)
				c.Abort()
				return
			}
			c.Next()
			return
		}
		c.Set(resolutionContextKey, res)
		c.Next()
	}
}
