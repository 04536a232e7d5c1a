package http

import (
	"strconv"
	"time"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// rateLimit guards an endpoint class. It runs ahead of credential
// verification, so repeated bad-credential attempts are throttled before
// the verifiers ever see them. The caller key is the principal id when a
// resolution is already attached, the client IP otherwise.
func (s *Server) rateLimit(class string) gin.HandlerFunc {
	limit, window := s.limitsFor(class)
	return func(c *gin.Context) {
		if s.limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		client := c.ClientIP()
		if res, ok := ResolutionFrom(c); ok {
			client = res.Identity.Principal.ID
		}
		key := domain.RateLimitKey(client, class)

		decision, err := s.limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Counter store unreachable: fail closed.
			writeError(c, domain.ErrServiceUnavailable)
			c.Abort()
			return
		}
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			metrics.RateLimitRejectedTotal.WithLabelValues(class).Inc()
			writeError(c, domain.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) limitsFor(class string) (int, time.Duration) {
	switch class {
	case domain.RateClassLogin:
		return s.loginRateLimit, s.loginRateWindow
	default:
		return s.apiRateLimit, s.apiRateWindow
	}
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
