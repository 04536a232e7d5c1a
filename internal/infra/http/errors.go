package http

import (
	"errors"
	"net/http"
	"strings"

	"gatekeeper/internal/domain"

	"github.com/gin-gonic/gin"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// rejection is the stable wire form for one failure kind. Messages name the
// category only; store and cache internals never reach the caller.
type rejection struct {
	status  int
	code    string
	message string
}

var rejections = map[error]rejection{
	domain.ErrMissingCredential:   {http.StatusUnauthorized, "MISSING_CREDENTIAL", "authentication required"},
	domain.ErrMalformedCredential: {http.StatusUnauthorized, "MALFORMED_CREDENTIAL", "authentication failed"},
	domain.ErrInvalidSignature:    {http.StatusUnauthorized, "INVALID_SIGNATURE", "authentication failed"},
	domain.ErrTokenExpired:        {http.StatusUnauthorized, "TOKEN_EXPIRED", "session expired, sign in again"},
	domain.ErrMalformedPayload:    {http.StatusUnauthorized, "MALFORMED_PAYLOAD", "authentication failed"},
	domain.ErrKeyNotFound:         {http.StatusUnauthorized, "KEY_NOT_FOUND", "authentication failed"},
	domain.ErrKeyExpired:          {http.StatusUnauthorized, "KEY_EXPIRED", "api key expired"},
	domain.ErrKeyRevoked:          {http.StatusUnauthorized, "KEY_REVOKED", "api key revoked"},
	domain.ErrPrincipalNotFound:   {http.StatusUnauthorized, "PRINCIPAL_NOT_FOUND", "authentication failed"},
	domain.ErrUnauthenticated:     {http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required"},
	domain.ErrInvalidLogin:        {http.StatusUnauthorized, "INVALID_LOGIN", "invalid email or password"},
	domain.ErrAccountInactive:     {http.StatusUnauthorized, "ACCOUNT_INACTIVE", "account is inactive"},
	domain.ErrTenantInactive:      {http.StatusForbidden, "TENANT_INACTIVE", "tenant is not active"},
	domain.ErrInsufficientRole:    {http.StatusForbidden, "INSUFFICIENT_ROLE", "access denied"},
	domain.ErrInsufficientScope:   {http.StatusForbidden, "INSUFFICIENT_SCOPE", "access denied"},
	domain.ErrForbidden:           {http.StatusForbidden, "FORBIDDEN", "access denied"},
	domain.ErrRateLimited:         {http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded"},
	domain.ErrServiceUnavailable:  {http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service unavailable"},
}

func rejectionFor(err error) rejection {
	for kind, rej := range rejections {
		if errors.Is(err, kind) {
			return rej
		}
	}
	// Anything unmapped fails closed rather than surfacing as a raw 500.
	return rejections[domain.ErrServiceUnavailable]
}

func writeError(c *gin.Context, err error) {
	rej := rejectionFor(err)
	writeErrorCode(c, rej.status, rej.code, rej.message)
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// kindLabel is the metric label for a failure kind.
func kindLabel(err error) string {
	return strings.ToLower(rejectionFor(err).code)
}
