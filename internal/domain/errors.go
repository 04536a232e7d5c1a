package domain

import "errors"

var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrTokenExpired        = errors.New("token expired")
	ErrMalformedPayload    = errors.New("malformed payload")
	ErrKeyNotFound         = errors.New("api key not found")
	ErrKeyExpired          = errors.New("api key expired")
	ErrKeyRevoked          = errors.New("api key revoked")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrTenantInactive      = errors.New("tenant inactive")
	ErrAccountInactive     = errors.New("account inactive")
	ErrInsufficientRole    = errors.New("insufficient role")
	ErrInsufficientScope   = errors.New("insufficient scope")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidLogin        = errors.New("invalid login")
	ErrForbidden           = errors.New("forbidden")
	ErrRateLimited         = errors.New("rate limited")
	ErrServiceUnavailable  = errors.New("service unavailable")
)

// IsAuthFailure reports whether err is one of the recoverable
// authentication/authorization kinds. ServiceUnavailable is deliberately
// excluded: infrastructure failures always fail closed, even on the
// optional-auth path.
func IsAuthFailure(err error) bool {
	for _, kind := range []error{
		ErrMissingCredential, ErrMalformedCredential, ErrInvalidSignature,
		ErrTokenExpired, ErrMalformedPayload, ErrKeyNotFound, ErrKeyExpired,
		ErrKeyRevoked, ErrPrincipalNotFound, ErrTenantInactive,
		ErrAccountInactive, ErrInsufficientRole, ErrInsufficientScope,
		ErrUnauthenticated, ErrInvalidLogin, ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
