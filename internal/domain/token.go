package domain

import "time"

// TokenPayload is the claim set embedded in a signed session/bearer token.
// Every field must be present and well-typed or the token is rejected as
// malformed; a correctly signed token with missing fields is a distinct
// failure from a bad signature.
type TokenPayload struct {
	PrincipalID string
	TenantID    string
	Role        Role
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

func (p TokenPayload) Validate() error {
	if p.PrincipalID == "" || p.TenantID == "" || p.Role == "" {
		return ErrMalformedPayload
	}
	if p.IssuedAt.IsZero() || p.ExpiresAt.IsZero() {
		return ErrMalformedPayload
	}
	return nil
}
