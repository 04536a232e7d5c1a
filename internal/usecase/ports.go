package usecase

import (
	"context"
	"time"

	"gatekeeper/internal/domain"
)

// TokenVerifier validates a raw bearer/session token.
type TokenVerifier interface {
	Verify(raw string) (domain.TokenPayload, error)
}

// TokenIssuer signs fresh session tokens after login.
type TokenIssuer interface {
	Issue(principalID, tenantID string, role domain.Role, ttl time.Duration) (string, error)
}

// IdentityStore is the relational store's read surface for principals.
type IdentityStore interface {
	GetIdentity(ctx context.Context, principalID string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Principal, string, error)
}

// APIKeyStore is the relational store's surface for API key records.
type APIKeyStore interface {
	Create(ctx context.Context, rec domain.APIKeyRecord) error
	GetByHash(ctx context.Context, keyHash string) (*domain.APIKeyRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.APIKeyRecord, error)
	Revoke(ctx context.Context, keyID, ownerID string, at time.Time) (*domain.APIKeyRecord, error)
	TouchLastUsed(ctx context.Context, keyID string, at time.Time) error
}

// IdentityCache memoizes hydrated identities with a bounded TTL.
type IdentityCache interface {
	Get(ctx context.Context, key string) (*domain.Identity, bool, error)
	Put(ctx context.Context, key string, value domain.Identity, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
