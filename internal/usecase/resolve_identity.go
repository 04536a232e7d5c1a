package usecase

import (
	"context"
	"log/slog"
	"time"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/metrics"
)

// Resolution is the outcome of resolving one request's credential: the
// hydrated identity plus, for API-key callers, the key's capability scopes.
// Scopes is nil for token credentials; scope requirements bind API keys
// only, a session user is not scope-restricted.
type Resolution struct {
	Identity domain.Identity
	Method   domain.CredentialKind
	Scopes   []string
	KeyID    string
}

type ResolveIdentity struct {
	Tokens   TokenVerifier
	Keys     APIKeyStore
	Cache    IdentityCache
	Store    IdentityStore
	CacheTTL time.Duration
	Now      func() time.Time
}

func (uc *ResolveIdentity) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Execute verifies the credential, resolves the principal and tenant behind
// it, and checks that the resolved tenant matches the credential's issuing
// context.
func (uc *ResolveIdentity) Execute(ctx context.Context, cred domain.Credential) (*Resolution, error) {
	switch cred.Kind {
	case domain.CredentialBearer, domain.CredentialSession:
		return uc.resolveToken(ctx, cred)
	case domain.CredentialAPIKey:
		return uc.resolveAPIKey(ctx, cred)
	default:
		return nil, domain.ErrMalformedCredential
	}
}

func (uc *ResolveIdentity) resolveToken(ctx context.Context, cred domain.Credential) (*Resolution, error) {
	payload, err := uc.Tokens.Verify(cred.Raw)
	if err != nil {
		return nil, err
	}
	identity, err := uc.lookupIdentity(ctx, payload.PrincipalID)
	if err != nil {
		return nil, err
	}
	if identity.Tenant.ID != payload.TenantID {
		// The principal moved tenants since the token was issued; the
		// credential's issuing context no longer holds.
		return nil, domain.ErrUnauthenticated
	}
	return &Resolution{Identity: *identity, Method: cred.Kind}, nil
}

func (uc *ResolveIdentity) resolveAPIKey(ctx context.Context, cred domain.Credential) (*Resolution, error) {
	rec, err := uc.Keys.GetByHash(ctx, domain.HashAPIKey(cred.Raw))
	if err != nil {
		return nil, failClosed(err)
	}
	if rec.Revoked() {
		return nil, domain.ErrKeyRevoked
	}
	if rec.Expired(uc.now()) {
		return nil, domain.ErrKeyExpired
	}

	identity, err := uc.lookupIdentity(ctx, rec.OwnerID)
	if err != nil {
		return nil, err
	}
	if identity.Tenant.ID != rec.TenantID {
		return nil, domain.ErrUnauthenticated
	}

	// Touch off the request path; the decision never blocks on this write.
	keyID := rec.ID
	usedAt := uc.now()
	go func() {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.Keys.TouchLastUsed(touchCtx, keyID, usedAt); err != nil {
			slog.Warn("api key last-used touch failed", "key_id", keyID, "error", err)
		}
	}()

	return &Resolution{
		Identity: *identity,
		Method:   domain.CredentialAPIKey,
		Scopes:   rec.Scopes,
		KeyID:    rec.ID,
	}, nil
}

// lookupIdentity is the read-through path: cache hit wins unconditionally
// within the TTL; a miss fetches principal+tenant from the store in one
// read and replaces the entry wholesale. Two concurrent misses for the same
// principal both read the store; the reads are idempotent and the last
// cache write wins.
func (uc *ResolveIdentity) lookupIdentity(ctx context.Context, principalID string) (*domain.Identity, error) {
	key := domain.IdentityCacheKey(principalID)

	cached, ok, err := uc.Cache.Get(ctx, key)
	if err != nil {
		slog.Error("identity cache unreachable", "error", err)
		return nil, domain.ErrServiceUnavailable
	}
	if ok {
		metrics.IdentityCacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.IdentityCacheLookupsTotal.WithLabelValues("miss").Inc()

	identity, err := uc.Store.GetIdentity(ctx, principalID)
	if err != nil {
		return nil, failClosed(err)
	}
	if err := uc.Cache.Put(ctx, key, *identity, uc.CacheTTL); err != nil {
		// The decision already came from the authoritative store; a failed
		// populate only costs the next request a re-fetch.
		slog.Warn("identity cache populate failed", "error", err)
	}
	return identity, nil
}

// failClosed maps infrastructure errors to ServiceUnavailable while letting
// the auth-failure kinds through unchanged.
func failClosed(err error) error {
	if domain.IsAuthFailure(err) {
		return err
	}
	slog.Error("identity resolution infrastructure failure", "error", err)
	return domain.ErrServiceUnavailable
}
