package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gatekeeper/internal/domain"
)

const (
	rawKeyPrefix  = "gk_"
	rawKeyBytes   = 24
	displayPrefix = 8
	displaySuffix = 4
)

type ManageAPIKeys struct {
	Keys  APIKeyStore
	Cache IdentityCache
	Now   func() time.Time
}

func (uc *ManageAPIKeys) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// Create mints a scoped key for the owner. The raw key is returned exactly
// once; only its digest is persisted.
func (uc *ManageAPIKeys) Create(ctx context.Context, ownerID, tenantID string, scopes []string, expiresAt *time.Time) (*domain.APIKeyRecord, string, error) {
	if ownerID == "" || tenantID == "" {
		return nil, "", domain.ErrMalformedCredential
	}
	if len(scopes) == 0 {
		scopes = []string{domain.ScopeWildcard}
	}

	raw, err := generateRawKey()
	if err != nil {
		return nil, "", err
	}

	rec := domain.APIKeyRecord{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		TenantID:  tenantID,
		KeyHash:   domain.HashAPIKey(raw),
		Prefix:    raw[:displayPrefix],
		Suffix:    raw[len(raw)-displaySuffix:],
		Scopes:    scopes,
		CreatedAt: uc.now(),
		ExpiresAt: expiresAt,
	}
	if err := uc.Keys.Create(ctx, rec); err != nil {
		return nil, "", failClosed(err)
	}
	return &rec, raw, nil
}

// List returns the owner's keys in display form only; raw material is
// irrecoverable.
func (uc *ManageAPIKeys) List(ctx context.Context, ownerID string) ([]domain.APIKeyRecord, error) {
	records, err := uc.Keys.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, failClosed(err)
	}
	return records, nil
}

// Revoke tombstones the key and immediately evicts the owner's cached
// identity, so revocation takes effect without waiting out the cache TTL.
func (uc *ManageAPIKeys) Revoke(ctx context.Context, keyID, ownerID string) error {
	rec, err := uc.Keys.Revoke(ctx, keyID, ownerID, uc.now())
	if err != nil {
		return failClosed(err)
	}
	if err := uc.Cache.Delete(ctx, domain.IdentityCacheKey(rec.OwnerID)); err != nil {
		slog.Warn("identity cache eviction failed after revoke", "owner_id", rec.OwnerID, "error", err)
	}
	return nil
}

func generateRawKey() (string, error) {
	buf := make([]byte, rawKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return rawKeyPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
