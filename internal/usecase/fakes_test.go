package usecase

import (
	"context"
	"sync"
	"time"

	"gatekeeper/internal/domain"
)

type staticTokenVerifier struct {
	payload domain.TokenPayload
	err     error
}

func (v *staticTokenVerifier) Verify(raw string) (domain.TokenPayload, error) {
	if v.err != nil {
		return domain.TokenPayload{}, v.err
	}
	return v.payload, nil
}

type fakeIdentityStore struct {
	mu               sync.Mutex
	identities       map[string]domain.Identity
	passwords        map[string]string // email -> bcrypt hash
	getIdentityCalls int
	err              error
}

func (s *fakeIdentityStore) GetIdentity(ctx context.Context, principalID string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getIdentityCalls++
	if s.err != nil {
		return nil, s.err
	}
	identity, ok := s.identities[principalID]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return &identity, nil
}

func (s *fakeIdentityStore) GetByEmail(ctx context.Context, email string) (*domain.Principal, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, "", s.err
	}
	for _, identity := range s.identities {
		if identity.Principal.Email == email {
			principal := identity.Principal
			return &principal, s.passwords[email], nil
		}
	}
	return nil, "", domain.ErrPrincipalNotFound
}

type fakeAPIKeyStore struct {
	mu      sync.Mutex
	records map[string]domain.APIKeyRecord // id -> record
	touched chan string
	err     error
}

func newFakeAPIKeyStore() *fakeAPIKeyStore {
	return &fakeAPIKeyStore{
		records: make(map[string]domain.APIKeyRecord),
		touched: make(chan string, 8),
	}
}

func (s *fakeAPIKeyStore) Create(ctx context.Context, rec domain.APIKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *fakeAPIKeyStore) GetByHash(ctx context.Context, keyHash string) (*domain.APIKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, rec := range s.records {
		if rec.KeyHash == keyHash {
			found := rec
			return &found, nil
		}
	}
	return nil, domain.ErrKeyNotFound
}

func (s *fakeAPIKeyStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.APIKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.APIKeyRecord
	for _, rec := range s.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeAPIKeyStore) Revoke(ctx context.Context, keyID, ownerID string, at time.Time) (*domain.APIKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[keyID]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	if rec.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if rec.RevokedAt == nil {
		rec.RevokedAt = &at
		s.records[keyID] = rec
	}
	return &rec, nil
}

func (s *fakeAPIKeyStore) TouchLastUsed(ctx context.Context, keyID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	rec, ok := s.records[keyID]
	if ok {
		rec.LastUsedAt = &at
		s.records[keyID] = rec
	}
	select {
	case s.touched <- keyID:
	default:
	}
	return nil
}

type erroringCache struct {
	err error
}

func (c *erroringCache) Get(ctx context.Context, key string) (*domain.Identity, bool, error) {
	return nil, false, c.err
}

func (c *erroringCache) Put(ctx context.Context, key string, value domain.Identity, ttl time.Duration) error {
	return c.err
}

func (c *erroringCache) Delete(ctx context.Context, key string) error {
	return c.err
}

func activeIdentity(principalID, tenantID string, role domain.Role) domain.Identity {
	return domain.Identity{
		Principal: domain.Principal{
			ID:       principalID,
			Email:    principalID + "@example.com",
			Role:     role,
			IsActive: true,
			TenantID: tenantID,
		},
		Tenant: domain.Tenant{
			ID:     tenantID,
			Name:   "tenant-" + tenantID,
			Plan:   "pro",
			Status: domain.TenantStatusActive,
		},
	}
}
