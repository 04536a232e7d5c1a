package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/cachemem"
)

func newManager(keys *fakeAPIKeyStore, cache IdentityCache) *ManageAPIKeys {
	return &ManageAPIKeys{Keys: keys, Cache: cache, Now: fixedNow}
}

func TestManageAPIKeys_CreateReturnsRawOnce(t *testing.T) {
	keys := newFakeAPIKeyStore()
	uc := newManager(keys, cachemem.New(fixedNow))

	rec, raw, err := uc.Create(context.Background(), "u1", "t1", []string{"instances:read"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(raw, "gk_") {
		t.Fatalf("raw key missing prefix: %q", raw)
	}
	if rec.KeyHash != domain.HashAPIKey(raw) {
		t.Fatal("stored hash does not match raw key digest")
	}
	if rec.KeyHash == raw || strings.Contains(rec.Display(), raw) {
		t.Fatal("raw key leaked into the persisted record")
	}

	stored, ok := keys.records[rec.ID]
	if !ok {
		t.Fatal("record not persisted")
	}
	if stored.Prefix != raw[:8] || stored.Suffix != raw[len(raw)-4:] {
		t.Fatalf("display parts mismatch: prefix=%q suffix=%q", stored.Prefix, stored.Suffix)
	}
}

func TestManageAPIKeys_CreateUniqueKeys(t *testing.T) {
	keys := newFakeAPIKeyStore()
	uc := newManager(keys, cachemem.New(fixedNow))

	_, raw1, err := uc.Create(context.Background(), "u1", "t1", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, raw2, err := uc.Create(context.Background(), "u1", "t1", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if raw1 == raw2 {
		t.Fatal("two keys shared raw material")
	}
}

func TestManageAPIKeys_ListMasksMaterial(t *testing.T) {
	keys := newFakeAPIKeyStore()
	uc := newManager(keys, cachemem.New(fixedNow))

	_, raw, err := uc.Create(context.Background(), "u1", "t1", []string{"instances:read"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	records, err := uc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	display := records[0].Display()
	if strings.Contains(display, raw) {
		t.Fatal("listing leaked raw key")
	}
	if !strings.HasPrefix(display, raw[:8]) || !strings.HasSuffix(display, raw[len(raw)-4:]) {
		t.Fatalf("display form unrecognizable: %q", display)
	}
}

func TestManageAPIKeys_RevokeEvictsIdentityCache(t *testing.T) {
	keys := newFakeAPIKeyStore()
	cache := cachemem.New(fixedNow)
	uc := newManager(keys, cache)
	ctx := context.Background()

	rec, _, err := uc.Create(ctx, "u1", "t1", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A hydrated identity is cached for the key's owner.
	cacheKey := domain.IdentityCacheKey("u1")
	if err := cache.Put(ctx, cacheKey, activeIdentity("u1", "t1", domain.RoleUser), 300*time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := uc.Revoke(ctx, rec.ID, "u1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Eviction is immediate, not left to TTL expiry.
	if _, ok, _ := cache.Get(ctx, cacheKey); ok {
		t.Fatal("identity cache entry survived revocation")
	}
	if got := keys.records[rec.ID]; got.RevokedAt == nil {
		t.Fatal("record not tombstoned")
	}
}

func TestManageAPIKeys_RevokeOwnership(t *testing.T) {
	keys := newFakeAPIKeyStore()
	uc := newManager(keys, cachemem.New(fixedNow))
	ctx := context.Background()

	rec, _, err := uc.Create(ctx, "u1", "t1", nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.Revoke(ctx, rec.ID, "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := uc.Revoke(ctx, "no-such-key", "u1"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestManageAPIKeys_RevokedKeyFailsResolution(t *testing.T) {
	// create -> resolve succeeds -> revoke -> same raw key fails, within one
	// process lifetime and without waiting for any TTL.
	keys := newFakeAPIKeyStore()
	cache := cachemem.New(fixedNow)
	manager := newManager(keys, cache)
	store := &fakeIdentityStore{identities: map[string]domain.Identity{
		"u1": activeIdentity("u1", "t1", domain.RoleUser),
	}}
	resolver := &ResolveIdentity{
		Tokens:   &staticTokenVerifier{},
		Keys:     keys,
		Cache:    cache,
		Store:    store,
		CacheTTL: 300 * time.Second,
		Now:      fixedNow,
	}
	ctx := context.Background()

	rec, raw, err := manager.Create(ctx, "u1", "t1", []string{"instances:read"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cred := domain.Credential{Kind: domain.CredentialAPIKey, Raw: raw}
	if _, err := resolver.Execute(ctx, cred); err != nil {
		t.Fatalf("resolve before revoke: %v", err)
	}

	if err := manager.Revoke(ctx, rec.ID, "u1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := resolver.Execute(ctx, cred); !errors.Is(err, domain.ErrKeyRevoked) {
		t.Fatalf("expected ErrKeyRevoked after revoke, got %v", err)
	}
}
