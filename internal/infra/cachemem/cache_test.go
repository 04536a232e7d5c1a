package cachemem

import (
	"context"
	"testing"
	"time"

	"gatekeeper/internal/domain"
)

func testIdentity() domain.Identity {
	return domain.Identity{
		Principal: domain.Principal{ID: "u1", Email: "a@b.c", Role: domain.RoleUser, IsActive: true, TenantID: "t1"},
		Tenant:    domain.Tenant{ID: "t1", Name: "acme", Plan: "pro", Status: domain.TenantStatusActive},
	}
}

func TestCache_PutGet(t *testing.T) {
	c := New(nil)
	ctx := context.Background()
	key := domain.IdentityCacheKey("u1")

	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	if err := c.Put(ctx, key, testIdentity(), 300*time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Principal.ID != "u1" || got.Tenant.ID != "t1" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	c := New(func() time.Time { return now })
	ctx := context.Background()
	key := domain.IdentityCacheKey("u1")

	if err := c.Put(ctx, key, testIdentity(), 300*time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(299 * time.Second)
	if _, ok, _ := c.Get(ctx, key); !ok {
		t.Fatal("entry expired before TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("entry survived past TTL")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(nil)
	ctx := context.Background()
	key := domain.IdentityCacheKey("u1")

	if err := c.Put(ctx, key, testIdentity(), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatal("entry survived explicit invalidation")
	}
}
