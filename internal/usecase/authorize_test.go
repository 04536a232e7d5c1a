package usecase

import (
	"errors"
	"testing"

	"gatekeeper/internal/domain"
)

func resolutionFor(identity domain.Identity, method domain.CredentialKind, scopes []string) *Resolution {
	return &Resolution{Identity: identity, Method: method, Scopes: scopes}
}

func TestAuthorize_ActiveCallerAllowed(t *testing.T) {
	res := resolutionFor(activeIdentity("u1", "t1", domain.RoleAdmin), domain.CredentialBearer, nil)
	if err := Authorize(res, RequireRole(domain.RoleAdmin)); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := Authorize(res, AnyAuthenticated()); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorize_TenantInactive(t *testing.T) {
	// Token signed for an admin of t1, but t1 is inactive: denied before
	// any principal-level check.
	identity := activeIdentity("u1", "t1", domain.RoleAdmin)
	identity.Tenant.Status = domain.TenantStatusInactive
	res := resolutionFor(identity, domain.CredentialBearer, nil)

	if err := Authorize(res, RequireRole(domain.RoleAdmin)); !errors.Is(err, domain.ErrTenantInactive) {
		t.Fatalf("expected ErrTenantInactive, got %v", err)
	}
}

func TestAuthorize_TenantSuspended(t *testing.T) {
	identity := activeIdentity("u1", "t1", domain.RoleUser)
	identity.Tenant.Status = domain.TenantStatusSuspended
	res := resolutionFor(identity, domain.CredentialBearer, nil)

	if err := Authorize(res, AnyAuthenticated()); !errors.Is(err, domain.ErrTenantInactive) {
		t.Fatalf("expected ErrTenantInactive, got %v", err)
	}
}

func TestAuthorize_AccountInactive(t *testing.T) {
	identity := activeIdentity("u1", "t1", domain.RoleUser)
	identity.Principal.IsActive = false
	res := resolutionFor(identity, domain.CredentialBearer, nil)

	if err := Authorize(res, AnyAuthenticated()); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthorize_RoleExactMatchOnly(t *testing.T) {
	// Flat role model: ADMIN does not satisfy a USER requirement.
	admin := resolutionFor(activeIdentity("u1", "t1", domain.RoleAdmin), domain.CredentialBearer, nil)
	if err := Authorize(admin, RequireRole(domain.RoleUser)); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}

	user := resolutionFor(activeIdentity("u2", "t1", domain.RoleUser), domain.CredentialBearer, nil)
	if err := Authorize(user, RequireRole(domain.RoleAdmin)); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestAuthorize_NoPrincipal(t *testing.T) {
	// Optional-auth path reaching a required check with nothing attached.
	if err := Authorize(nil, RequireRole(domain.RoleUser)); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_Scopes(t *testing.T) {
	identity := activeIdentity("u1", "t1", domain.RoleUser)

	readOnly := resolutionFor(identity, domain.CredentialAPIKey, []string{"instances:read"})
	if err := Authorize(readOnly, RequireScope("instances:read")); err != nil {
		t.Fatalf("expected allow for granted scope, got %v", err)
	}
	if err := Authorize(readOnly, RequireScope("instances:write")); !errors.Is(err, domain.ErrInsufficientScope) {
		t.Fatalf("expected ErrInsufficientScope, got %v", err)
	}

	wildcard := resolutionFor(identity, domain.CredentialAPIKey, []string{domain.ScopeWildcard})
	if err := Authorize(wildcard, RequireScope("instances:write")); err != nil {
		t.Fatalf("expected wildcard allow, got %v", err)
	}

	// Session callers are not scope-restricted; scopes bind API keys only.
	session := resolutionFor(identity, domain.CredentialSession, nil)
	if err := Authorize(session, RequireScope("instances:write")); err != nil {
		t.Fatalf("expected session caller allow, got %v", err)
	}
}
