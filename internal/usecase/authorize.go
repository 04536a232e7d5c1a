package usecase

import "gatekeeper/internal/domain"

// Requirement names the capability an endpoint demands: either an exact
// role or an API-key scope. Role matching is flat, ADMIN does not imply
// USER.
type Requirement struct {
	Role  domain.Role
	Scope string
}

func RequireRole(role domain.Role) Requirement {
	return Requirement{Role: role}
}

func RequireScope(scope string) Requirement {
	return Requirement{Scope: scope}
}

// AnyAuthenticated demands a resolved principal but no particular
// capability.
func AnyAuthenticated() Requirement {
	return Requirement{}
}

// Authorize issues the allow/deny decision for a resolved caller. Each
// check is independently fatal and ordered so tenant standing is decided
// before anything about the principal.
func Authorize(res *Resolution, req Requirement) error {
	if res == nil {
		return domain.ErrUnauthenticated
	}
	if res.Identity.Tenant.Status != domain.TenantStatusActive {
		return domain.ErrTenantInactive
	}
	if !res.Identity.Principal.IsActive {
		return domain.ErrAccountInactive
	}
	if req.Role != "" && res.Identity.Principal.Role != req.Role {
		return domain.ErrInsufficientRole
	}
	if req.Scope != "" && res.Method == domain.CredentialAPIKey {
		key := domain.APIKeyRecord{Scopes: res.Scopes}
		if !key.HasScope(req.Scope) {
			return domain.ErrInsufficientScope
		}
	}
	return nil
}
