package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gatekeeper/internal/domain"
)

type Login struct {
	Store    IdentityStore
	Tokens   TokenIssuer
	TokenTTL time.Duration
}

// Execute verifies the password and issues a session token. A wrong email
// and a wrong password are indistinguishable to the caller.
func (uc *Login) Execute(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidLogin
	}

	principal, passwordHash, err := uc.Store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return "", nil, domain.ErrInvalidLogin
		}
		return "", nil, failClosed(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidLogin
	}

	identity, err := uc.Store.GetIdentity(ctx, principal.ID)
	if err != nil {
		return "", nil, failClosed(err)
	}
	if identity.Tenant.Status != domain.TenantStatusActive {
		return "", nil, domain.ErrTenantInactive
	}
	if !identity.Principal.IsActive {
		return "", nil, domain.ErrAccountInactive
	}

	raw, err := uc.Tokens.Issue(identity.Principal.ID, identity.Tenant.ID, identity.Principal.Role, uc.TokenTTL)
	if err != nil {
		return "", nil, failClosed(err)
	}
	return raw, identity, nil
}
