package db

import (
	"context"
	"errors"

	"gatekeeper/internal/domain"

	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("database unavailable")

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

type identityRow struct {
	ID           string
	Email        string
	Role         string
	IsActive     bool
	TenantID     string
	TenantName   string
	TenantPlan   string
	TenantStatus string
}

// GetIdentity fetches the principal and its tenant in one read. A missing
// row is an authentication failure, not a server error.
func (r *IdentityRepository) GetIdentity(ctx context.Context, principalID string) (*domain.Identity, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var row identityRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.email, users.role, users.is_active, users.tenant_id, " +
			"tenants.name AS tenant_name, tenants.plan AS tenant_plan, tenants.status AS tenant_status").
		Joins("JOIN tenants ON tenants.id = users.tenant_id").
		Where("users.id = ?", principalID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &domain.Identity{
		Principal: domain.Principal{
			ID:       row.ID,
			Email:    row.Email,
			Role:     domain.Role(row.Role),
			IsActive: row.IsActive,
			TenantID: row.TenantID,
		},
		Tenant: domain.Tenant{
			ID:     row.TenantID,
			Name:   row.TenantName,
			Plan:   row.TenantPlan,
			Status: domain.TenantStatus(row.TenantStatus),
		},
	}, nil
}

// GetByEmail returns the principal and its stored password hash for login.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, string, error) {
	if r.db == nil {
		return nil, "", errDBUnavailable
	}
	var user UserModel
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrPrincipalNotFound
		}
		return nil, "", err
	}
	return &domain.Principal{
		ID:       user.ID,
		Email:    user.Email,
		Role:     domain.Role(user.Role),
		IsActive: user.IsActive,
		TenantID: user.TenantID,
	}, user.PasswordHash, nil
}
