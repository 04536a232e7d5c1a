package db

import (
	"strings"
	"time"

	"gatekeeper/internal/domain"
)

type TenantModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Plan      string    `gorm:"not null"`
	Status    string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TenantModel) TableName() string {
	return "tenants"
}

type UserModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	TenantID     string    `gorm:"type:uuid;index;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type APIKeyModel struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	OwnerID    string     `gorm:"type:uuid;index;not null"`
	TenantID   string     `gorm:"type:uuid;index;not null"`
	KeyHash    string     `gorm:"uniqueIndex;not null"`
	Prefix     string     `gorm:"not null"`
	Suffix     string     `gorm:"not null"`
	Scopes     string     `gorm:"not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	RevokedAt  *time.Time
}

func (APIKeyModel) TableName() string {
	return "api_keys"
}

// Models lists every table for migration wiring in cmd.
func Models() []any {
	return []any{&TenantModel{}, &UserModel{}, &APIKeyModel{}}
}

func (m APIKeyModel) toDomain() domain.APIKeyRecord {
	return domain.APIKeyRecord{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		TenantID:   m.TenantID,
		KeyHash:    m.KeyHash,
		Prefix:     m.Prefix,
		Suffix:     m.Suffix,
		Scopes:     splitScopes(m.Scopes),
		CreatedAt:  m.CreatedAt,
		LastUsedAt: m.LastUsedAt,
		ExpiresAt:  m.ExpiresAt,
		RevokedAt:  m.RevokedAt,
	}
}

// Scopes are immutable after creation and stored space-separated.
func splitScopes(raw string) []string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}
