package db

import (
	"context"
	"errors"
	"time"

	"gatekeeper/internal/domain"

	"gorm.io/gorm"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, rec domain.APIKeyRecord) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := APIKeyModel{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		TenantID:  rec.TenantID,
		KeyHash:   rec.KeyHash,
		Prefix:    rec.Prefix,
		Suffix:    rec.Suffix,
		Scopes:    joinScopes(rec.Scopes),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// GetByHash looks a key up by its SHA-256 digest. Revoked and expired
// records are returned as-is; the validator decides how to reject them.
func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*domain.APIKeyRecord, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model APIKeyModel
	err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	rec := model.toDomain()
	return &rec, nil
}

func (r *APIKeyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.APIKeyRecord, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []APIKeyModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	records := make([]domain.APIKeyRecord, 0, len(models))
	for _, m := range models {
		records = append(records, m.toDomain())
	}
	return records, nil
}

// Revoke tombstones a key after checking ownership. The record is returned
// so callers can evict the owner's cached identity.
func (r *APIKeyRepository) Revoke(ctx context.Context, keyID, ownerID string, at time.Time) (*domain.APIKeyRecord, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model APIKeyModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", keyID).Take(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrKeyNotFound
			}
			return err
		}
		if model.OwnerID != ownerID {
			return domain.ErrForbidden
		}
		if model.RevokedAt != nil {
			return nil
		}
		model.RevokedAt = &at
		return tx.Model(&APIKeyModel{}).
			Where("id = ?", keyID).
			UpdateColumn("revoked_at", at).Error
	})
	if err != nil {
		return nil, err
	}
	rec := model.toDomain()
	return &rec, nil
}

// TouchLastUsed records key usage. Callers run it off the request path;
// failures are not allowed to affect the authorization decision.
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, keyID string, at time.Time) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).
		Model(&APIKeyModel{}).
		Where("id = ?", keyID).
		UpdateColumn("last_used_at", at).Error
}
