package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// ScopeWildcard grants every capability.
const ScopeWildcard = "*"

// APIKeyRecord is the persisted form of an API key. Only the SHA-256 digest
// of the raw key is stored; the prefix and suffix exist so a caller can
// recognize a key in listings without the raw material being recoverable.
type APIKeyRecord struct {
	ID         string
	OwnerID    string
	TenantID   string
	KeyHash    string
	Prefix     string
	Suffix     string
	Scopes     []string
	CreatedAt  time.Time
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	RevokedAt  *time.Time
}

func (r APIKeyRecord) Revoked() bool {
	return r.RevokedAt != nil
}

func (r APIKeyRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// HasScope reports whether the key grants the required scope, either
// literally or through the wildcard scope.
func (r APIKeyRecord) HasScope(required string) bool {
	for _, s := range r.Scopes {
		if s == required || s == ScopeWildcard {
			return true
		}
	}
	return false
}

// HashAPIKey is the platform's one-way hash for API key material. Lookup is
// by digest, so raw keys are never stored or logged.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Display renders the key for listings: fixed-length prefix and suffix with
// the middle replaced by a mask.
func (r APIKeyRecord) Display() string {
	return r.Prefix + strings.Repeat("*", 24) + r.Suffix
}
