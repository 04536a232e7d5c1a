package domain

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusInactive  TenantStatus = "INACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

type Principal struct {
	ID       string
	Email    string
	Role     Role
	IsActive bool
	TenantID string
}

type Tenant struct {
	ID     string
	Name   string
	Plan   string
	Status TenantStatus
}

// Identity is the hydrated principal+tenant pair produced by resolution.
// Cached copies are time-bounded and always replaced wholesale.
type Identity struct {
	Principal Principal `json:"principal"`
	Tenant    Tenant    `json:"tenant"`
}

// IdentityCacheKey is the cache key for a principal's hydrated identity.
func IdentityCacheKey(principalID string) string {
	return "identity:" + principalID
}
