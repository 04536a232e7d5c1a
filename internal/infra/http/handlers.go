package http

import (
	"net/http"
	"time"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/infra/credential"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type principalResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

type tenantResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

func toPrincipalResponse(p domain.Principal) principalResponse {
	return principalResponse{ID: p.ID, Email: p.Email, Role: string(p.Role), TenantID: p.TenantID}
}

func toTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, Plan: t.Plan, Status: string(t.Status)}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "email and password are required")
		return
	}

	token, identity, err := s.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	// Browser callers ride the session cookie; API callers take the token
	// from the body.
	c.SetCookie(credential.DefaultSessionCookie, token, int(s.tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(s.tokenTTL.Seconds()),
		"principal":  toPrincipalResponse(identity.Principal),
	})
}

func (s *Server) handleMe(c *gin.Context) {
	res, ok := ResolutionFrom(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}
	body := gin.H{
		"principal":   toPrincipalResponse(res.Identity.Principal),
		"tenant":      toTenantResponse(res.Identity.Tenant),
		"auth_method": string(res.Method),
	}
	if res.Method == domain.CredentialAPIKey {
		body["scopes"] = res.Scopes
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleStatus(c *gin.Context) {
	res, ok := ResolutionFrom(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"principal_id":  res.Identity.Principal.ID,
		"tenant_id":     res.Identity.Tenant.ID,
	})
}

type createKeyRequest struct {
	Scopes    []string   `json:"scopes"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type apiKeyResponse struct {
	ID        string     `json:"id"`
	Key       string     `json:"key"`
	Scopes    []string   `json:"scopes"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Revoked   bool       `json:"revoked"`
}

func toAPIKeyResponse(rec domain.APIKeyRecord) apiKeyResponse {
	return apiKeyResponse{
		ID:        rec.ID,
		Key:       rec.Display(),
		Scopes:    rec.Scopes,
		CreatedAt: rec.CreatedAt,
		LastUsed:  rec.LastUsedAt,
		ExpiresAt: rec.ExpiresAt,
		Revoked:   rec.Revoked(),
	}
}

func (s *Server) handleCreateKey(c *gin.Context) {
	res, ok := ResolutionFrom(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	var req createKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed request body")
		return
	}

	rec, raw, err := s.keyManager.Create(c.Request.Context(),
		res.Identity.Principal.ID, res.Identity.Tenant.ID, req.Scopes, req.ExpiresAt)
	if err != nil {
		writeError(c, err)
		return
	}

	// The only response that ever carries the raw key.
	c.JSON(http.StatusCreated, gin.H{
		"id":         rec.ID,
		"key":        raw,
		"display":    rec.Display(),
		"scopes":     rec.Scopes,
		"created_at": rec.CreatedAt,
		"expires_at": rec.ExpiresAt,
	})
}

func (s *Server) handleListKeys(c *gin.Context) {
	res, ok := ResolutionFrom(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	records, err := s.keyManager.List(c.Request.Context(), res.Identity.Principal.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	keys := make([]apiKeyResponse, 0, len(records))
	for _, rec := range records {
		keys = append(keys, toAPIKeyResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

func (s *Server) handleRevokeKey(c *gin.Context) {
	res, ok := ResolutionFrom(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	if err := s.keyManager.Revoke(c.Request.Context(), c.Param("id"), res.Identity.Principal.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// The instance endpoints stand in for the platform resources this service
// fronts; they demonstrate the scope-guarded surface without pulling a
// provisioning backend into this module.
func (s *Server) handleListInstances(c *gin.Context) {
	res, _ := ResolutionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"tenant_id": res.Identity.Tenant.ID,
		"instances": []gin.H{},
	})
}

func (s *Server) handleCreateInstance(c *gin.Context) {
	res, _ := ResolutionFrom(c)
	c.JSON(http.StatusAccepted, gin.H{
		"tenant_id": res.Identity.Tenant.ID,
		"status":    "provisioning",
	})
}

func (s *Server) handleAdminTenant(c *gin.Context) {
	res, _ := ResolutionFrom(c)
	c.JSON(http.StatusOK, gin.H{"tenant": toTenantResponse(res.Identity.Tenant)})
}
