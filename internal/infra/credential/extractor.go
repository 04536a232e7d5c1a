// Package credential turns a request's headers and cookies into exactly one
// typed credential.
package credential

import (
	"net/http"
	"strings"

	"gatekeeper/internal/domain"
)

const (
	DefaultAPIKeyHeader  = "X-API-Key"
	DefaultSessionCookie = "gk_session"
)

type Extractor struct {
	apiKeyHeader  string
	sessionCookie string
}

func NewExtractor() *Extractor {
	return &Extractor{
		apiKeyHeader:  DefaultAPIKeyHeader,
		sessionCookie: DefaultSessionCookie,
	}
}

// FromRequest resolves the request's credential. Precedence when both are
// present: the API-key header wins over the Authorization header. The
// session cookie is a bearer-equivalent fallback when neither header is set.
func (e *Extractor) FromRequest(r *http.Request) (domain.Credential, error) {
	if raw := r.Header.Get(e.apiKeyHeader); raw != "" {
		return domain.Credential{Kind: domain.CredentialAPIKey, Raw: raw}, nil
	}

	if header := r.Header.Get("Authorization"); header != "" {
		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") {
			return domain.Credential{}, domain.ErrMalformedCredential
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return domain.Credential{}, domain.ErrMalformedCredential
		}
		return domain.Credential{Kind: domain.CredentialBearer, Raw: raw}, nil
	}

	if cookie, err := r.Cookie(e.sessionCookie); err == nil && cookie.Value != "" {
		return domain.Credential{Kind: domain.CredentialSession, Raw: cookie.Value}, nil
	}

	return domain.Credential{}, domain.ErrMissingCredential
}
