package domain

type CredentialKind string

const (
	CredentialBearer  CredentialKind = "bearer"
	CredentialSession CredentialKind = "session"
	CredentialAPIKey  CredentialKind = "api_key"
)

// Credential is the typed form of whatever the request carried. It lives
// only for the duration of one request's resolution and is never persisted.
type Credential struct {
	Kind CredentialKind
	Raw  string
}
