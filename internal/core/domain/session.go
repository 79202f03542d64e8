package domain

import "context"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleTill    = "till"
)

// Fixed storage keys for the three session fields.
const (
	KeyToken    = "hospos_token"
	KeyRole     = "hospos_role"
	KeyUsername = "hospos_username"
)

// Session is the credential a client holds after login or till linking.
// An empty field means the value is unset.
type Session struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Authenticated reports whether both token and role are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != ""
}

// HasRole reports whether the session role is one of allowed.
func (s Session) HasRole(allowed ...string) bool {
	for _, r := range allowed {
		if r == s.Role {
			return true
		}
	}
	return false
}

// Fields returns the session keyed by the fixed storage names.
func (s Session) Fields() map[string]string {
	return map[string]string{
		KeyToken:    s.Token,
		KeyRole:     s.Role,
		KeyUsername: s.Username,
	}
}

// SessionFromFields rebuilds a session from stored key/value pairs. Missing
// keys yield empty fields.
func SessionFromFields(fields map[string]string) Session {
	return Session{
		Token:    fields[KeyToken],
		Role:     fields[KeyRole],
		Username: fields[KeyUsername],
	}
}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored in ctx, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// AuthResult is the backend's answer to a name+PIN login.
type AuthResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// Credentials are validated before they are sent to the backend.
type Credentials struct {
	Name string `json:"name" validate:"required"`
	Pin  string `json:"pin"  validate:"required,pin"`
}
