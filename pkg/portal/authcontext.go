package portal

import (
	"sync"

	"github.com/golang-jwt/jwt/v4"
)

// Identity is the resolved current user.
type Identity struct {
	Username string
	Roles    []string
}

// HasRole checks exact membership in the role set. Substring matching is
// deliberately not supported; roles form a closed vocabulary.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type session struct {
	token    string
	identity Identity
}

// AuthContext resolves between two competing sessions: a custom
// credential-based session and a federated SSO session. The custom session
// always wins when both are present. Consumers read one identity and one
// bearer token; they never see the underlying session kinds.
type AuthContext struct {
	mu     sync.RWMutex
	custom *session
	sso    *session
	bus    *Bus
}

func NewAuthContext(bus *Bus) *AuthContext {
	return &AuthContext{bus: bus}
}

// SetCustomSession installs the credential-login session.
func (a *AuthContext) SetCustomSession(token string, id Identity) {
	a.mu.Lock()
	a.custom = &session{token: token, identity: id}
	a.mu.Unlock()
	a.announce()
}

// SetSSOSession installs the federated session.
func (a *AuthContext) SetSSOSession(token string, id Identity) {
	a.mu.Lock()
	a.sso = &session{token: token, identity: id}
	a.mu.Unlock()
	a.announce()
}

// ClearCustomSession drops the credential session; an SSO session, if any,
// becomes current.
func (a *AuthContext) ClearCustomSession() {
	a.mu.Lock()
	a.custom = nil
	a.mu.Unlock()
	a.announce()
}

// Clear drops both sessions.
func (a *AuthContext) Clear() {
	a.mu.Lock()
	a.custom = nil
	a.sso = nil
	a.mu.Unlock()
	a.announce()
}

func (a *AuthContext) current() *session {
	if a.custom != nil {
		return a.custom
	}
	return a.sso
}

// Token returns the bearer token of the current session, or "".
func (a *AuthContext) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if s := a.current(); s != nil {
		return s.token
	}
	return ""
}

// Identity returns the current identity; ok is false when no session exists.
func (a *AuthContext) Identity() (Identity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if s := a.current(); s != nil {
		return s.identity, true
	}
	return Identity{}, false
}

// Authenticated reports whether any session is active.
func (a *AuthContext) Authenticated() bool {
	_, ok := a.Identity()
	return ok
}

func (a *AuthContext) announce() {
	if a.bus == nil {
		return
	}
	id, _ := a.Identity()
	a.bus.Publish(Event{Kind: EventAuthChanged, Payload: id})
}

// DisplayClaims decodes the payload of tok without verifying its signature.
// The result is suitable only for optimistic UI display (name, avatar) while
// the canonical identity loads; it must never feed an authorization check.
func DisplayClaims(tok string) map[string]any {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return nil
	}
	return claims
}
