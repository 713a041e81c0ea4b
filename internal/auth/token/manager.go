package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// Manager signs and verifies HS256 bearer tokens for the portal's custom
// session. SSO tokens from the federated provider are not verified here.
type Manager struct {
	secret []byte
	issuer string
}

func NewManager(secret, issuer string) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer}
}

type claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func (m *Manager) Sign(username string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the subject and roles.
func (m *Manager) Verify(tok string) (string, []string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tok, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return "", nil, ErrInvalidToken
	}
	return c.Subject, c.Roles, nil
}
