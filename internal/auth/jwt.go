package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Access and refresh tokens share the signing secret, so the type claim
// is what keeps a short-lived access token from being replayed as a
// refresh token (and vice versa). Consumers must check it after Parse.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Manager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// Claims carries the account id in Subject and the role that every access
// check derives from. The role is resolved once at token issue time and
// threaded through as a claim, never re-derived per page.
type Claims struct {
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (m *Manager) newToken(userID, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) NewAccessToken(userID, role string) (string, error) {
	return m.newToken(userID, role, TokenTypeAccess, m.AccessTTL)
}

func (m *Manager) NewRefreshToken(userID, role string) (string, error) {
	return m.newToken(userID, role, TokenTypeRefresh, m.RefreshTTL)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
