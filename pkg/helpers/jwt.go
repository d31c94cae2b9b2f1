package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/portfoliopro/portfoliopro/internal/domain/entity"
)

// JWTManager handles generation and validation of JWT token pairs.
// Access and refresh tokens are signed with separate HS256 secrets.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// Claims carry the tenant identity alongside the session id, so the
// admin panel can render without an extra user fetch. ImpersonatorID is
// set only on tokens minted through the superadmin impersonation flow.
type Claims struct {
	UserID         string      `json:"uid"`
	SessionID      string      `json:"sid"`
	Subdomain      string      `json:"sub_label,omitempty"`
	Role           entity.Role `json:"role,omitempty"`
	ImpersonatorID string      `json:"imp,omitempty"`
	jwt.RegisteredClaims
}

// Impersonated reports whether the token was minted for an impersonation
// session.
func (c *Claims) Impersonated() bool { return c.ImpersonatorID != "" }

// Identity is what goes into a freshly minted pair.
type Identity struct {
	UserID         string
	SessionID      string
	Subdomain      string
	Role           entity.Role
	ImpersonatorID string
}

func (m *JWTManager) generate(id Identity, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:         id.UserID,
		SessionID:      id.SessionID,
		Subdomain:      id.Subdomain,
		Role:           id.Role,
		ImpersonatorID: id.ImpersonatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) GenerateAccessToken(id Identity) (string, time.Time, error) {
	return m.generate(id, m.AccessSecret, m.AccessTTL)
}

func (m *JWTManager) GenerateRefreshToken(id Identity) (string, time.Time, error) {
	return m.generate(id, m.RefreshSecret, m.RefreshTTL)
}

// GenerateAccessTokenTTL mints an access token with an explicit TTL, used
// for short-lived impersonation sessions.
func (m *JWTManager) GenerateAccessTokenTTL(id Identity, ttl time.Duration) (string, time.Time, error) {
	return m.generate(id, m.AccessSecret, ttl)
}

// GenerateRefreshTokenTTL mints a refresh token with an explicit TTL.
func (m *JWTManager) GenerateRefreshTokenTTL(id Identity, ttl time.Duration) (string, time.Time, error) {
	return m.generate(id, m.RefreshSecret, ttl)
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.AccessSecret)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.RefreshSecret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
