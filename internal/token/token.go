// Package token issues and verifies the stateless bearer credentials used by
// the API. Tokens are HS256-signed JWTs carrying identity claims; nothing is
// stored server-side and early revocation is not supported.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/shared"
)

// Claims is the payload carried by every issued token. TenantID is nil for
// super_admin accounts, which are tenant-less by invariant.
type Claims struct {
	UserID   int64      `json:"user_id"`
	TenantID *int64     `json:"tenant_id"`
	Role     roles.Name `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies bearer tokens with a process-wide secret.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewService constructs a Service. Rotating the secret invalidates all
// outstanding tokens.
func NewService(secret, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given identity, expiring TTL after issuance.
func (s *Service) Issue(userID int64, tenantID *int64, role roles.Name) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses the raw token and returns its claims. Any structural,
// signature, or expiry failure maps to shared.ErrInvalidToken. No storage is
// consulted; the claims prove identity only, not current privileges.
func (s *Service) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, shared.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
