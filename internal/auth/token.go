// Package auth issues and verifies the cookie session tokens of both
// applications and hashes account passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role tells which kind of account a session belongs to.
type Role string

const (
	RoleParent   Role = "parent"
	RoleChild    Role = "child"
	RoleIdentity Role = "identity"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims is the JWT payload. Subject is the account ID.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Session is the verified identity attached to a request.
type Session struct {
	TokenID   string
	SubjectID string
	Role      Role
	ExpiresAt time.Time
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer creates an issuer; issuer names the application ("chat" or "web")
// so a token minted by one app is rejected by the other.
func NewTokenIssuer(secret string, ttl time.Duration, issuer string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for subject with the given role.
func (i *TokenIssuer) Issue(subjectID string, role Role) (string, Session, error) {
	now := i.now()
	s := Session{
		TokenID:   uuid.NewString(),
		SubjectID: subjectID,
		Role:      role,
		ExpiresAt: now.Add(i.ttl),
	}
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID,
			Subject:   subjectID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, s, nil
}

// Parse verifies a token and returns its session.
func (i *TokenIssuer) Parse(tokenString string) (Session, error) {
	if tokenString == "" {
		return Session{}, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return Session{}, ErrInvalidToken
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return Session{
		TokenID:   claims.ID,
		SubjectID: claims.Subject,
		Role:      claims.Role,
		ExpiresAt: exp,
	}, nil
}
