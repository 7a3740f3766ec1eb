// Package auth provides bearer token issuance/validation and password hashing.
//
// Tokens are HS256 JWTs whose jti claim is also persisted server-side; a token
// is accepted only while its jti row exists, which makes individual revocation
// (logout) and revoke-all-on-login effective despite the stateless signature.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "receitas-api"

// TokenService signs and verifies bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of random data in production; ttl is the token lifetime.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate creates a signed token for the user and returns the token string
// together with its jti, which the caller persists for later revocation.
func (s *TokenService) Generate(userID int64) (token string, jti string, err error) {
	return s.generate(userID, s.ttl)
}

// GenerateWithTTL creates a token with a custom lifetime. Used in tests to
// produce already-expired tokens.
func (s *TokenService) GenerateWithTTL(userID int64, ttl time.Duration) (string, string, error) {
	return s.generate(userID, ttl)
}

func (s *TokenService) generate(userID int64, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := xid.New().String()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, jti, nil
}

// Validate verifies the signature, expiry and issuer of a token string and
// returns the user id and jti it carries. Callers must still check that the
// jti has not been revoked.
func (s *TokenService) Validate(tokenStr string) (userID int64, jti string, err error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", fmt.Errorf("auth: token expired")
		}
		return 0, "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("auth: invalid token claims")
	}
	if c.ID == "" {
		return 0, "", fmt.Errorf("auth: token has no jti")
	}

	userID, err = strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", fmt.Errorf("auth: token has an invalid subject")
	}

	return userID, c.ID, nil
}
