// Package auth provides credential hashing, signed-token issuance and
// verification, and the Gin middleware that guards protected routes.
//
// Tokens are HS256-signed JWTs carrying the user id and email. The token is
// the full credential: protected handlers scope every store lookup by the
// embedded user id and no server-side session exists. Tokens carry an expiry
// claim and verification enforces it.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, carries a bad
// signature, has expired, or lacks the expected claims.
var ErrInvalidToken = errors.New("invalid authentication credentials")

// Claims is the signed payload embedded in access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret and
// token lifetime. A ttl <= 0 falls back to 24 hours.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given user. The expiry claim is set to
// now + TTL.
func (t *TokenIssuer) Issue(userID, email string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a token, returning the embedded claims.
// Any parse, signature, or expiry failure yields ErrInvalidToken; the caller
// never learns which check failed.
func (t *TokenIssuer) Verify(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// TokenTTL reports the configured token lifetime.
func (t *TokenIssuer) TokenTTL() time.Duration {
	return t.ttl
}
