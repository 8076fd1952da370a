package utils // package utils provides helper functions for token creation and verification

import (
	"errors" // sentinel error for any kind of token rejection
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned whenever a token fails verification. The
// same value covers a bad signature, a malformed string and an expired
// token so that clients cannot distinguish between the cases.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried inside a signed token: the subject user
// ID plus the role the user held when the token was issued.
type Claims struct {
	UserID uint64
	Role   string
}

// SignedToken represents a signed HS256 JWT along with its expiry.  The
// Token field contains the serialized JWT string and Exp records the UTC
// expiration time.  Access and refresh tokens share this shape; they
// differ only in the secret used to sign them and in their lifetime.
type SignedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs a short-lived HS256 JWT for a user.
// The JWT carries the subject (sub), role, expiration (exp) and issued
// at (iat) claims.
func NewAccessToken(secret string, claims Claims, ttl time.Duration) (SignedToken, error) {
	return signToken(secret, claims, ttl)
}

// NewRefreshToken builds and signs a long-lived HS256 JWT for a user.
// Refresh tokens are signed with their own secret so an access token can
// never be replayed as a refresh token or the other way around.
func NewRefreshToken(refreshSecret string, claims Claims, ttl time.Duration) (SignedToken, error) {
	return signToken(refreshSecret, claims, ttl)
}

func signToken(secret string, c Claims, ttl time.Duration) (SignedToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":  c.UserID,
		"role": c.Role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a signed token against the given
// secret and returns its claims.  Expired, forged and malformed tokens
// all yield ErrInvalidToken.
func VerifyToken(raw, secret string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	// JWT numeric values decode as float64.
	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	return Claims{UserID: uint64(sub), Role: role}, nil
}

// RefreshAccess verifies a refresh token against the refresh secret and
// mints a fresh access token carrying the same claims.  Any verification
// failure is reported as ErrInvalidToken without detail.
func RefreshAccess(refreshRaw, refreshSecret, accessSecret string, accessTTL time.Duration) (SignedToken, error) {
	claims, err := VerifyToken(refreshRaw, refreshSecret)
	if err != nil {
		return SignedToken{}, ErrInvalidToken
	}
	return NewAccessToken(accessSecret, claims, accessTTL)
}
