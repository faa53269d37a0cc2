package admintoken

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "admin-auth"
	TTL        = time.Hour
)

var (
	ErrNoSecret     = errors.New("token secret not configured")
	ErrInvalidToken = errors.New("invalid admin token")
)

type Claims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Mint signs a fresh admin token valid for TTL from now.
func Mint(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	claims := Claims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify accepts only HMAC-signed, unexpired tokens carrying isAdmin=true.
func Verify(secret, token string, now time.Time) error {
	if secret == "" {
		return ErrNoSecret
	}
	if token == "" {
		return ErrInvalidToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.IsAdmin {
		return fmt.Errorf("%w: not an admin token", ErrInvalidToken)
	}
	return nil
}

// CheckPassword compares the submitted password to the configured one,
// which may be a bcrypt hash.
func CheckPassword(configured, submitted string) bool {
	if configured == "" {
		return false
	}
	if isBcrypt(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
