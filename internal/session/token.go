package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether tok is a JWT whose exp claim is before now.
// Opaque tokens and JWTs without exp are never considered expired; the
// signature is not checked since the client does not hold the key.
func tokenExpired(tok string, now time.Time) bool {
	if strings.Count(tok, ".") != 2 {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}

// TokenExpiry returns the exp claim of a JWT, if it has one.
func TokenExpiry(tok string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
