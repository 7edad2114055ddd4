package fanout

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrUnauthenticated is returned for missing or invalid subscriber tokens
var ErrUnauthenticated = errors.New("unauthenticated")

// IssueToken signs a subscriber token for userID.
func IssueToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates an HS256 token and returns its subject.
func ParseToken(secret []byte, token string) (string, error) {
	if len(secret) == 0 {
		return "", errors.Wrap(ErrUnauthenticated, "no signing secret configured")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Wrap(ErrUnauthenticated, err.Error())
	}
	if claims.Subject == "" {
		return "", errors.Wrap(ErrUnauthenticated, "token has no subject")
	}
	return claims.Subject, nil
}

// RequestToken returns the bearer token of r, taken from the token query
// parameter or the Authorization header.
func RequestToken(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
