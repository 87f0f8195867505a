// Package identity resolves the principal behind each request from signed
// bearer tokens. User registration and credential checks live outside this
// service; anything that can mint a valid token is trusted.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal identifies the user behind a request. The zero value is the
// anonymous principal.
type Principal struct {
	ID            string
	Authenticated bool
}

// Anonymous is the principal of requests without a valid token.
var Anonymous = Principal{}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the request principal, anonymous when none was resolved.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(ctxKey{}).(Principal)
	return p
}

// TokenAuth issues and verifies HS256 bearer tokens.
type TokenAuth struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenAuth(secret string, ttl time.Duration) *TokenAuth {
	return &TokenAuth{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for userID, expiring after the configured TTL.
func (a *TokenAuth) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	})
	return token.SignedString(a.secret)
}

// Parse verifies a token and returns the authenticated principal.
func (a *TokenAuth) Parse(tokenString string) (Principal, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Anonymous, err
	}
	if !token.Valid || claims.Subject == "" {
		return Anonymous, fmt.Errorf("token is invalid")
	}
	return Principal{ID: claims.Subject, Authenticated: true}, nil
}

// Middleware resolves the request principal from the Authorization header.
// Requests without a valid bearer token proceed as anonymous: rejecting them
// is a use-case decision, not a transport one.
func Middleware(auth *TokenAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := Anonymous
			if header := r.Header.Get("Authorization"); header != "" {
				parts := strings.Split(header, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					if parsed, err := auth.Parse(parts[1]); err == nil {
						p = parsed
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
