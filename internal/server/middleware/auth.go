// Package middleware authenticates API requests with bearer tokens.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ErrNoUser is returned by GetUserID outside an authenticated route.
var ErrNoUser = errors.New("no authenticated user in request context")

type userKey struct{}

// TokenValidator turns a raw bearer token into claims. The JWT service in
// the server package implements it.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's user in the request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(tokens, r)
			if !ok {
				Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func authenticate(tokens TokenValidator, r *http.Request) (uuid.UUID, bool) {
	raw, ok := BearerToken(r)
	if !ok {
		return uuid.Nil, false
	}
	claims, err := tokens.ValidateToken(raw)
	if err != nil {
		return uuid.Nil, false
	}
	id := claims.GetUserID()
	return id, id != uuid.Nil
}

// BearerToken extracts the credentials of an "Authorization: Bearer" header.
// The scheme is case-insensitive.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Unauthorized writes a 401 with a Bearer challenge. The body never says why
// the token was refused.
func Unauthorized(w http.ResponseWriter) {
	h := w.Header()
	h.Set("WWW-Authenticate", "Bearer")
	h.Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func GetUserID(r *http.Request) (uuid.UUID, error) {
	if id, ok := r.Context().Value(userKey{}).(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, ErrNoUser
}
