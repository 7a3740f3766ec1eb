package auth

import (
	"context"
	"net/http"
	"strings"

	"receitas-api/internal/repository"
)

// contextKey is unexported so only this package can read or write the
// identity values stored in a request context.
type contextKey string

const (
	userIDKey  contextKey = "userID"
	tokenIDKey contextKey = "tokenID"
)

const unauthorizedBody = `{"message":"Não autenticado."}`

// RequireAuth enforces bearer authentication on protected routes.
//
// It reads the Authorization header, verifies the JWT, and then checks that
// the token's jti still exists in the token repository: a token that was
// revoked by logout or by a newer login fails here even though its signature
// is still valid. On success the user id and token id are stored in the
// request context.
func RequireAuth(tokens *TokenService, store repository.TokenRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w)
				return
			}

			userID, jti, err := tokens.Validate(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			stored, err := store.GetToken(r.Context(), jti)
			if err != nil || stored.UserID != userID {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, tokenIDKey, jti)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's id, or false when the
// request did not pass RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// TokenIDFromContext returns the jti of the token that authenticated this
// request. Used by logout to revoke exactly the presented token.
func TokenIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tokenIDKey).(string)
	return id, ok && id != ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(unauthorizedBody))
}
