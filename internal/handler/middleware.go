package handler

import (
	"context"
	"net/http"
	"strings"

	"notafiscal-server/internal/domain"
)

// AuthMiddleware validates Supabase JWT tokens
type AuthMiddleware struct {
	authService domain.AuthService
	logger      domain.Logger
}

func NewAuthMiddleware(authService domain.AuthService, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, logger: logger}
}

// Middleware rejects requests without a valid bearer token and stores the user
// and the token in the request context.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Token required")
			return
		}

		user, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.Warn("Token validation failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
