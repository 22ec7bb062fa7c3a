package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

type claimsKey struct{}

// Auth rejects requests without a valid Bearer token and stores the claims
// in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Debug("rejected token", "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		log := logger.WithCtx(ctx).With("user_id", claims.UserID)
		ctx = logger.InjectLogger(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Claims returns the claims stored by Auth, or nil.
func Claims(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

// UserID returns the authenticated user id, or 0.
func UserID(ctx context.Context) uint {
	if c := Claims(ctx); c != nil {
		return c.UserID
	}
	return 0
}
