package middleware

import (
	"context"
	"net/http"

	"github.com/ticketline/server/internal/api/apierror"
	"github.com/ticketline/server/internal/auth"
)

type contextKeyAuth string

const claimsKey contextKeyAuth = "claims"

// RequireAuth rejects requests without a verified bearer token before any
// handler or store access runs. Verified claims are placed on the request
// context; nothing else about the request is touched.
func RequireAuth(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				apierror.Write(w, r, http.StatusUnauthorized, apierror.KindUnauthorized, "Unauthorized", auth.ErrInvalidToken)
				return
			}

			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				apierror.Write(w, r, http.StatusUnauthorized, apierror.KindUnauthorized, "Missing bearer token", err)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				apierror.Write(w, r, http.StatusUnauthorized, apierror.KindUnauthorized, "Invalid token", err)
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified claims, or nil when the request was
// not authenticated.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
