package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/ticketline/server/internal/domain/users"
	"github.com/ticketline/server/internal/metrics"
)

// Provisioner ensures a local user row exists for a token subject.
type Provisioner interface {
	Ensure(ctx context.Context, subject, name, email string) error
}

// UserProvisioning creates a local user row on the first request from a new
// subject. Provisioning is best-effort: every failure is logged and swallowed
// here, and the request always continues to the handler. Races between
// concurrent first-requests are resolved inside the service via the store's
// uniqueness constraint.
func UserProvisioning(svc Provisioner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims != nil {
				provision(r.Context(), svc, claims.Subject, claims.Name, claims.Email)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func provision(ctx context.Context, svc Provisioner, subject, name, email string) {
	err := svc.Ensure(ctx, subject, name, email)
	switch {
	case err == nil:
		metrics.UsersProvisioned.WithLabelValues("ok").Inc()
	case errors.Is(err, users.ErrInvalidSubject):
		metrics.UsersProvisioned.WithLabelValues("invalid_subject").Inc()
		zerolog.Ctx(ctx).Warn().
			Str("subject", subject).
			Msg("token subject is not a valid UUID; request continues unprovisioned")
	default:
		metrics.UsersProvisioned.WithLabelValues("error").Inc()
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("subject", subject).
			Msg("user provisioning failed; request continues unprovisioned")
	}
}
