package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/ticketline/server/internal/api/apierror"
	"github.com/ticketline/server/internal/api/handlers"
	"github.com/ticketline/server/internal/api/middleware"
	"github.com/ticketline/server/internal/auth"
	"github.com/ticketline/server/internal/config"
	"github.com/ticketline/server/internal/domain/events"
	"github.com/ticketline/server/internal/domain/users"
	"github.com/ticketline/server/internal/metrics"
	"github.com/ticketline/server/internal/storage/postgres"
)

// NewRouter wires the HTTP surface. Health probes, metrics, and the frontend
// build are public; everything under /api/v1 requires a bearer token and runs
// the user provisioning step before the handler.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, jwtManager *auth.JWTManager) http.Handler {
	userRepo := postgres.NewUserRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)

	userService := users.NewService(userRepo)
	eventsService := events.NewService(userRepo, eventRepo)
	eventsHandler := handlers.NewEventsHandler(eventsService)

	requireAuth := middleware.RequireAuth(jwtManager)
	provisionUser := middleware.UserProvisioning(userService)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())

	// The token check wraps the whole route so even a wrong-method request
	// needs credentials; provisioning runs only for real operations.
	mux.Handle("/api/v1/events", requireAuth(methodMux(map[string]http.Handler{
		http.MethodPost: provisionUser(http.HandlerFunc(eventsHandler.Create)),
	})))

	// Unknown API paths get a JSON 404 rather than the SPA shell. The token
	// check still applies: anonymous callers cannot probe the API surface.
	mux.Handle("/api/", requireAuth(http.HandlerFunc(apiNotFound)))
	mux.Handle("/", handlers.SPA(cfg.Static.Dir))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	message := "Endpoint not found: " + r.URL.Path
	apierror.Write(w, r, http.StatusNotFound, apierror.KindEndpointNotFound, message, nil)
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
