package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketline/server/internal/auth"
	"github.com/ticketline/server/internal/domain/users"
)

type stubProvisioner struct {
	err   error
	calls []string
}

func (s *stubProvisioner) Ensure(_ context.Context, subject, name, email string) error {
	s.calls = append(s.calls, subject)
	return s.err
}

func authedRequest(subject string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/events", nil)
	claims := &auth.Claims{Name: "Alice", Email: "alice@example.com"}
	claims.Subject = subject
	return r.WithContext(ContextWithClaims(r.Context(), claims))
}

func TestUserProvisioningRunsForAuthenticatedRequests(t *testing.T) {
	svc := &stubProvisioner{}
	handler := UserProvisioning(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("5e3f0b52-5de6-4087-8375-9d6efea1b2aa"))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, []string{"5e3f0b52-5de6-4087-8375-9d6efea1b2aa"}, svc.calls)
}

func TestUserProvisioningSkipsUnauthenticatedRequests(t *testing.T) {
	svc := &stubProvisioner{}
	handler := UserProvisioning(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, svc.calls)
}

func TestUserProvisioningFailureDoesNotAffectRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"store unavailable", errors.New("connection refused")},
		{"invalid subject", users.ErrInvalidSubject},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubProvisioner{err: tc.err}
			handler := UserProvisioning(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":"generated"}`))
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, authedRequest("whatever"))

			require.Equal(t, http.StatusCreated, w.Code, "provisioning failure must never change the response")
			require.JSONEq(t, `{"id":"generated"}`, w.Body.String())
		})
	}
}
