package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ticketline/server/internal/auth"
)

func TestTokenCommandMintsValidToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tickets")
	t.Setenv("JWT_SECRET", "token-test-secret")
	t.Setenv("JWT_ISSUER", "ticketline")

	subject := uuid.NewString()
	tokenSubject = subject
	defer func() { tokenSubject = "" }()

	buf := new(bytes.Buffer)
	tokenCmd.SetOut(buf)
	if err := tokenCmd.RunE(tokenCmd, nil); err != nil {
		t.Fatalf("token command failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "subject: "+subject) {
		t.Fatalf("expected subject line in output, got:\n%s", output)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	last := lines[len(lines)-1]
	token := strings.TrimSpace(strings.TrimPrefix(last, "token:"))

	manager := auth.NewJWTManager("token-test-secret", time.Minute, "ticketline")
	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("minted token failed validation: %v", err)
	}
	if claims.Subject != subject {
		t.Fatalf("subject = %q, want %q", claims.Subject, subject)
	}
}

func TestTokenCommandRejectsNonUUIDSubject(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tickets")
	t.Setenv("JWT_SECRET", "token-test-secret")

	tokenSubject = "not-a-uuid"
	defer func() { tokenSubject = "" }()

	if err := tokenCmd.RunE(tokenCmd, nil); err == nil {
		t.Fatal("expected error for non-UUID subject")
	}
}
