package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func setVersionInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
	Version, GitCommit, BuildDate = version, commit, date
}

func TestVersionCommand(t *testing.T) {
	setVersionInfo(t, "1.0.0", "abc123", "2026-08-01T12:00:00Z")

	buf := new(bytes.Buffer)
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)

	output := buf.String()
	expectedStrings := []string{
		"ticketline server 1.0.0",
		"commit: abc123",
		"built:  2026-08-01T12:00:00Z",
		"go:",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, output)
		}
	}
}

func TestVersionCommandShort(t *testing.T) {
	setVersionInfo(t, "1.2.3", "abc123", "2026-08-01T12:00:00Z")

	versionShort = true
	defer func() { versionShort = false }()

	buf := new(bytes.Buffer)
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)

	if got := strings.TrimSpace(buf.String()); got != "1.2.3" {
		t.Fatalf("expected bare version, got %q", got)
	}
}
