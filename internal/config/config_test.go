package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/ironledger/internal/models"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
storage:
  driver: "file"
  path: "/var/lib/ironledger"
  key: "TestState"
auth:
  api_key: "test-key-123"
tailscale:
  enabled: true
  hostname: "gym"
timer:
  extend_seconds: 15
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("server addr = %q, want %q", cfg.Server.Addr(), "0.0.0.0:9090")
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "/var/lib/ironledger" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Key != "TestState" {
		t.Errorf("storage.key = %q, want %q", cfg.Storage.Key, "TestState")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
	if !cfg.Tailscale.Enabled || cfg.Tailscale.Hostname != "gym" {
		t.Errorf("tailscale = %+v", cfg.Tailscale)
	}
	if cfg.Timer.ExtendSeconds != 15 {
		t.Errorf("timer.extend_seconds = %d, want 15", cfg.Timer.ExtendSeconds)
	}
}

// TestLoadMissingFileUsesDefaults verifies a fresh install starts without any
// config file.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Storage.Driver != "sqlite" || cfg.Storage.Key != "IronLedgerAppState" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if strings.HasPrefix(cfg.Storage.Path, "~") {
		t.Errorf("storage.path %q not expanded", cfg.Storage.Path)
	}
	if cfg.Timer.ExtendSeconds != 30 {
		t.Errorf("timer.extend_seconds = %d, want 30", cfg.Timer.ExtendSeconds)
	}
}

// TestPartialFileKeepsDefaults verifies omitted sections keep their defaults.
func TestPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "server:\n  port: 7000\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7000 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Timer.ExtendSeconds != 30 {
		t.Errorf("timer.extend_seconds = %d, want 30", cfg.Timer.ExtendSeconds)
	}
}

// TestEnvOverride verifies that IRONLEDGER_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("IRONLEDGER_SERVER_PORT", "9999")
	t.Setenv("IRONLEDGER_STORAGE_DRIVER", "memory")
	t.Setenv("IRONLEDGER_AUTH_API_KEY", "env-key")
	t.Setenv("IRONLEDGER_TAILSCALE_ENABLED", "false")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("storage.driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale.enabled should be overridden to false")
	}
	// Unchanged fields should keep YAML values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
}

// TestValidation verifies that unusable settings produce a clear error.
func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"unknown driver", "storage:\n  driver: postgres\n"},
		{"sqlite without path", "storage:\n  driver: sqlite\n  path: \"\"\n"},
		{"empty key", "storage:\n  key: \"\"\n"},
		{"tailscale without hostname", "tailscale:\n  enabled: true\n  hostname: \"\"\n"},
		{"zero extend", "timer:\n  extend_seconds: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tt.yaml)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestLoadMalformed verifies YAML syntax errors are reported.
func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeTemp(t, "server: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

// TestExpandHome verifies only a leading tilde is replaced.
func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/lifter")
	tests := map[string]string{
		"~/data/x.db": "/home/lifter/data/x.db",
		"~":           "/home/lifter",
		"/abs/path":   "/abs/path",
		"rel/~/path":  "rel/~/path",
		"":            "",
	}
	for in, want := range tests {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

const templatesYAML = `
templates:
  - type: "Workout A"
    exercises:
      - {name: "Bench Press", category: "Main Lift", sets: 5, reps: 5}
      - {name: "Dips", category: compound, sets: 3, reps: 8, rest_seconds: 120}
  - type: B
    exercises:
      - {name: "Squat", category: main_lift, sets: 5, reps: 5}
      - {name: "Plank", category: accessory, sets: 3, duration_seconds: 60}
  - type: C
    exercises:
      - {name: "Overhead Press", category: main_lift, sets: 5}
`

// TestLoadTemplates verifies a seed file is normalized and gets identities.
func TestLoadTemplates(t *testing.T) {
	got, err := LoadTemplates(writeTemp(t, templatesYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Type != models.WorkoutA {
		t.Fatalf("templates = %+v", got)
	}
	bench := got[0].Exercises[0]
	if bench.Category != models.CategoryMainLift || bench.RestSeconds != 150 || bench.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Errorf("bench = %+v", bench)
	}
	if got[0].Exercises[1].RestSeconds != 120 {
		t.Errorf("dips rest = %d, want 120", got[0].Exercises[1].RestSeconds)
	}
	plank := got[1].Exercises[1]
	if plank.DefaultDurationSeconds == nil || *plank.DefaultDurationSeconds != 60 || plank.DefaultReps != nil {
		t.Errorf("plank = %+v", plank)
	}
	if got[2].Exercises[0].DefaultReps != nil {
		t.Error("ohp should have no fixed rep target")
	}
}

// TestParseTemplatesRejects verifies incomplete or invalid seeds fail.
func TestParseTemplatesRejects(t *testing.T) {
	tests := map[string]string{
		"missing type": "templates:\n  - {type: A, exercises: []}\n  - {type: B, exercises: []}\n",
		"duplicate":    "templates:\n  - {type: A}\n  - {type: A}\n  - {type: B}\n  - {type: C}\n",
		"bad sets":     "templates:\n  - type: A\n    exercises: [{name: X, category: accessory, sets: 0}]\n  - {type: B}\n  - {type: C}\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplates([]byte(in))
			if !errors.Is(err, models.ErrInvalidTemplate) {
				t.Errorf("err = %v, want ErrInvalidTemplate", err)
			}
		})
	}
}

// TestMarshalTemplatesRoundTrip verifies exported templates import again.
func TestMarshalTemplatesRoundTrip(t *testing.T) {
	data, err := MarshalTemplates(models.DefaultTemplates())
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseTemplates(data)
	if err != nil {
		t.Fatalf("re-import failed: %v\n%s", err, data)
	}
	if len(got) != 3 || len(got[1].Exercises) != 5 || got[1].Exercises[0].Name != "Squat" {
		t.Errorf("round trip = %+v", got)
	}
}

// TestSeedTemplates verifies the seed file is re-read on each call and
// that an unusable file falls back to the built-in program.
func TestSeedTemplates(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := SeedTemplates("", log)(); len(got) != 3 || got[0].Exercises[0].Name != "Bench Press" {
		t.Fatalf("default seed = %+v", got)
	}

	path := writeTemp(t, templatesYAML)
	seed := SeedTemplates(path, log)
	if got := seed(); got[0].Exercises[1].Name != "Dips" {
		t.Fatalf("file seed = %+v", got[0].Exercises)
	}

	if err := os.WriteFile(path, []byte("templates: [{type: A}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := seed(); len(got) != 3 || got[0].Exercises[1].Name != "Incline Dumbbell Press" {
		t.Errorf("fallback seed = %+v", got[0].Exercises)
	}
}
