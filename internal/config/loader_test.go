// internal/config/loader_test.go
//
// Unit-tests for the configuration loader: layering, defaults, duration
// validation, and fail-fast behavior.
//
// Run: go test ./internal/config -v

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeGlobalYAML creates <root>/conf/global.yaml and points MVC_ROOT
// at the temp root.
func writeGlobalYAML(t *testing.T, body string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("MVC_ROOT", root)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	writeGlobalYAML(t, `
http:
  listen_addr: "localhost:8080"
locale:
  default: "en-US"
`)
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Redirect.Store != "memory" {
		t.Fatalf("store = %q, want memory default", cfg.Redirect.Store)
	}
	if cfg.Redirect.ScopeTTL != "10m" || cfg.Redirect.SweepInterval != "1m" {
		t.Fatalf("duration defaults not applied: %+v", cfg.Redirect)
	}
	if cfg.Views.Root != "views" {
		t.Fatalf("views root default not applied: %q", cfg.Views.Root)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	writeGlobalYAML(t, `
http:
  listen_addr: "localhost:8080"
locale:
  default: "en-US"
`)
	t.Setenv("MVC_REDIRECT__LEGACY_302", "true")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Redirect.Legacy302 {
		t.Fatalf("env override did not reach redirect.legacy_302")
	}
}

func TestLoad_MissingDefaultLocaleFails(t *testing.T) {
	writeGlobalYAML(t, `
http:
  listen_addr: "localhost:8080"
`)
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected validation failure without locale.default")
	}
}

func TestLoad_BadScopeTTLFails(t *testing.T) {
	writeGlobalYAML(t, `
http:
  listen_addr: "localhost:8080"
locale:
  default: "en-US"
redirect:
  scope_ttl: "soon"
`)
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected duration parse failure")
	}
}

func TestLoad_MySQLStoreRequiresDSN(t *testing.T) {
	writeGlobalYAML(t, `
http:
  listen_addr: "localhost:8080"
locale:
  default: "en-US"
redirect:
  store: "mysql"
`)
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected failure: mysql store without dsn")
	}
}

func TestScopeTTLDuration(t *testing.T) {
	r := Redirect{ScopeTTL: "90s", SweepInterval: "2m"}
	if r.ScopeTTLDuration().Seconds() != 90 {
		t.Fatalf("ScopeTTLDuration = %v", r.ScopeTTLDuration())
	}
	if r.SweepIntervalDuration().Minutes() != 2 {
		t.Fatalf("SweepIntervalDuration = %v", r.SweepIntervalDuration())
	}
}
