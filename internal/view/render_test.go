// internal/view/render_test.go
//
// Unit-tests for the template engine: model access, locale-bound
// translation helper, and sub-template parsing.
//
// Run: go test ./internal/view -v

package view

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yanizio/mvc/internal/locale"
)

// writeViews lays out a temp view root with the given files.
func writeViews(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestRender_ModelAndLocale(t *testing.T) {
	root := writeViews(t, map[string]string{
		"hello.tpl": `Hello {{ .name }} ({{ locale }})`,
	})
	e := NewTemplateEngine(root, nil)

	var buf bytes.Buffer
	err := e.Render(&buf, "hello.tpl", map[string]any{"name": "Ada"}, locale.MustMake("pt-BR"))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got := buf.String(); got != "Hello Ada (pt-BR)" {
		t.Fatalf("output = %q", got)
	}
}

func TestRender_SubTemplates(t *testing.T) {
	root := writeViews(t, map[string]string{
		"orders/list.tpl": `{{ template "row" . }}`,
		"orders/row.tpl":  `{{ define "row" }}row:{{ .id }}{{ end }}`,
	})
	e := NewTemplateEngine(root, nil)

	var buf bytes.Buffer
	err := e.Render(&buf, "orders/list.tpl", map[string]any{"id": 7}, locale.MustMake("en"))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got := buf.String(); got != "row:7" {
		t.Fatalf("output = %q", got)
	}
}

func TestRender_MissingViewErrors(t *testing.T) {
	e := NewTemplateEngine(t.TempDir(), nil)
	err := e.Render(&bytes.Buffer{}, "nope.tpl", nil, locale.MustMake("en"))
	if err == nil {
		t.Fatalf("expected an error for a missing view")
	}
}

func TestRender_TranslationHelper(t *testing.T) {
	msgDir := t.TempDir()
	msgs := "greeting = \"Bonjour {{ .Name }}\"\n"
	if err := os.WriteFile(filepath.Join(msgDir, "messages.fr.toml"), []byte(msgs), 0o644); err != nil {
		t.Fatalf("write messages: %v", err)
	}
	bundle, err := NewBundle(locale.MustMake("en"), msgDir)
	if err != nil {
		t.Fatalf("NewBundle error: %v", err)
	}

	root := writeViews(t, map[string]string{
		"hello.tpl": `{{ t "greeting" "Name" .name }}`,
	})
	e := NewTemplateEngine(root, bundle)

	var buf bytes.Buffer
	err = e.Render(&buf, "hello.tpl", map[string]any{"name": "Ada"}, locale.MustMake("fr"))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got := buf.String(); got != "Bonjour Ada" {
		t.Fatalf("output = %q", got)
	}
}

func TestRender_MissingTranslationFallsBackToID(t *testing.T) {
	bundle, err := NewBundle(locale.MustMake("en"), t.TempDir())
	if err != nil {
		t.Fatalf("NewBundle error: %v", err)
	}
	root := writeViews(t, map[string]string{
		"hello.tpl": `{{ t "untranslated.key" }}`,
	})
	e := NewTemplateEngine(root, bundle)

	var buf bytes.Buffer
	if err := e.Render(&buf, "hello.tpl", nil, locale.MustMake("de")); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(buf.String(), "untranslated.key") {
		t.Fatalf("output = %q, want the message ID fallback", buf.String())
	}
}
