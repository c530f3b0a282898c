// internal/view/render.go
//
// View engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template sets.
//
// The pipeline invokes Render with the resolved view path, the model
// map, and the request's resolved locale.  All templates in the same
// directory are parsed as one set so sub-templates
// ({{ template "row" . }}) work out-of-the-box.  Sets are cached per
// (path, locale), because the injected "t" helper closes over the
// locale.

package view

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/yanizio/mvc/internal/cache"
	"github.com/yanizio/mvc/internal/locale"
)

// Engine renders one view with a model and the request locale.
type Engine interface {
	Render(w io.Writer, viewPath string, model map[string]any, loc locale.Locale) error
}

// TemplateEngine is the html/template implementation of Engine.
type TemplateEngine struct {
	root   string
	bundle *Bundle

	mu  sync.Mutex
	lru *cache.LRU[string, *template.Template]
}

// NewTemplateEngine serves views from root; bundle backs the "t" helper
// and may be nil when the application ships no translations.
func NewTemplateEngine(root string, bundle *Bundle) *TemplateEngine {
	return &TemplateEngine{
		root:   root,
		bundle: bundle,
		lru:    cache.New[string, *template.Template](1024),
	}
}

// Render executes viewPath with model.  viewPath is relative to the
// engine root, e.g. "orders/list.tpl".
func (e *TemplateEngine) Render(w io.Writer, viewPath string, model map[string]any, loc locale.Locale) error {
	t, err := e.load(viewPath, loc)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, execName(t, viewPath), model)
}

// load finds and (if necessary) parses the template set for viewPath.
func (e *TemplateEngine) load(viewPath string, loc locale.Locale) (*template.Template, error) {
	key := viewPath + "::" + loc.String()

	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.lru.Get(key); ok {
		return t, nil
	}

	full := filepath.Join(e.root, filepath.FromSlash(viewPath))
	if _, err := os.Stat(full); err != nil {
		return nil, fmt.Errorf("view: %q: %w", viewPath, err)
	}

	// Parse all templates sharing the view's directory and extension so
	// sub-templates resolve.
	pattern := filepath.Join(filepath.Dir(full), "*"+filepath.Ext(full))
	t, err := template.New(filepath.Base(full)).Funcs(e.funcMap(loc)).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	e.lru.Add(key, t)
	return t, nil
}

// funcMap builds the helpers injected into every set.
func (e *TemplateEngine) funcMap(loc locale.Locale) template.FuncMap {
	return template.FuncMap{
		"locale": loc.String,
		"t": func(messageID string, pairs ...any) string {
			if e.bundle == nil {
				return messageID
			}
			var data map[string]any
			if len(pairs) >= 2 {
				data = map[string]any{}
				for i := 0; i+1 < len(pairs); i += 2 {
					if k, ok := pairs[i].(string); ok {
						data[k] = pairs[i+1]
					}
				}
			}
			return e.bundle.T(loc, messageID, data)
		},
	}
}

// execName chooses the template to execute: the file itself when it has
// no {{ define }} wrapper, else the root template named after the view.
func execName(t *template.Template, viewPath string) string {
	base := filepath.Base(viewPath)
	if t.Lookup(base) != nil {
		return base
	}
	name := base[:len(base)-len(filepath.Ext(base))]
	if t.Lookup(name) != nil {
		return name
	}
	return base
}
