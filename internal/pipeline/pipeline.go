// internal/pipeline/pipeline.go
//
// Per-request pipeline.
//
// Request life-cycle
// ------------------
//
//  1. Recovery middleware arms the request against panics.
//
//  2. The redirect-scope manager consumes any carrier token; a hit
//     reattaches the previous hop's bag as this request's scope.  The
//     claim removes the entry, so the token is dead once this request
//     finishes no matter how it finishes.
//
//  3. A reqctx.Context is built (model map, scope bag, lazy locale) and
//     injected into the request context.
//
//  4. The controller runs and its raw return is interpreted into an
//     outcome.
//
//  5. Render outcomes go to the view engine with the resolved locale;
//     redirect outcomes persist the outbound bag under a fresh token and
//     issue the Location; passthrough responses are written verbatim.
//     Only the outbound bag travels — the bag consumed in step 2 never
//     re-persists by itself, so scoped values die after one hop unless a
//     controller explicitly copies them into NextScope.
//
// Controller errors and request-tagged interpreter errors become a 500
// on that request alone; registration problems never get this far
// because Register rejects them at startup.

package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/mvc/internal/locale"
	"github.com/yanizio/mvc/internal/outcome"
	"github.com/yanizio/mvc/internal/redirectscope"
	"github.com/yanizio/mvc/internal/reqctx"
	"github.com/yanizio/mvc/internal/view"
)

// Controller is an application handler.  It returns the raw value the
// interpreter maps to an outcome: a view path, a *outcome.Response, or
// nil for void methods.
type Controller func(ctx *reqctx.Context) (any, error)

// Pipeline owns the router and the per-request machinery.
type Pipeline struct {
	chain  *locale.Chain
	scopes *redirectscope.Manager
	views  view.Engine
	opts   outcome.Options
	router chi.Router
}

// New assembles a Pipeline.  The chi router carries the recovery
// middleware; callers mount Handler() wherever they serve.
func New(chain *locale.Chain, scopes *redirectscope.Manager, views view.Engine,
	opts outcome.Options) *Pipeline {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	return &Pipeline{chain: chain, scopes: scopes, views: views, opts: opts, router: r}
}

// Register validates the method metadata and mounts the controller.
// A validation failure is a configuration error; the caller must treat
// it as fatal and refuse to start serving the offending route.
func (p *Pipeline) Register(method, pattern string, meta outcome.MethodMeta, h Controller) error {
	if err := outcome.ValidateMeta(meta); err != nil {
		return fmt.Errorf("pipeline: register %s %s: %w", method, pattern, err)
	}
	p.router.MethodFunc(method, pattern, p.dispatch(h, meta))
	return nil
}

// Handler exposes the assembled router.
func (p *Pipeline) Handler() http.Handler { return p.router }

// dispatch builds the http.HandlerFunc for one registered controller.
func (p *Pipeline) dispatch(h Controller, meta outcome.MethodMeta) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bag, _ := p.scopes.Attach(w, r)

		ctx := reqctx.New(w, r, p.chain, bag, p.opts.BasePath)
		r = reqctx.Inject(r, ctx)
		ctx.Request = r

		raw, err := h(ctx)
		if err != nil {
			serverError(w, r, "controller failed", err)
			return
		}

		out, err := outcome.Interpret(raw, meta, p.opts)
		if err != nil {
			serverError(w, r, "outcome interpretation failed", err)
			return
		}

		switch out.Kind() {
		case outcome.KindRedirect:
			p.writeRedirect(w, r, ctx, out)
		case outcome.KindRender:
			p.writeView(w, r, ctx, out)
		case outcome.KindPassthrough:
			writePassthrough(w, out.Response())
		}
	}
}

// writeRedirect persists the request's outbound bag under a fresh token
// and issues the Location.  Persisting happens even for an empty bag:
// the consuming request still correlates against the token.
func (p *Pipeline) writeRedirect(w http.ResponseWriter, r *http.Request,
	ctx *reqctx.Context, out outcome.Outcome) {
	if err := p.scopes.Persist(w, r, ctx.NextScope()); err != nil {
		serverError(w, r, "redirect scope persist failed", err)
		return
	}
	copyHeader(w, out.Header())
	http.Redirect(w, r, out.URI(), out.Status())
}

// writeView resolves the locale, renders to a buffer first so template
// failures can still become a clean 500, then streams the result.
func (p *Pipeline) writeView(w http.ResponseWriter, r *http.Request,
	ctx *reqctx.Context, out outcome.Outcome) {
	loc, err := ctx.Locale()
	if err != nil {
		serverError(w, r, "locale resolution failed", err)
		return
	}

	var buf bytes.Buffer
	if err := p.views.Render(&buf, out.ViewPath(), ctx.Model(), loc); err != nil {
		serverError(w, r, "view render failed", err)
		return
	}

	copyHeader(w, out.Header())
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.Header().Set("Content-Language", loc.String())
	w.WriteHeader(out.Status())
	_, _ = buf.WriteTo(w)
}

// writePassthrough emits a controller-built Response verbatim.
func writePassthrough(w http.ResponseWriter, resp *outcome.Response) {
	copyHeader(w, resp.Header)
	w.WriteHeader(resp.Status)

	// String entities never reach here; the interpreter unwraps them
	// into render or redirect outcomes.
	switch body := resp.Entity.(type) {
	case nil:
	case []byte:
		_, _ = w.Write(body)
	case io.Reader:
		_, _ = io.Copy(w, body)
	default:
		_, _ = fmt.Fprint(w, body)
	}
}

// copyHeader merges src into the response header; nil src is a no-op.
func copyHeader(w http.ResponseWriter, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
}

// serverError converts a per-request failure into a 500 scoped to this
// request and logs the cause.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zap.S().Errorw(msg, "path", r.URL.Path, "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
