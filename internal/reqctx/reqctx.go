// internal/reqctx/reqctx.go
//
// Central per-request context.
//
// Context
// -------
// The pipeline builds one *reqctx.Context per request and passes it to
// controllers and templates.  It bundles:
//
//   - Request / Writer — the underlying HTTP pair.
//   - Model            — the name-to-value map handed to the view engine.
//   - Scope            — the bag reattached from the previous hop, if any.
//   - NextScope        — the outbound bag persisted when this request
//                        redirects; starts empty every request, so values
//                        never chain past one hop unless a controller
//                        copies them forward explicitly.
//   - Locale()         — the request locale, computed lazily through the
//                        resolver chain and cached; repeated reads never
//                        re-invoke a resolver.
//   - Links            — outbound link builder rooted at the app base path.
//
// Notes
// -----
// • A Context is exclusive to its request; no internal locking.
// • Locale caching uses sync.Once, so even racing template helpers
//   compute it exactly once.
package reqctx

import (
	"context"
	"net/http"
	"sync"

	"github.com/yanizio/mvc/internal/locale"
	"github.com/yanizio/mvc/internal/redirectscope"
)

// Context is created once per request.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter
	Links   *LinkBuilder

	model map[string]any
	scope redirectscope.Bag
	next  redirectscope.Bag

	chain      *locale.Chain
	localeOnce sync.Once
	locale     locale.Locale
	localeErr  error
}

// New initialises a Context.  scope is the bag consumed from the
// previous hop; nil means the request arrived without one.
func New(w http.ResponseWriter, r *http.Request, chain *locale.Chain,
	scope redirectscope.Bag, basePath string) *Context {
	if scope == nil {
		scope = redirectscope.Bag{}
	}
	return &Context{
		Request: r,
		Writer:  w,
		Links:   &LinkBuilder{basePath: basePath},
		model:   map[string]any{},
		scope:   scope,
		next:    redirectscope.Bag{},
		chain:   chain,
	}
}

// Locale returns the request locale, computing it on first read and
// caching it for the remainder of the request.
func (c *Context) Locale() (locale.Locale, error) {
	c.localeOnce.Do(func() {
		c.locale, c.localeErr = c.chain.Resolve(c.Request)
	})
	return c.locale, c.localeErr
}

// Set writes one model value.  Later writes to the same name win.
func (c *Context) Set(name string, value any) {
	c.model[name] = value
}

// Get reads one model value.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.model[name]
	return v, ok
}

// Model exposes the full map for the view engine.
func (c *Context) Model() map[string]any { return c.model }

// Scope returns the bag reattached from the previous hop, empty when the
// request arrived without one.  Writes here stay within this request;
// only NextScope travels.
func (c *Context) Scope() redirectscope.Bag { return c.scope }

// NextScope returns the outbound bag.  When this request's outcome is a
// redirect, exactly this bag is persisted for the follow-up request.  It
// starts empty, so a consumed value is carried forward only by an
// explicit controller write.
func (c *Context) NextScope() redirectscope.Bag { return c.next }

//
// request-context plumbing
//

type ctxKey struct{} // unexported, collision-proof

// Inject stores c on the request's context; the pipeline calls this so
// code holding only *http.Request can still reach the Context.
func Inject(r *http.Request, c *Context) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, c))
}

// FromRequest returns the Context stored by the pipeline, or nil when
// the request never went through it.
func FromRequest(r *http.Request) *Context {
	v, _ := r.Context().Value(ctxKey{}).(*Context)
	return v
}
