// internal/reqctx/reqctx_test.go
//
// Unit-tests for the per-request context: once-only locale resolution,
// model map behavior, and the link builder.
//
// Run: go test ./internal/reqctx -v

package reqctx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/mvc/internal/component"
	"github.com/yanizio/mvc/internal/locale"
	"github.com/yanizio/mvc/internal/redirectscope"
)

// countingResolver tracks how many times the chain invoked it.
type countingResolver struct {
	calls int
	loc   locale.Locale
}

func (c *countingResolver) Name() string { return "counting" }

func (c *countingResolver) Resolve(_ *http.Request) (locale.Locale, bool) {
	c.calls++
	return c.loc, true
}

func newContext(t *testing.T, res *countingResolver) *Context {
	t.Helper()
	reg := component.New()
	reg.Register(locale.ResolverCapability, res, component.Priority(10))
	chain := locale.NewChain(reg, locale.MustMake("en-US"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return New(httptest.NewRecorder(), req, chain, nil, "")
}

func TestLocale_ComputedExactlyOnce(t *testing.T) {
	res := &countingResolver{loc: locale.MustMake("fr")}
	ctx := newContext(t, res)

	for i := 0; i < 5; i++ {
		loc, err := ctx.Locale()
		if err != nil {
			t.Fatalf("Locale error: %v", err)
		}
		if loc.String() != "fr" {
			t.Fatalf("locale = %q, want fr", loc)
		}
	}
	if res.calls != 1 {
		t.Fatalf("resolver invoked %d times, want 1", res.calls)
	}
}

func TestModel_SetGet(t *testing.T) {
	ctx := newContext(t, &countingResolver{loc: locale.MustMake("en")})

	ctx.Set("user", "ada")
	ctx.Set("user", "grace") // later write wins
	v, ok := ctx.Get("user")
	if !ok || v != "grace" {
		t.Fatalf("model[user] = %v, want grace", v)
	}
	if len(ctx.Model()) != 1 {
		t.Fatalf("model size = %d, want 1", len(ctx.Model()))
	}
}

func TestScope_AlwaysReadable(t *testing.T) {
	ctx := newContext(t, &countingResolver{loc: locale.MustMake("en")})
	if v := ctx.Scope()["absent"]; v != nil {
		t.Fatalf("nil inbound scope must read as empty, got %v", v)
	}
}

func TestNextScope_StartsEmptyAndIsWritable(t *testing.T) {
	ctx := newContext(t, &countingResolver{loc: locale.MustMake("en")})
	if len(ctx.NextScope()) != 0 {
		t.Fatalf("outbound bag must start empty, got %#v", ctx.NextScope())
	}
	ctx.NextScope()["note"] = "hello"
	if ctx.NextScope()["note"] != "hello" {
		t.Fatalf("outbound write lost")
	}
}

func TestNextScope_IndependentOfInbound(t *testing.T) {
	reg := component.New()
	reg.Register(locale.ResolverCapability, &countingResolver{loc: locale.MustMake("en")},
		component.Priority(10))
	chain := locale.NewChain(reg, locale.MustMake("en-US"))

	inbound := redirectscope.Bag{"note": "from-previous-hop"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := New(httptest.NewRecorder(), req, chain, inbound, "")

	if ctx.Scope()["note"] != "from-previous-hop" {
		t.Fatalf("inbound bag not attached")
	}
	if len(ctx.NextScope()) != 0 {
		t.Fatalf("inbound values leaked into the outbound bag: %#v", ctx.NextScope())
	}

	ctx.Scope()["extra"] = "local-only"
	if _, ok := ctx.NextScope()["extra"]; ok {
		t.Fatalf("inbound write leaked into the outbound bag")
	}
}

func TestInject_FromRequest(t *testing.T) {
	ctx := newContext(t, &countingResolver{loc: locale.MustMake("en")})
	req := Inject(httptest.NewRequest(http.MethodGet, "/", nil), ctx)

	if got := FromRequest(req); got != ctx {
		t.Fatalf("FromRequest returned %v, want the injected context", got)
	}
	if FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)) != nil {
		t.Fatalf("FromRequest on a bare request must return nil")
	}
}

func TestLinkBuilder(t *testing.T) {
	root := &LinkBuilder{basePath: ""}
	if got := root.To("orders"); got != "/orders" {
		t.Fatalf("To = %q, want /orders", got)
	}

	app := &LinkBuilder{basePath: "/app"}
	if got := app.To("/orders/7"); got != "/app/orders/7" {
		t.Fatalf("To = %q, want /app/orders/7", got)
	}
	if got := app.ToQuery("/search", "q", "locale tests"); got != "/app/search?q=locale+tests" {
		t.Fatalf("ToQuery = %q", got)
	}
}
