// internal/locale/resolver_test.go
//
// Unit-tests for the resolver chain: priority ordering, short-circuit,
// default fallback, and the priority-0 override hook.
//
// Run: go test ./internal/locale -v

package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/mvc/internal/component"
	"github.com/yanizio/mvc/internal/fault"
)

// stubResolver counts invocations and returns a fixed answer.
type stubResolver struct {
	name  string
	loc   Locale
	ok    bool
	calls int
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(_ *http.Request) (Locale, bool) {
	s.calls++
	return s.loc, s.ok
}

func newRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/", nil)
}

func TestChain_HighestPriorityWins(t *testing.T) {
	reg := component.New()
	low := &stubResolver{name: "low", loc: MustMake("fr"), ok: true}
	high := &stubResolver{name: "high", loc: MustMake("en"), ok: true}
	reg.Register(ResolverCapability, low, component.Priority(10))
	reg.Register(ResolverCapability, high, component.Priority(20))

	chain := NewChain(reg, MustMake("en-US"))
	loc, err := chain.Resolve(newRequest())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "en" {
		t.Fatalf("locale = %q, want %q", loc, "en")
	}
	if low.calls != 0 {
		t.Fatalf("lower-priority resolver ran %d times after a hit", low.calls)
	}
}

func TestChain_ShortCircuitStopsInvocation(t *testing.T) {
	reg := component.New()
	first := &stubResolver{name: "first", ok: false}
	second := &stubResolver{name: "second", loc: MustMake("de"), ok: true}
	third := &stubResolver{name: "third", loc: MustMake("it"), ok: true}
	reg.Register(ResolverCapability, first, component.Priority(30))
	reg.Register(ResolverCapability, second, component.Priority(20))
	reg.Register(ResolverCapability, third, component.Priority(10))

	chain := NewChain(reg, MustMake("en-US"))
	loc, err := chain.Resolve(newRequest())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "de" {
		t.Fatalf("locale = %q, want %q", loc, "de")
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Fatalf("calls = %d/%d/%d, want 1/1/0", first.calls, second.calls, third.calls)
	}
}

func TestChain_UnspecifiedPriorityIsDefault(t *testing.T) {
	reg := component.New()
	implicit := &stubResolver{name: "implicit", loc: MustMake("nl"), ok: true}
	explicit := &stubResolver{name: "explicit", loc: MustMake("sv"), ok: true}
	reg.Register(ResolverCapability, implicit, component.Meta{})
	reg.Register(ResolverCapability, explicit, component.Priority(component.DefaultPriority-1))

	chain := NewChain(reg, MustMake("en-US"))
	loc, err := chain.Resolve(newRequest())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "nl" {
		t.Fatalf("locale = %q, want %q (default 1000 outranks 999)", loc, "nl")
	}
}

func TestChain_TieBrokenByRegistrationOrder(t *testing.T) {
	reg := component.New()
	a := &stubResolver{name: "a", loc: MustMake("es"), ok: true}
	b := &stubResolver{name: "b", loc: MustMake("ca"), ok: true}
	reg.Register(ResolverCapability, a, component.Priority(7))
	reg.Register(ResolverCapability, b, component.Priority(7))

	chain := NewChain(reg, MustMake("en-US"))
	loc, err := chain.Resolve(newRequest())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "es" {
		t.Fatalf("locale = %q, want %q (first registered)", loc, "es")
	}
	if b.calls != 0 {
		t.Fatalf("second-registered resolver ran on a tie")
	}
}

func TestChain_BuiltinHeaderResolverBacksTheChain(t *testing.T) {
	reg := component.New()
	declining := &stubResolver{name: "declining", ok: false}
	reg.Register(ResolverCapability, declining, component.Priority(50))

	chain := NewChain(reg, MustMake("en-US"))
	req := newRequest()
	req.Header.Set("Accept-Language", "da")

	loc, err := chain.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "da" {
		t.Fatalf("locale = %q, want %q from the built-in resolver", loc, "da")
	}
}

func TestChain_PriorityZeroOverrideReplacesBuiltin(t *testing.T) {
	reg := component.New()
	override := &stubResolver{name: "override", loc: MustMake("ja"), ok: true}
	reg.Register(ResolverCapability, override, component.Priority(0))

	chain := NewChain(reg, MustMake("en-US"))
	req := newRequest()
	req.Header.Set("Accept-Language", "da") // would win if the built-in ran

	loc, err := chain.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "ja" {
		t.Fatalf("locale = %q, want %q from the override", loc, "ja")
	}
}

func TestChain_SystemDefaultWhenAllDecline(t *testing.T) {
	reg := component.New()
	chain := NewChain(reg, MustMake("en-US"))

	loc, err := chain.Resolve(newRequest()) // no Accept-Language header
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loc.String() != "en-US" {
		t.Fatalf("locale = %q, want the system default", loc)
	}
}

func TestChain_NoDefaultIsConfigurationError(t *testing.T) {
	reg := component.New()
	chain := NewChain(reg, Locale{})

	_, err := chain.Resolve(newRequest())
	if err == nil {
		t.Fatalf("expected an error with no default configured")
	}
	if !fault.IsConfig(err) {
		t.Fatalf("error %v is not tagged as a configuration error", err)
	}
}
