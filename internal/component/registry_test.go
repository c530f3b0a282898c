// internal/component/registry_test.go
//
// Unit-tests for the capability registry.
//
// Run: go test ./internal/component -v

package component

import "testing"

func TestRegister_DefaultPriority(t *testing.T) {
	g := New()
	g.Register("greeter", "a", Meta{})

	regs := g.ListImplementations("greeter")
	if len(regs) != 1 {
		t.Fatalf("len = %d, want 1", len(regs))
	}
	if regs[0].Priority != DefaultPriority {
		t.Fatalf("priority = %d, want %d", regs[0].Priority, DefaultPriority)
	}
}

func TestRegister_ExplicitPriority(t *testing.T) {
	g := New()
	g.Register("greeter", "a", Priority(0))

	regs := g.ListImplementations("greeter")
	if regs[0].Priority != 0 {
		t.Fatalf("priority = %d, want 0", regs[0].Priority)
	}
}

func TestListImplementations_RegistrationOrder(t *testing.T) {
	g := New()
	g.Register("greeter", "first", Priority(5))
	g.Register("greeter", "second", Priority(5))
	g.Register("greeter", "third", Meta{})

	regs := g.ListImplementations("greeter")
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if regs[i].Instance.(string) != w {
			t.Fatalf("regs[%d] = %v, want %q", i, regs[i].Instance, w)
		}
	}
}

func TestListImplementations_CopyIsolation(t *testing.T) {
	g := New()
	g.Register("greeter", "a", Meta{})

	regs := g.ListImplementations("greeter")
	regs[0].Instance = "mutated"

	again := g.ListImplementations("greeter")
	if again[0].Instance.(string) != "a" {
		t.Fatalf("registry state leaked through returned slice")
	}
}

func TestListImplementations_UnknownCapability(t *testing.T) {
	g := New()
	if got := g.ListImplementations("nope"); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
