// internal/locale/resolver.go
//
// Priority-ordered resolver chain.
//
// Context
//   Applications register Resolver implementations with the capability
//   registry; metadata without an explicit priority lands at 1000.  The
//   built-in Accept-Language resolver joins at priority 0 unless the
//   application registered its own priority-0 resolver (the override
//   hook).  The chain sorts descending by priority and asks each
//   resolver in turn; the first non-empty answer is authoritative and
//   later resolvers never run.  When every resolver declines, the
//   configured system default wins.
//
// Instrumentation
//   Each resolution increments locale_resolutions_total{resolver=...};
//   default fallbacks increment locale_default_fallback_total.

package locale

import (
	"errors"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/yanizio/mvc/internal/component"
	"github.com/yanizio/mvc/internal/fault"
	"github.com/yanizio/mvc/internal/metrics"
)

// ResolverCapability is the registry key for locale resolvers.
const ResolverCapability component.Capability = "locale.resolver"

// Resolver is a pluggable locale-resolution strategy.  Resolve returns
// ok == false to decline, handing the request to the next resolver.
type Resolver interface {
	Name() string
	Resolve(r *http.Request) (Locale, bool)
}

// ErrNoResolver is wrapped as a configuration error when the chain has
// nothing left to try and no system default is configured.
var ErrNoResolver = errors.New("locale: no resolver produced a locale and no system default is configured")

// Chain resolves one locale per request from the registered strategies.
type Chain struct {
	registry *component.Registry
	fallback Locale // system default, used when every resolver declines
}

// NewChain builds a Chain over the given registry.  fallback is the
// system default locale; pass the zero Locale to make exhaustion fatal.
func NewChain(registry *component.Registry, fallback Locale) *Chain {
	return &Chain{registry: registry, fallback: fallback}
}

// Resolve runs the chain for one request.  It must be called at most
// once per request; reqctx enforces that with its cached read.
func (c *Chain) Resolve(r *http.Request) (Locale, error) {
	resolvers := c.ordered()

	for _, entry := range resolvers {
		loc, ok := entry.Resolve(r)
		if !ok || loc.IsZero() {
			continue
		}
		metrics.LocaleResolutionsTotal.WithLabelValues(entry.Name()).Inc()
		return loc, nil
	}

	if c.fallback.IsZero() {
		return Locale{}, fault.Config(ErrNoResolver)
	}
	metrics.LocaleDefaultFallbackTotal.Inc()
	return c.fallback, nil
}

// ordered returns the resolvers sorted by priority descending.  The sort
// is stable, so equal priorities keep registration order.
func (c *Chain) ordered() []Resolver {
	type ranked struct {
		r    Resolver
		prio int
	}

	var list []ranked
	havePriorityZero := false
	for _, reg := range c.registry.ListImplementations(ResolverCapability) {
		res, ok := reg.Instance.(Resolver)
		if !ok {
			zap.S().Warnw("locale: registration is not a Resolver, skipping",
				"instance", reg.Instance)
			continue
		}
		if reg.Priority == 0 {
			havePriorityZero = true
		}
		list = append(list, ranked{r: res, prio: reg.Priority})
	}

	// The built-in header resolver backs the chain at priority 0 unless
	// the application overrode that slot.
	if !havePriorityZero {
		list = append(list, ranked{r: HeaderResolver{}, prio: 0})
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].prio > list[j].prio })

	out := make([]Resolver, len(list))
	for i, e := range list {
		out[i] = e.r
	}
	return out
}
