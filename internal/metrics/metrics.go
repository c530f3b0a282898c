// Package metrics holds Prometheus instruments that are used across the
// framework.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LocaleResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locale_resolutions_total",
			Help: "Locale resolutions by the resolver that produced the result.",
		},
		[]string{"resolver"})

	LocaleDefaultFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "locale_default_fallback_total",
			Help: "Requests that fell through every resolver to the system default.",
		})

	RedirectScopeActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "redirect_scope_active",
			Help: "Redirect-scope entries currently pending consumption.",
		})

	RedirectScopeConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redirect_scope_consumed_total",
			Help: "Redirect-scope entries consumed by a correlated request.",
		})

	RedirectScopeExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redirect_scope_expired_total",
			Help: "Redirect-scope entries reaped by the orphan sweeper.",
		})

	RedirectScopeMissTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redirect_scope_miss_total",
			Help: "Requests presenting an unknown, replayed, or expired token.",
		})
)

func init() {
	prometheus.MustRegister(
		LocaleResolutionsTotal,
		LocaleDefaultFallbackTotal,
		RedirectScopeActive,
		RedirectScopeConsumedTotal,
		RedirectScopeExpiredTotal,
		RedirectScopeMissTotal,
	)
}
