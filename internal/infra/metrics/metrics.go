// Package metrics exposes Prometheus counters for the auth core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AuthFailuresTotal counts rejected authentications by failure kind.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_auth_failures_total",
			Help: "Authentication and authorization failures",
		},
		[]string{"kind"},
	)

	// RateLimitRejectedTotal counts requests denied by the abuse guard.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"class"},
	)

	// IdentityCacheLookupsTotal counts identity cache lookups by outcome.
	IdentityCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_identity_cache_lookups_total",
			Help: "Identity cache lookups",
		},
		[]string{"outcome"},
	)
)

// Register registers all collectors with the given registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		AuthFailuresTotal,
		RateLimitRejectedTotal,
		IdentityCacheLookupsTotal,
	)
}
