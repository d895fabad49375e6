// Package metrics holds Prometheus instruments used across the tenant
// routing core. All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActivePools = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tenant_pools_active",
			Help: "Number of per-schema connection pools currently open.",
		})

	PoolLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_pool_load_total",
			Help: "Cumulative number of per-schema pools successfully opened.",
		})

	PoolLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_pool_load_errors_total",
			Help: "Cumulative number of pool cold-start connection failures.",
		})

	PoolSaturatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_pool_saturated_total",
			Help: "Cumulative number of acquisitions that timed out waiting for a pool slot.",
		})

	ReflectedTables = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tenant_tables_reflected",
			Help: "Number of (schema, table) descriptors currently cached.",
		})

	GateOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_outcome_total",
			Help: "Validation gate outcomes by result kind.",
		}, []string{"outcome"})

	RegistryLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_registry_load_total",
			Help: "Cumulative number of tenant records loaded from the admin schema.",
		})

	RegistryCacheHitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_registry_cache_hit_total",
			Help: "Cumulative number of tenant lookups served from the short-TTL cache.",
		})
)

func init() {
	prometheus.MustRegister(
		ActivePools,
		PoolLoadTotal,
		PoolLoadErrorsTotal,
		PoolSaturatedTotal,
		ReflectedTables,
		GateOutcomeTotal,
		RegistryLoadTotal,
		RegistryCacheHitTotal,
	)
}
