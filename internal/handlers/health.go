// internal/handlers/health.go
//
// Liveness only, no tenant or DB touch at all — mounted both at the
// global "/health"/"/api/health" paths and, through the projector, as
// "tenant_health" so a tenant-scoped health probe can confirm its own
// pool is reachable.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/beresheet-platform/homeapi/internal/requestctx"
)

// Health answers the global, tenant-agnostic liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TenantHealth answers the tenant-scoped probe: it pings the resolved
// pool so "200" also means this tenant's schema is reachable right now.
func TenantHealth(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	if err := rc.Pool.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "tenant": rc.Tenant.Name})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
