// Package requestctx defines the small, dependency-free types threaded
// through the gate, the projector, and every domain handler. Keeping them
// here (rather than in internal/registry or internal/gate) avoids the
// import cycle that would otherwise form between the gate, which needs the
// registry's record shape, and handlers, which need both.
package requestctx

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
)

// Tenant is the read-only snapshot of a tenant record that a handler may
// observe. Handlers never see the live registry directly; they receive
// this value (and a pool handle) via *RequestContext.
type Tenant struct {
	ID             uint64
	Name           string
	DatabaseName   string
	DatabaseType   string
	DatabaseSchema string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Caller is the identity the gate resolved for a standard-mode request,
// either from the homeID header (identity-only) or from a verified
// web_jwt_token (full claims). UserID/Role are zero-value in the
// header-identity path, matching §4.6 step 4's "header presence is
// sufficient in standard mode" rule.
type Caller struct {
	UserID int64
	Role   string
}

// RequestContext is what every domain handler actually receives: the
// gate-resolved tenant, its pool, and the caller identity, exactly the
// "(home_id, schema, pool)" shape spec.md's C8 describes, plus the
// caller so auth-aware handlers (logout, refresh) don't need a second
// context lookup.
type RequestContext struct {
	Tenant Tenant
	Pool   *sqlx.DB
	Caller Caller
}

// HomeID is a convenience accessor so handler code mirrors spec.md's
// "home_id" vocabulary instead of always writing rc.Tenant.ID.
func (rc *RequestContext) HomeID() uint64 { return rc.Tenant.ID }

// Handler is the canonical signature every domain handler and every
// projected, tenant-prefixed handler satisfies.
type Handler func(ctx context.Context, rc *RequestContext, w http.ResponseWriter, r *http.Request)

// ctxKey is unexported to avoid collisions with other packages' context keys.
type ctxKey int

const tenantKey ctxKey = iota

// WithTenant attaches the gate-resolved RequestContext to ctx. The gate is
// the only caller.
func WithTenant(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, tenantKey, rc)
}

// FromContext returns the RequestContext attached by the gate, if any.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(tenantKey).(*RequestContext)
	return rc, ok
}
