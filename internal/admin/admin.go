// Package admin implements the tenant registry management surface at
// "/home/admin/...", a standalone chi router outside the projector
// (§6's URL surface table) guarded by a bearer admin token rather than
// the tenant gate — there is no tenant to resolve here, only the
// deployment operator.
package admin

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/authtoken"
	"github.com/beresheet-platform/homeapi/internal/registry"
)

// Router builds the admin API, mounted by cmd/homeapi at "/home/admin".
type Router struct {
	registry *registry.Service
	admin    *authtoken.Issuer
}

// New builds an admin Router.
func New(reg *registry.Service, adminIssuer *authtoken.Issuer) *Router {
	return &Router{registry: reg, admin: adminIssuer}
}

// Mount attaches every admin route to r under the bearer-auth middleware.
func (a *Router) Mount(r chi.Router) {
	r.Route("/home/admin/api", func(ar chi.Router) {
		ar.Use(a.requireBearer)
		ar.Get("/tenants", a.listTenants)
		ar.Post("/tenants", a.createTenant)
		ar.Delete("/tenants/{name}", a.deleteTenant)
	})
}

func (a *Router) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeAdminErr(w, apperr.New(apperr.Unauthenticated, "missing bearer token"))
			return
		}
		if _, err := a.admin.Parse(strings.TrimPrefix(h, "Bearer ")); err != nil {
			writeAdminErr(w, apperr.New(apperr.Unauthenticated, "invalid admin token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// tenantView is what the admin API exposes for a tenant record; it
// deliberately omits AdminUserPassword, which registry.Record carries
// only for internal pool-credential use.
type tenantView struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	DatabaseName   string `json:"database_name"`
	DatabaseType   string `json:"database_type"`
	DatabaseSchema string `json:"database_schema"`
	AdminUserEmail string `json:"admin_user_email"`
}

func toView(rec registry.Record) tenantView {
	return tenantView{
		ID: rec.ID, Name: rec.Name, DatabaseName: rec.DatabaseName,
		DatabaseType: rec.DatabaseType, DatabaseSchema: rec.DatabaseSchema,
		AdminUserEmail: rec.AdminUserEmail,
	}
}

func (a *Router) listTenants(w http.ResponseWriter, r *http.Request) {
	rows, err := a.registry.ListAll(r.Context())
	if err != nil {
		writeAdminErr(w, err)
		return
	}
	views := make([]tenantView, len(rows))
	for i, rec := range rows {
		views[i] = toView(rec)
	}
	writeAdminJSON(w, http.StatusOK, views)
}

type createTenantRequest struct {
	Name           string `json:"name"`
	AdminUserEmail string `json:"admin_user_email"`
}

func (a *Router) createTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAdminErr(w, apperr.New(apperr.ValidationError, "malformed tenant body"))
		return
	}
	password := uuid.New().String()
	rec, err := a.registry.Create(r.Context(), registry.CreateRequest{
		Name:           req.Name,
		AdminUserEmail: req.AdminUserEmail,
	}, password)
	if err != nil {
		writeAdminErr(w, err)
		return
	}
	writeAdminJSON(w, http.StatusCreated, toView(rec))
}

func (a *Router) deleteTenant(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.registry.Delete(r.Context(), name); err != nil {
		writeAdminErr(w, err)
		return
	}
	writeAdminJSON(w, http.StatusOK, map[string]string{"status": "deleted", "name": name})
}

func writeAdminJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAdminErr(w http.ResponseWriter, err error) {
	writeAdminJSON(w, apperr.KindOf(err).Status(), map[string]string{"error": err.Error()})
}
