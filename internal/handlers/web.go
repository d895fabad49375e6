// internal/handlers/web.go
//
// The four presentation routes from §6's URL surface table
// ("/{tenant}/login", "/{tenant}/login/{asset}", "/{tenant}/web",
// "/{tenant}/web/{asset}"). Serving a real SPA/Flutter bundle is an
// explicit non-goal; what matters here is that each route passes through
// the gate with the right mode (tenant-only for login, standard web mode
// for web, so an unauthenticated "/web" redirects) and returns a minimal
// placeholder body instead of 404ing.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beresheet-platform/homeapi/internal/requestctx"
)

const loginPage = `<!doctype html><html><body><h1>sign in</h1></body></html>`
const webAppPage = `<!doctype html><html><body><h1>home</h1></body></html>`

// LoginPage serves the login HTML. Reached in tenant-only mode: the gate
// resolves the tenant but never requires a caller identity here.
func LoginPage(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(loginPage))
}

// LoginAsset serves a static asset referenced by the login page.
func LoginAsset(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	serveAsset(w, r)
}

// WebApp serves the main application shell. The gate already redirected
// to login for an unauthenticated caller before this ever runs.
func WebApp(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(webAppPage))
}

// WebAsset serves a static asset referenced by the application shell.
func WebAsset(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	serveAsset(w, r)
}

func serveAsset(w http.ResponseWriter, r *http.Request) {
	asset := chi.URLParam(r, "asset")
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("asset not found: " + asset))
}
