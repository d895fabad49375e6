// Package middleware holds small, composable HTTP wrappers shared by both
// the tenant-prefixed router and the admin router.
package middleware

import (
	"net/http"
	"strings"
)

// ForceHTTPS wraps h. If the request is plain HTTP and the host is not
// "localhost", it issues a 308 Permanent Redirect to the HTTPS version of
// the same URL. Otherwise it calls the next handler unchanged. Tenant
// resolution happens downstream of this middleware (routing here is
// path-prefixed, not host-based), so no registry lookup is needed to
// decide whether to redirect.
func ForceHTTPS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil || stripPort(r.Host) == "localhost" {
			h.ServeHTTP(w, r)
			return
		}
		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
