// Package project implements the tenant route projector (C6): it takes a
// set of canonical handlers registered against paths like
// "/api/events/register" and exposes each one under
// "/{tenant_name}/api/events/register" with the validation gate (C7)
// wired in front, per spec.md §4.6. No reflection is used — each route is
// a plain chi.Mount with a wrapped http.HandlerFunc, mirroring the
// teacher's Router() (internal/tenant/router.go), generalized from one
// router per tenant host to one router per canonical route set shared by
// every tenant path prefix.
package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beresheet-platform/homeapi/internal/gate"
	"github.com/beresheet-platform/homeapi/internal/requestctx"
)

// Route is one canonical, tenant-agnostic endpoint registration.
type Route struct {
	Method      string
	Path        string // canonical, e.g. "/api/events/register"
	Handler     requestctx.Handler
	OperationID string
}

// Projected is Route after tenant-prefixing, kept for callers that want to
// print a route table (e.g. the "/" discovery endpoint).
type Projected struct {
	Method      string
	Path        string // "/{tenant_name}" + canonical path
	OperationID string // "tenant_" + canonical operation id
}

// Project mounts every canonical route under "/{tenant}" on r, running
// each request through the gate first. It returns the projected route
// table for documentation/discovery purposes.
func Project(r chi.Router, g *gate.Gate, routes []Route) []Projected {
	out := make([]Projected, 0, len(routes))
	r.Route("/{tenant}", func(tr chi.Router) {
		for _, rt := range routes {
			wrapped := g.Wrap(rt.Path, rt.Handler)
			tr.MethodFunc(rt.Method, rt.Path, wrapped)
			out = append(out, Projected{
				Method:      rt.Method,
				Path:        "/{tenant}" + rt.Path,
				OperationID: "tenant_" + rt.OperationID,
			})
		}
	})
	return out
}

// ServeCanonical mounts a route at its canonical, unprefixed path with no
// gate at all — used for the two pre-tenant discovery endpoints in §4.8
// (home_index lookup, get_user_home) that must work before the client
// knows which tenant it belongs to.
func ServeCanonical(r chi.Router, method, path string, h http.HandlerFunc) {
	r.MethodFunc(method, path, h)
}
