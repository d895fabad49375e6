// internal/handlers/auth.go
//
// Login/refresh/logout for the tenant-scoped web session described in
// §4.8. These run in the gate's auth mode: only tenant_name is validated
// before Login executes, since the caller has no identity yet.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/authtoken"
	"github.com/beresheet-platform/homeapi/internal/requestctx"
)

// Auth bundles the issuer and token lifetimes every login/refresh call needs.
type Auth struct {
	Web        *authtoken.Issuer
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type userRow struct {
	ID    int64  `db:"id"`
	Role  string `db:"role"`
}

// Login implements POST /api/auth/login. Credential storage is out of
// this system's scope (spec.md never defines a password hash column for
// the per-tenant `users` table); the phone number's presence in the
// tenant's own user table is treated as sufficient proof of identity,
// matching the source's seed-login posture documented in DESIGN.md.
func (a *Auth) Login(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.New(apperr.ValidationError, "malformed login body"))
		return
	}

	var u userRow
	err := rc.Pool.GetContext(ctx, &u, `SELECT id, role FROM users WHERE phone_number = ?`, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErr(w, apperr.New(apperr.Unauthenticated, "no user with that phone number"))
			return
		}
		writeErr(w, apperr.Wrap(apperr.QueryFailed, "auth login: lookup user", err))
		return
	}

	access, err := a.Web.IssueAccess(u.ID, rc.Tenant.ID, u.Role, a.AccessTTL)
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.QueryFailed, "auth login: issue access token", err))
		return
	}
	refresh, err := a.Web.IssueRefresh(u.ID, rc.Tenant.ID, a.RefreshTTL)
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.QueryFailed, "auth login: issue refresh token", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name: "web_jwt_token", Value: access, Path: "/", HttpOnly: true,
		MaxAge: int(a.AccessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name: "web_refresh_token", Value: refresh, Path: "/", HttpOnly: true,
		MaxAge: int(a.RefreshTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{"user_id": u.ID, "home_id": rc.Tenant.ID, "role": u.Role})
}

// Refresh implements POST /api/auth/refresh: exchanges a valid refresh
// cookie for a fresh access token without re-checking credentials.
func (a *Auth) Refresh(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("web_refresh_token")
	if err != nil {
		writeErr(w, apperr.New(apperr.Unauthenticated, "no refresh cookie"))
		return
	}
	claims, err := a.Web.Parse(cookie.Value)
	if err != nil || claims.HomeID != rc.Tenant.ID {
		writeErr(w, apperr.New(apperr.WebSessionExpired, "refresh token invalid or expired"))
		return
	}
	access, err := a.Web.IssueAccess(claims.UserID, rc.Tenant.ID, claims.Role, a.AccessTTL)
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.QueryFailed, "auth refresh: issue access token", err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name: "web_jwt_token", Value: access, Path: "/", HttpOnly: true,
		MaxAge: int(a.AccessTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// Logout implements POST /api/auth/logout: clears both session cookies.
// No server-side token revocation list exists; short access-token TTL is
// the mitigation, matching the teacher's stateless-session posture.
func (a *Auth) Logout(ctx context.Context, rc *requestctx.RequestContext, w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "web_jwt_token", Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "web_refresh_token", Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
