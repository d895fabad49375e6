// internal/handlers/discovery.go
//
// The one lookup a client can make before it knows its tenant: resolve a
// phone number to a home_id/home_name pair via C5, then construct the
// tenant-prefixed URL for everything after. Both canonical paths bypass
// the gate entirely (§4.8 step 2) — there is no tenant yet to validate
// against.
package handlers

import (
	"net/http"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/phoneindex"
)

// Discovery wraps the phone index so HomeByPhone/UserHome can be mounted
// as plain http.HandlerFunc values at the unprefixed canonical paths.
type Discovery struct {
	Index *phoneindex.Index
}

// HomeByPhone implements GET /api/home_index/get_home_by_phone.
func (d *Discovery) HomeByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone_number")
	if phone == "" {
		writeErr(w, apperr.New(apperr.ValidationError, "phone_number is required"))
		return
	}
	entry, err := d.Index.Get(r.Context(), phone)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"home_id":      entry.HomeID,
		"home_name":    entry.HomeName,
		"phone_number": entry.PhoneNumber,
	})
}

// UserHome implements GET /api/users/get_user_home, an alias of
// HomeByPhone kept as a distinct operation id per §6's URL surface table.
func (d *Discovery) UserHome(w http.ResponseWriter, r *http.Request) {
	d.HomeByPhone(w, r)
}
