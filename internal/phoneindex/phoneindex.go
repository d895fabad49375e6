// Package phoneindex implements the phone→home discovery directory (C5):
// the one lookup a client can make before it knows which tenant it
// belongs to. It lives in its own `home_index` schema on the
// control-plane database, separate from the `home` catalog table so its
// credentials can be scoped narrowly (§4.3's storage notes).
//
// Context
// -------
// Shape mirrors internal/registry's repository+cache split: raw SQL here,
// a short-TTL/optional-Redis cache in front, normalization kept as a
// small pure function so it is trivially unit-testable and reusable from
// both the write and the read path, per spec.md's idempotence property.
package phoneindex

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/config"
)

// ErrNotFound is returned when no entry matches the normalized phone.
var ErrNotFound = errors.New("phoneindex: no entry for phone")

// Entry mirrors one row of `home_index`.
type Entry struct {
	PhoneNumber string    `db:"phone_number"`
	HomeID      uint64    `db:"home_id"`
	HomeName    string    `db:"home_name"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Normalize strips a single leading "0" from phone, otherwise leaving it
// unchanged. Repeated application is a no-op (Testable Property 5).
func Normalize(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return phone[1:]
	}
	return phone
}

// Index is the package's exported entry point.
type Index struct {
	db    *sqlx.DB
	cache *ttlCache
}

// New builds an Index against the control-plane connection db.
func New(db *sqlx.DB, cacheCfg config.Cache) (*Index, error) {
	var rf *redisFront
	if cacheCfg.Provider == "redis" {
		front, err := newRedisFront(cacheCfg.RedisURL, cacheCfg.TTL)
		if err != nil {
			return nil, err
		}
		rf = front
	}
	return &Index{db: db, cache: newTTLCache(cacheCfg.TTL, rf)}, nil
}

// Get resolves phone (normalized on read, per spec) to its Entry.
func (x *Index) Get(ctx context.Context, phone string) (Entry, error) {
	norm := Normalize(phone)
	if e, ok := x.cache.get(norm); ok {
		return e, nil
	}
	var e Entry
	err := x.db.GetContext(ctx, &e,
		`SELECT phone_number, home_id, home_name, updated_at FROM home_index WHERE phone_number = ?`, norm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, apperr.Newf(apperr.TenantNotFound, "no home_index entry for phone %q", norm)
		}
		return Entry{}, apperr.Wrap(apperr.QueryFailed, "phoneindex get", err)
	}
	x.cache.store(e)
	return e, nil
}

// Upsert normalizes phone on write and updates home_id/home_name/updated_at
// if an entry already exists, else inserts a new row.
func (x *Index) Upsert(ctx context.Context, phone string, homeID uint64, homeName string) error {
	norm := Normalize(phone)
	_, err := x.db.ExecContext(ctx, `
		INSERT INTO home_index (phone_number, home_id, home_name, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE home_id = VALUES(home_id), home_name = VALUES(home_name), updated_at = NOW()`,
		norm, homeID, homeName)
	if err != nil {
		return apperr.Wrap(apperr.QueryFailed, "phoneindex upsert", err)
	}
	x.cache.invalidate(norm)
	return nil
}

// Delete removes the entry for phone, if any.
func (x *Index) Delete(ctx context.Context, phone string) error {
	norm := Normalize(phone)
	if _, err := x.db.ExecContext(ctx, `DELETE FROM home_index WHERE phone_number = ?`, norm); err != nil {
		return apperr.Wrap(apperr.QueryFailed, "phoneindex delete", err)
	}
	x.cache.invalidate(norm)
	return nil
}

// ListAll returns every entry, used by admin tooling only; never cached.
func (x *Index) ListAll(ctx context.Context) ([]Entry, error) {
	var rows []Entry
	if err := x.db.SelectContext(ctx, &rows,
		`SELECT phone_number, home_id, home_name, updated_at FROM home_index ORDER BY phone_number ASC`); err != nil {
		return nil, apperr.Wrap(apperr.QueryFailed, "phoneindex list all", err)
	}
	return rows, nil
}
