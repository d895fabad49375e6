// internal/registry/repository.go
//
// `home` table query helpers.
//
// Context
// -------
// These functions provide direct (non-cached) access to the admin schema
// for the Service above them, which layers the short-TTL cache and the
// create/delete state machines on top. Kept separate the way the teacher
// separates meta.ByHost from the tenant cache: read-through logic and raw
// SQL never mix in one function.
package registry

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by byName/byID when no row matches.
var ErrNotFound = errors.New("registry: tenant not found")

const selectCols = `id, name, database_name, database_type, database_schema,
	admin_user_email, admin_user_password, created_at, updated_at`

func byName(ctx context.Context, db *sqlx.DB, name string) (*Record, error) {
	const q = `SELECT ` + selectCols + ` FROM home WHERE name = ? LIMIT 1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func byID(ctx context.Context, db *sqlx.DB, id uint64) (*Record, error) {
	const q = `SELECT ` + selectCols + ` FROM home WHERE id = ? LIMIT 1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func listAll(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = `SELECT ` + selectCols + ` FROM home ORDER BY id ASC`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// insert appends the commit-marker row as the last step of provisioning.
// The caller supplies id == 0; the auto-increment value is returned.
func insert(ctx context.Context, db *sqlx.DB, rec Record) (uint64, error) {
	const q = `
		INSERT INTO home
			(name, database_name, database_type, database_schema,
			 admin_user_email, admin_user_password, created_at, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, NOW(), NOW())`
	res, err := db.ExecContext(ctx, q,
		rec.Name, rec.DatabaseName, rec.DatabaseType, rec.DatabaseSchema,
		rec.AdminUserEmail, rec.AdminUserPassword)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// deleteByName removes the tenant record first in the teardown sequence;
// its absence is the teardown commit marker, mirroring insert's role at
// the end of provisioning.
func deleteByName(ctx context.Context, db *sqlx.DB, name string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM home WHERE name = ?`, name)
	return err
}
