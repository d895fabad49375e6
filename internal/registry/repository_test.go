// internal/registry/repository_test.go
//
// Unit tests for the raw home-table query helpers using sqlmock.
//
// Run: go test ./internal/registry -v
package registry

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestByNameFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	now := time.Unix(0, 0)
	rows := sqlmock.NewRows([]string{
		"id", "name", "database_name", "database_type", "database_schema",
		"admin_user_email", "admin_user_password", "created_at", "updated_at",
	}).AddRow(1, "acme", "acme_db", "sqlserver", "acme", "ops@acme.example", "secret", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + selectCols + ` FROM home WHERE name = ? LIMIT 1`)).
		WithArgs("acme").
		WillReturnRows(rows)

	rec, err := byName(context.Background(), db, "acme")
	if err != nil {
		t.Fatalf("byName: %v", err)
	}
	if rec.Name != "acme" || rec.DatabaseSchema != "acme" {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestByNameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + selectCols + ` FROM home WHERE name = ? LIMIT 1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := byName(context.Background(), db, "ghost")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO home`)).
		WithArgs("acme", "acme_db", "sqlserver", "acme", "ops@acme.example", "secret").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := insert(context.Background(), db, Record{
		Name: "acme", DatabaseName: "acme_db", DatabaseType: "sqlserver",
		DatabaseSchema: "acme", AdminUserEmail: "ops@acme.example", AdminUserPassword: "secret",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
}

func TestDeleteByName(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM home WHERE name = ?`)).
		WithArgs("acme").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := deleteByName(context.Background(), db, "acme"); err != nil {
		t.Fatalf("deleteByName: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
