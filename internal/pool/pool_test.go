package pool

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/config"
)

func newSQLMock() (*sqlx.DB, sqlmock.Sqlmock, error) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}
	return sqlx.NewDb(raw, "sqlmock"), mock, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(config.Database{Engine: "sqlserver"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestAcquireFastPathReturnsCachedPool(t *testing.T) {
	r := newTestRegistry(t)

	// Seed the map directly so Acquire takes the fast (no cold-load) path;
	// exercising the real open() path would require a live sqlserver/oracle
	// listener, which unit tests here have no access to.
	want := &sqlx.DB{}
	r.mu.Lock()
	r.m["acme"] = want
	r.mu.Unlock()

	got, err := r.Acquire(context.Background(), Credential{Schema: "acme"})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got != want {
		t.Fatalf("expected cached pool to be returned unchanged")
	}
	if r.Len() != 1 {
		t.Fatalf("expected Len() == 1, got %d", r.Len())
	}
}

func TestEvictClosesAndForgetsPool(t *testing.T) {
	r := newTestRegistry(t)

	raw, mock, err := newSQLMock()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectClose()

	r.mu.Lock()
	r.m["acme"] = raw
	r.mu.Unlock()

	r.Evict("acme")

	if r.Len() != 0 {
		t.Fatalf("expected Len() == 0 after Evict, got %d", r.Len())
	}
	// Evicting an already-absent schema must be a safe no-op.
	r.Evict("acme")
}
