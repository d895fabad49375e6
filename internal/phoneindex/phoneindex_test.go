package phoneindex

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/beresheet-platform/homeapi/internal/apperr"
	"github.com/beresheet-platform/homeapi/internal/config"
)

func TestNormalizeStripsOneLeadingZero(t *testing.T) {
	cases := map[string]string{
		"0501234567": "501234567",
		"501234567":  "501234567",
		"":           "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
	// Repeated application is a no-op.
	once := Normalize("0501234567")
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent: %q != %q", twice, once)
	}
}

func TestGetFoundAndCached(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	now := time.Unix(0, 0)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT phone_number, home_id, home_name, updated_at FROM home_index WHERE phone_number = ?`)).
		WithArgs("501234567").
		WillReturnRows(sqlmock.NewRows([]string{"phone_number", "home_id", "home_name", "updated_at"}).
			AddRow("501234567", 1, "acme", now))

	idx, err := New(db, config.Cache{Provider: "memory", TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e, err := idx.Get(context.Background(), "0501234567")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.HomeID != 1 || e.HomeName != "acme" {
		t.Fatalf("unexpected entry: %#v", e)
	}

	// Second lookup must hit the in-process cache, not SQL again.
	if _, err := idx.Get(context.Background(), "0501234567"); err != nil {
		t.Fatalf("Get (cached): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT phone_number, home_id, home_name, updated_at FROM home_index WHERE phone_number = ?`)).
		WithArgs("999").
		WillReturnRows(sqlmock.NewRows([]string{"phone_number", "home_id", "home_name", "updated_at"}))

	idx, err := New(db, config.Cache{Provider: "memory", TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = idx.Get(context.Background(), "999")
	if apperr.KindOf(err) != apperr.TenantNotFound {
		t.Fatalf("expected TenantNotFound, got %v", err)
	}
}
