package main

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestLoadCSVResolvesDateFunctionsAndInserts(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	csvBody := "id,name,starts_at\n1,Potluck,datenow()\n2,Movie Night,dateadd(7,days)\n"

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events (id, name, starts_at) VALUES (?, ?, ?)`)).
		WithArgs("1", "Potluck", now.Format(time.RFC3339)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events (id, name, starts_at) VALUES (?, ?, ?)`)).
		WithArgs("2", "Movie Night", now.AddDate(0, 0, 7).Format(time.RFC3339)).
		WillReturnResult(sqlmock.NewResult(2, 1))

	n, err := loadCSV(context.Background(), db, "events", strings.NewReader(csvBody), now)
	if err != nil {
		t.Fatalf("loadCSV: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows inserted, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLoadCSVLeavesLiteralFieldsUnchanged(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	csvBody := "id,name\n1,Book Club\n"

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events (id, name) VALUES (?, ?)`)).
		WithArgs("1", "Book Club").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := loadCSV(context.Background(), db, "events", strings.NewReader(csvBody), now); err != nil {
		t.Fatalf("loadCSV: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
