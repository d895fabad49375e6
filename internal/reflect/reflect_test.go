package reflectcache

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestDescribeCachesAfterFirstLoad(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT column_name, data_type, is_nullable`)).
		WithArgs("acme", "events").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "int", "NO").
			AddRow("name", "varchar", "YES"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT kcu.column_name`)).
		WithArgs("acme", "events").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))

	r, err := New("sqlserver", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tbl, err := r.Describe(context.Background(), db, "acme", "events")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !tbl.HasColumn("name") || len(tbl.PrimaryKey) != 1 || tbl.PrimaryKey[0] != "id" {
		t.Fatalf("unexpected table descriptor: %#v", tbl)
	}

	// Second call must hit the LRU, not issue any further queries.
	if _, err := r.Describe(context.Background(), db, "acme", "events"); err != nil {
		t.Fatalf("Describe (cached): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestDescribeEmptyColumnsIsTableMissing(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT column_name, data_type, is_nullable`)).
		WithArgs("acme", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}))

	r, err := New("sqlserver", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Describe(context.Background(), db, "acme", "ghost"); err == nil {
		t.Fatalf("expected TableMissing error")
	}
}
