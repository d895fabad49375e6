package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	reflectcache "github.com/beresheet-platform/homeapi/internal/reflect"
	"github.com/beresheet-platform/homeapi/internal/requestctx"
)

func newMockRC(t *testing.T) (*requestctx.RequestContext, sqlmock.Sqlmock, func()) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	db := sqlx.NewDb(raw, "sqlmock")
	rc := &requestctx.RequestContext{Pool: db, Tenant: requestctx.Tenant{DatabaseSchema: "acme"}}
	return rc, mock, func() { db.Close() }
}

func newTestEvents(t *testing.T) *Events {
	t.Helper()
	r, err := reflectcache.New("sqlserver", 0)
	if err != nil {
		t.Fatalf("reflector init: %v", err)
	}
	return &Events{Reflect: r}
}

func expectReflectTable(mock sqlmock.Sqlmock, columns ...string) {
	colRows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"})
	for _, c := range columns {
		colRows.AddRow(c, "int", "NO")
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT column_name, data_type, is_nullable`)).WillReturnRows(colRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT kcu.column_name`)).WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
}

func TestEventsRegisterSucceeds(t *testing.T) {
	rc, mock, closeFn := newMockRC(t)
	defer closeFn()
	ev := newTestEvents(t)

	expectReflectTable(mock, "id", "current_participants", "max_participants")
	expectReflectTable(mock, "id", "event_id", "user_id")

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET current_participants = current_participants + 1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO events_registration`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := bytes.NewBufferString(`{"event_id":5,"user_id":9}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events/register", body)
	w := httptest.NewRecorder()

	ev.Register(context.Background(), rc, w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestEventsRegisterFullEventIsConflict(t *testing.T) {
	rc, mock, closeFn := newMockRC(t)
	defer closeFn()
	ev := newTestEvents(t)

	expectReflectTable(mock, "id", "current_participants", "max_participants")
	expectReflectTable(mock, "id", "event_id", "user_id")

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET current_participants = current_participants + 1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	body := bytes.NewBufferString(`{"event_id":5,"user_id":9}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events/register", body)
	w := httptest.NewRecorder()

	ev.Register(context.Background(), rc, w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEventsRegisterMissingCapacityColumnsIsTableMissing(t *testing.T) {
	rc, mock, closeFn := newMockRC(t)
	defer closeFn()
	ev := newTestEvents(t)

	expectReflectTable(mock, "id", "name")

	body := bytes.NewBufferString(`{"event_id":5,"user_id":9}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events/register", body)
	w := httptest.NewRecorder()

	ev.Register(context.Background(), rc, w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 (TableMissing), got %d: %s", w.Code, w.Body.String())
	}
}

func TestEventsUnregisterClampsAtZero(t *testing.T) {
	rc, mock, closeFn := newMockRC(t)
	defer closeFn()
	ev := newTestEvents(t)

	expectReflectTable(mock, "id", "event_id", "user_id")
	expectReflectTable(mock, "id", "current_participants", "max_participants")

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events_registration WHERE event_id = ? AND user_id = ?`)).
		WithArgs(int64(5), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET current_participants = current_participants - 1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := bytes.NewBufferString(`{"event_id":5,"user_id":9}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events/unregister", body)
	w := httptest.NewRecorder()

	ev.Unregister(context.Background(), rc, w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
