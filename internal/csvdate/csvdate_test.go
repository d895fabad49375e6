package csvdate

import (
	"testing"
	"time"
)

func TestEvalDateNow(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	got, ok := Eval("datenow()", now)
	if !ok || !got.Equal(now) {
		t.Fatalf("Eval(datenow()) = %v, %v; want %v, true", got, ok, now)
	}
}

func TestEvalDateAdd(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		expr string
		want time.Time
	}{
		{"dateadd(1,day)", now.AddDate(0, 0, 1)},
		{"dateadd(7,days)", now.AddDate(0, 0, 7)},
		{"dateadd(1,month)", now.AddDate(0, 0, 30)},
		{"dateadd(3,months)", now.AddDate(0, 0, 90)},
		{"dateadd(1,year)", now.AddDate(0, 0, 365)},
	}
	for _, c := range cases {
		got, ok := Eval(c.expr, now)
		if !ok || !got.Equal(c.want) {
			t.Errorf("Eval(%q) = %v, %v; want %v, true", c.expr, got, ok, c.want)
		}
	}
}

func TestEvalNotAFunction(t *testing.T) {
	now := time.Now()
	if _, ok := Eval("beresheet", now); ok {
		t.Fatal("Eval(\"beresheet\") reported ok, want false for a literal value")
	}
}

func TestEvalFieldPassesThroughLiterals(t *testing.T) {
	now := time.Now()
	if got := EvalField("Main Street", now); got != "Main Street" {
		t.Fatalf("EvalField passed through wrong value: %q", got)
	}
}

func TestEvalRow(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	row := map[string]string{
		"name":       "Beresheet Hall",
		"created_at": "datenow()",
		"expires_at": "dateadd(1,year)",
	}
	out := EvalRow(row, now)
	if out["name"] != "Beresheet Hall" {
		t.Errorf("name field was modified: %q", out["name"])
	}
	if out["created_at"] != now.Format(time.RFC3339) {
		t.Errorf("created_at = %q, want %q", out["created_at"], now.Format(time.RFC3339))
	}
	want := now.AddDate(0, 0, 365).Format(time.RFC3339)
	if out["expires_at"] != want {
		t.Errorf("expires_at = %q, want %q", out["expires_at"], want)
	}
}
