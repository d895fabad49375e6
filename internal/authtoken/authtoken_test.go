package authtoken

import (
	"testing"
	"time"
)

func TestIssueAccessRoundTrips(t *testing.T) {
	issuer := New("secret")
	tok, err := issuer.IssueAccess(42, 7, "admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 || claims.HomeID != 7 || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := New("secret-a").IssueAccess(1, 1, "user", time.Hour)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := New("secret-b").Parse(tok); err == nil {
		t.Fatalf("expected Parse to reject a token signed with a different secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := New("secret")
	tok, err := issuer.IssueAccess(1, 1, "user", -time.Minute)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := issuer.Parse(tok); err == nil {
		t.Fatalf("expected Parse to reject an expired token")
	}
}

func TestIssueRefreshCarriesEmptyRole(t *testing.T) {
	issuer := New("secret")
	tok, err := issuer.IssueRefresh(1, 1, 24*time.Hour)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Role != "" {
		t.Fatalf("expected empty role on a refresh token, got %q", claims.Role)
	}
}
