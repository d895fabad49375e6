package registry

import (
	"context"
	"testing"

	"github.com/beresheet-platform/homeapi/internal/apperr"
)

func TestCreateRejectsNameWithInjectionCharacters(t *testing.T) {
	svc := &Service{}
	cases := []string{"acme;drop", `acme"--`, "acme tenant", "acme/tenant", ""}
	for _, name := range cases {
		_, err := svc.Create(context.Background(), CreateRequest{Name: name, AdminUserEmail: "ops@acme.example"}, "pw")
		if apperr.KindOf(err) != apperr.ValidationError {
			t.Errorf("Create(%q): expected ValidationError, got %v", name, err)
		}
	}
}

func TestCreateRejectsNameOverMaxLength(t *testing.T) {
	svc := &Service{}
	long := ""
	for i := 0; i < 51; i++ {
		long += "a"
	}
	_, err := svc.Create(context.Background(), CreateRequest{Name: long, AdminUserEmail: "ops@acme.example"}, "pw")
	if apperr.KindOf(err) != apperr.ValidationError {
		t.Errorf("Create(51 chars): expected ValidationError, got %v", err)
	}
}

func TestCreateRejectsMissingAdminEmail(t *testing.T) {
	svc := &Service{}
	_, err := svc.Create(context.Background(), CreateRequest{Name: "acme"}, "pw")
	if apperr.KindOf(err) != apperr.ValidationError {
		t.Errorf("Create(no email): expected ValidationError, got %v", err)
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := CreateRequest{Name: "acme-2", AdminUserEmail: "ops@acme.example"}
	if err := validate.Struct(req); err != nil {
		t.Errorf("validate.Struct(%+v): unexpected error: %v", req, err)
	}
}
