package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/bazaar/pkg/validate"
)

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,max=150"`
	Email    string `json:"email"    validate:"nullable,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      *int   `json:"age"      validate:"nullable,gte=0,lte=150"`
	Status   string `json:"status"   validate:"nullable,in=pending,confirmed,cancelled"`
}

func intp(n int) *int { return &n }

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "vendor_1",
		Email:    "vendor1@example.com",
		Password: "secret123",
		Age:      intp(30),
		Status:   "confirmed",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["password"]; !ok {
		t.Error("expected password to be required")
	}
	if _, ok := errs["email"]; ok {
		t.Error("nullable email should be skipped when empty")
	}
	if _, ok := errs["age"]; ok {
		t.Error("nil age should be skipped")
	}
}

func TestPointerBounds(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "a", Password: "secret", Age: intp(-1)})
	if _, ok := errs["age"]; !ok {
		t.Errorf("expected negative age to fail, got %v", errs)
	}
}

func TestStringLength(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "a", Password: "123"})
	if _, ok := errs["password"]; !ok {
		t.Error("expected short password to fail")
	}
}

func TestAlphaDash(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "has space", Password: "secret"})
	if _, ok := errs["username"]; !ok {
		t.Error("expected username with a space to fail")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "a", Password: "secret", Status: "shipped"})
	if _, ok := errs["status"]; !ok {
		t.Error("expected unknown status to fail")
	}
	errs = validate.Struct(registerInput{Username: "a", Password: "secret", Status: "cancelled"})
	if validate.HasErrors(errs) {
		t.Errorf("expected cancelled to pass, got %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "a", Password: "secret", Email: "nope"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
}
