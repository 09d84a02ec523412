package validation

import (
	"strings"
	"testing"

	"github.com/skillsenselab/data2csv/internal/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New().Required("name", "").Required("host", "0.0.0.0")
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(v.Errors()))
	}
	if v.Errors()[0].Field != "name" {
		t.Errorf("expected field 'name', got %q", v.Errors()[0].Field)
	}
}

func TestValidatorRange(t *testing.T) {
	v := New().Range("port", 70000, 1, 65535)
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "between 1 and 65535") {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(false, "rows", "must all have the same number of columns")
	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
}

func TestValidatorNoErrors(t *testing.T) {
	v := New().Required("name", "x").Range("port", 3200, 1, 65535)
	if v.Validate() != nil {
		t.Fatal("expected no error")
	}
}

func TestStructValidate(t *testing.T) {
	type payload struct {
		Data     [][]any `json:"data" validate:"required,min=1"`
		Filename string  `json:"filename"`
	}

	if err := Validate(payload{Data: [][]any{{"a"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Validate(payload{})
	if err == nil {
		t.Fatal("expected error for missing data")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatal("expected AppError")
	}
	if !strings.Contains(appErr.Message, "data") {
		t.Errorf("expected message mentioning 'data', got %q", appErr.Message)
	}
}
