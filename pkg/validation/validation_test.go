package validation

import (
	"errors"
	apperrors "staybook/pkg/errors"
	"testing"
)

type sample struct {
	Name   string `json:"name" validate:"required,min=2"`
	Guests int    `json:"guests" validate:"min=1,max=4"`
	Room   string `json:"room" validate:"oneof=standard deluxe suite"`
	Day    string `json:"day" validate:"datetime=2006-01-02"`
}

func TestStruct_TranslatesByJSONName(t *testing.T) {
	err := Struct(New(), &sample{Name: "", Guests: 9, Room: "attic", Day: "06/01/2025"})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}

	tests := map[string]string{
		"name":   "name is required",
		"guests": "guests must be at most 4",
		"room":   "room must be one of: standard deluxe suite",
		"day":    "day must be a date in YYYY-MM-DD format",
	}
	for field, want := range tests {
		if got := verrs.Field(field); got != want {
			t.Errorf("Field(%s) = %q, want %q", field, got, want)
		}
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(New(), &sample{Name: "Ada", Guests: 2, Room: "suite", Day: "2025-06-01"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidationErrors_AppError(t *testing.T) {
	verrs := ValidationErrors{{Field: "guests", Message: "guests must be at least 1"}}

	appErr := verrs.AppError()
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("Code = %s", appErr.Code)
	}
	if appErr.Details["guests"] != "guests must be at least 1" {
		t.Errorf("Details = %v", appErr.Details)
	}
}
