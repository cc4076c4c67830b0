package validator

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Email  string `json:"email_address" binding:"required,email_address"`
	Time   string `json:"time" binding:"omitempty,clock"`
	Amount string `json:"amount" binding:"omitempty,money"`
	Year   string `json:"year" binding:"omitempty,year"`
}

func init() {
	Register()
}

func TestCustomValidators(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{name: "valid", in: sample{Email: "a@example.com", Time: "12:00", Amount: "12.50", Year: "2024"}},
		{name: "seconds_clock", in: sample{Email: "a@example.com", Time: "23:59:59"}},
		{name: "missing_email", in: sample{}, wantField: "email_address"},
		{name: "email_without_tld", in: sample{Email: "a@example"}, wantField: "email_address"},
		{name: "email_without_at", in: sample{Email: "example.com"}, wantField: "email_address"},
		{name: "bad_clock", in: sample{Email: "a@example.com", Time: "25:00"}, wantField: "time"},
		{name: "three_decimals", in: sample{Email: "a@example.com", Amount: "1.234"}, wantField: "amount"},
		{name: "too_large", in: sample{Email: "a@example.com", Amount: "100000000"}, wantField: "amount"},
		{name: "not_a_number", in: sample{Email: "a@example.com", Amount: "ten"}, wantField: "amount"},
		{name: "short_year", in: sample{Email: "a@example.com", Year: "24"}, wantField: "year"},
		{name: "alpha_year", in: sample{Email: "a@example.com", Year: "20x4"}, wantField: "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field() != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verrs[0].Field())
			}
		})
	}
}
