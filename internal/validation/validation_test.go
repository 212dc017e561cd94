package validation

import (
	"errors"
	"testing"
)

func TestErrorfMatchesWithErrorsAs(t *testing.T) {
	err := Errorf("Minimum withdrawal amount is %s", "R 10.00")

	var ve Error
	if !errors.As(err, &ve) {
		t.Fatal("expected a validation error")
	}
	if got := ve.Error(); got != "Minimum withdrawal amount is R 10.00" {
		t.Fatalf("message = %q", got)
	}
}

func TestDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"082 123 4567", "0821234567"},
		{"12AB345678901", "12345678901"},
		{"+27-82-123-4567", "27821234567"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Digits(tc.in); got != tc.want {
			t.Errorf("Digits(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsDigits(t *testing.T) {
	if !IsDigits("1234") {
		t.Error("1234 should pass")
	}
	if IsDigits("12a4") || IsDigits("") {
		t.Error("non-digit and empty strings should fail")
	}
}
