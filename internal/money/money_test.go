package money

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	cases := map[string]Amount{
		"50":      5000,
		"50.5":    5050,
		"50.00":   5000,
		"0.05":    5,
		"3000.00": 300000,
		"-13.50":  -1350,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %d got %d", in, want, got)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "10,50"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error parsing %q", in)
		}
	}
}

func TestRandFormatting(t *testing.T) {
	if got := Amount(5000).Rand(); got != "R 50.00" {
		t.Fatalf("expected R 50.00, got %s", got)
	}
	if got := Amount(350).Rand(); got != "R 3.50" {
		t.Fatalf("expected R 3.50, got %s", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(Amount(1350))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != "13.50" {
		t.Fatalf("expected 13.50, got %s", payload)
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"99.99"`), &a); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if a != 9999 {
		t.Fatalf("expected 9999, got %d", a)
	}
	if err := json.Unmarshal([]byte(`10`), &a); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if a != 1000 {
		t.Fatalf("expected 1000, got %d", a)
	}
}
