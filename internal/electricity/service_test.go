package electricity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/validation"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	ctx := context.Background()
	backend := ledger.NewInMemory()
	accounts, err := sassa.NewService(ctx, sassa.NewMemoryRepository(), backend, nil)
	if err != nil {
		t.Fatalf("sassa service: %v", err)
	}
	userID := uuid.NewString()
	if _, err := accounts.Link(ctx, sassa.LinkInput{
		UserID:      userID,
		SassaNumber: "1234567890",
		GrantType:   "DISABILITY",
	}); err != nil {
		t.Fatalf("link account: %v", err)
	}
	svc, err := NewService(ctx, backend, accounts, NewMemoryRepository(), nil)
	if err != nil {
		t.Fatalf("electricity service: %v", err)
	}
	return svc, userID
}

func validInput(userID string, amount money.Amount) Input {
	return Input{
		UserID:       userID,
		Amount:       amount,
		MeterNumber:  "12345678901",
		Municipality: "City of Johannesburg",
	}
}

func TestPurchaseDebitsAndIssuesToken(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	// DISABILITY grants R1986.00 on link.
	result, err := svc.Purchase(ctx, validInput(userID, 50_00))
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.Units.String() != "20.00" {
		t.Fatalf("units = %s, want 20.00", result.Units)
	}
	if result.RemainingBalance != 1936_00 {
		t.Fatalf("remaining balance = %s, want 1936.00", result.RemainingBalance)
	}
	if !regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{4}-\d{4}$`).MatchString(result.Token) {
		t.Fatalf("token %q not grouped 4-4-4-4-4", result.Token)
	}
	if !strings.HasPrefix(result.ReferenceNumber, "ELEC-") {
		t.Fatalf("reference %q should start with ELEC-", result.ReferenceNumber)
	}
	wantExpiry := result.CompletedAt.Add(7 * 24 * time.Hour)
	if !result.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires at %v, want %v", result.ExpiresAt, wantExpiry)
	}
}

func TestPurchaseReplaysDuplicateReference(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	svc.newRef = func() string { return "ELEC-20260601120000-0001" }

	first, err := svc.Purchase(ctx, validInput(userID, 50_00))
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	second, err := svc.Purchase(ctx, validInput(userID, 50_00))
	if !errors.Is(err, ledger.ErrDuplicateReference) {
		t.Fatalf("err = %v, want ErrDuplicateReference", err)
	}
	if second.TransactionID != first.TransactionID {
		t.Fatalf("transaction id = %q, want original %q", second.TransactionID, first.TransactionID)
	}
	if second.RemainingBalance != first.RemainingBalance {
		t.Fatalf("remaining = %s, want %s", second.RemainingBalance, first.RemainingBalance)
	}
	if second.Token != "" {
		t.Fatalf("replay must not mint a new token, got %q", second.Token)
	}
}

func TestPurchaseSanitizesMeterNumber(t *testing.T) {
	svc, userID := newTestService(t)

	input := validInput(userID, 20_00)
	input.MeterNumber = "12AB345678901"
	result, err := svc.Purchase(context.Background(), input)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.MeterNumber != "12345678901" {
		t.Fatalf("meter = %q, want digits only", result.MeterNumber)
	}
}

func TestValidateBounds(t *testing.T) {
	balance := money.Amount(1000_00)
	cases := []struct {
		name    string
		mutate  func(*Input)
		message string
	}{
		{"zero amount", func(i *Input) { i.Amount = 0 }, "Please enter a valid amount"},
		{"below minimum", func(i *Input) { i.Amount = 2_00 }, "Minimum purchase amount is R 5.00"},
		{"above maximum", func(i *Input) { i.Amount = 6000_00 }, "Maximum purchase amount is R 5000.00"},
		{"over balance", func(i *Input) { i.Amount = 1500_00 }, "Insufficient balance. Available: R 1000.00"},
		{"short meter", func(i *Input) { i.MeterNumber = "1234567890" }, "Meter number must be at least 11 digits"},
		{"unknown municipality", func(i *Input) { i.Municipality = "Atlantis" }, "Please select a municipality"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput("u", 50_00)
			tc.mutate(&input)
			err := Validate(input, balance)
			if err == nil || err.Error() != tc.message {
				t.Fatalf("got %v, want %q", err, tc.message)
			}
		})
	}
}

func TestValidateRejectsBeforeDebit(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	input := validInput(userID, 3_00)
	_, err := svc.Purchase(ctx, input)
	var vErr validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	items, err := svc.History(ctx, userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected purchase must not be recorded, history length = %d", len(items))
	}
}

func TestUnitsFor(t *testing.T) {
	cases := []struct {
		amount money.Amount
		want   string
	}{
		{50_00, "20.00"},
		{5_00, "2.00"},
		{100_00, "40.00"},
		{12_34, "4.94"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := UnitsFor(tc.amount).String(); got != tc.want {
			t.Fatalf("UnitsFor(%s) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestFormatToken(t *testing.T) {
	if got := FormatToken("12345678901234567890"); got != "1234-5678-9012-3456-7890" {
		t.Fatalf("got %q", got)
	}
}
