package withdraw

import (
	"context"
	"errors"
	"strings"
	"testing"

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
		GrantType:   "SRD",
	}); err != nil {
		t.Fatalf("link account: %v", err)
	}
	svc, err := NewService(ctx, backend, accounts, NewMemoryRepository(), nil)
	if err != nil {
		t.Fatalf("withdraw service: %v", err)
	}
	return svc, userID
}

func validInput(userID string, amount money.Amount) Input {
	return Input{
		UserID:            userID,
		Amount:            amount,
		BankName:          "Capitec Bank",
		AccountNumber:     "1234567890",
		AccountHolderName: "Thandi Mokoena",
	}
}

func TestWithdrawDebitsBalance(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	// SRD grants R350.00 on link.
	result, err := svc.Withdraw(ctx, validInput(userID, 250_00))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if result.RemainingBalance != 100_00 {
		t.Fatalf("remaining balance = %s, want 100.00", result.RemainingBalance)
	}
	if result.TransactionID == "" {
		t.Fatal("expected transaction id")
	}
	if !strings.HasPrefix(result.ReferenceNumber, "WD") {
		t.Fatalf("reference %q should start with WD", result.ReferenceNumber)
	}
	if result.MaskedAccountNumber != "****7890" {
		t.Fatalf("masked account = %q", result.MaskedAccountNumber)
	}
}

func TestWithdrawRejectsBelowMinimum(t *testing.T) {
	svc, userID := newTestService(t)

	_, err := svc.Withdraw(context.Background(), validInput(userID, 5_00))
	var vErr validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Error() != "Minimum withdrawal amount is R 10.00" {
		t.Fatalf("unexpected message %q", vErr.Error())
	}
}

func TestWithdrawRejectsOverBalance(t *testing.T) {
	svc, userID := newTestService(t)

	_, err := svc.Withdraw(context.Background(), validInput(userID, 400_00))
	var vErr validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(vErr.Error(), "Insufficient balance") {
		t.Fatalf("unexpected message %q", vErr.Error())
	}
}

func TestValidateRejectsBadDetails(t *testing.T) {
	balance := money.Amount(350_00)
	cases := []struct {
		name    string
		mutate  func(*Input)
		message string
	}{
		{"zero amount", func(i *Input) { i.Amount = 0 }, "Please enter a valid amount"},
		{"unknown bank", func(i *Input) { i.BankName = "Bank of Narnia" }, "Please select a bank"},
		{"short account number", func(i *Input) { i.AccountNumber = "1234567" }, "Account number must be 8-12 digits"},
		{"long account number", func(i *Input) { i.AccountNumber = "1234567890123" }, "Account number must be 8-12 digits"},
		{"non numeric account", func(i *Input) { i.AccountNumber = "12345abc90" }, "Account number must be 8-12 digits"},
		{"short holder name", func(i *Input) { i.AccountHolderName = " ab " }, "Please enter account holder name"},
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

func TestHistoryRecordsWithdrawals(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Withdraw(ctx, validInput(userID, 50_00)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := svc.Withdraw(ctx, validInput(userID, 20_00)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	items, err := svc.History(ctx, userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("history length = %d, want 2", len(items))
	}
	for _, item := range items {
		if item.Status != ledger.StatusCompleted {
			t.Fatalf("status = %q", item.Status)
		}
		if item.MaskedAccountNumber != "****7890" {
			t.Fatalf("history leaked account number: %q", item.MaskedAccountNumber)
		}
	}
}

func TestWithdrawReplaysDuplicateReference(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()
	svc.newRef = func() string { return "WD-20260601120000-0001" }

	first, err := svc.Withdraw(ctx, validInput(userID, 50_00))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	second, err := svc.Withdraw(ctx, validInput(userID, 50_00))
	if !errors.Is(err, ledger.ErrDuplicateReference) {
		t.Fatalf("err = %v, want ErrDuplicateReference", err)
	}
	if second.TransactionID != first.TransactionID {
		t.Fatalf("transaction id = %q, want original %q", second.TransactionID, first.TransactionID)
	}
	if second.RemainingBalance != first.RemainingBalance {
		t.Fatalf("remaining = %s, want %s", second.RemainingBalance, first.RemainingBalance)
	}

	items, err := svc.History(ctx, userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("history length = %d, want 1 after replay", len(items))
	}
}

func TestMaskAccountNumber(t *testing.T) {
	if got := MaskAccountNumber("1234567890"); got != "****7890" {
		t.Fatalf("got %q", got)
	}
	if got := MaskAccountNumber("1234"); got != "1234" {
		t.Fatalf("got %q", got)
	}
}
