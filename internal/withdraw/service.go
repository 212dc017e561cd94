package withdraw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/notification"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/validation"
)

// MinAmount is the smallest withdrawal accepted.
const MinAmount money.Amount = 10_00

// Banks enumerates the South African banks withdrawals can be paid into.
var Banks = []string{
	"ABSA Bank",
	"Standard Bank",
	"FNB (First National Bank)",
	"Nedbank",
	"Capitec Bank",
	"Investec",
	"African Bank",
	"Bidvest Bank",
	"Discovery Bank",
	"TymeBank",
}

// ValidBank reports whether name is one of the supported banks.
func ValidBank(name string) bool {
	for _, bank := range Banks {
		if bank == name {
			return true
		}
	}
	return false
}

// Input captures the required data for a withdrawal to a bank account.
type Input struct {
	UserID            string
	Amount            money.Amount
	BankName          string
	AccountNumber     string
	AccountHolderName string
}

// Result represents the domain outcome of a completed withdrawal.
type Result struct {
	TransactionID       string
	ReferenceNumber     string
	Amount              money.Amount
	RemainingBalance    money.Amount
	MaskedAccountNumber string
	BankName            string
	CompletedAt         time.Time
}

// Validate checks a withdrawal against the caller's available balance. It is
// pure and synchronous so the same rules run on the client before any network
// call and on the server before any debit.
func Validate(input Input, balance money.Amount) error {
	if input.Amount <= 0 {
		return validation.Error("Please enter a valid amount")
	}
	if input.Amount < MinAmount {
		return validation.Errorf("Minimum withdrawal amount is %s", MinAmount.Rand())
	}
	if input.Amount > balance {
		return validation.Errorf("Insufficient balance. Available: %s", balance.Rand())
	}
	if !ValidBank(input.BankName) {
		return validation.Error("Please select a bank")
	}
	if !validation.IsDigits(input.AccountNumber) || len(input.AccountNumber) < 8 || len(input.AccountNumber) > 12 {
		return validation.Error("Account number must be 8-12 digits")
	}
	if len(strings.TrimSpace(input.AccountHolderName)) < 3 {
		return validation.Error("Please enter account holder name")
	}
	return nil
}

// Service coordinates bank withdrawals against the ledger.
type Service struct {
	ledger   ledger.Ledger
	accounts *sassa.Service
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
	newRef   func() string
}

// NewService prepares a withdrawal service ensuring the clearing account
// exists.
func NewService(ctx context.Context, ledgerBackend ledger.Ledger, accounts *sassa.Service, repo Repository, notifier notification.Notifier) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("sassa account service is required")
	}
	if err := ledgerBackend.EnsureAccount(ctx, ledger.ClearingWithdrawal); err != nil {
		return nil, err
	}
	svc := &Service{
		ledger:   ledgerBackend,
		accounts: accounts,
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
	svc.newRef = func() string { return newReference(svc.now()) }
	return svc, nil
}

// Withdraw validates and posts a withdrawal. The remaining balance in the
// result comes from the ledger posting itself, never from client arithmetic.
func (s *Service) Withdraw(ctx context.Context, input Input) (Result, error) {
	account, err := s.accounts.Active(ctx, input.UserID)
	if err != nil {
		return Result{}, err
	}

	balance, err := s.ledger.Balance(ctx, account.AccountCode())
	if err != nil {
		return Result{}, err
	}
	if err := Validate(input, balance); err != nil {
		return Result{}, err
	}

	reference := s.newRef()
	posted, err := s.ledger.Debit(ctx, account.AccountCode(), ledger.KindWithdrawal, reference, input.Amount)
	if err != nil && !errors.Is(err, ledger.ErrDuplicateReference) {
		return Result{}, err
	}

	result := Result{
		TransactionID:       posted.TransactionID,
		ReferenceNumber:     reference,
		Amount:              input.Amount,
		RemainingBalance:    posted.Remaining,
		MaskedAccountNumber: MaskAccountNumber(input.AccountNumber),
		BankName:            input.BankName,
		CompletedAt:         s.now(),
	}

	// A duplicate reference means this withdrawal already posted. Replay the
	// original outcome without recording or notifying again.
	if errors.Is(err, ledger.ErrDuplicateReference) {
		return result, err
	}

	if s.repo != nil {
		record := HistoryItem{
			ID:                  posted.TransactionID,
			Amount:              input.Amount,
			BankName:            input.BankName,
			MaskedAccountNumber: result.MaskedAccountNumber,
			ReferenceNumber:     reference,
			Status:              ledger.StatusCompleted,
			CreatedAt:           result.CompletedAt,
		}
		if err := s.repo.Record(ctx, input.UserID, record); err != nil {
			return Result{}, err
		}
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWithdrawalCompleted,
			Destination: input.UserID,
			Body:        fmt.Sprintf("Withdrawal of %s to %s (%s) completed. Ref %s.", input.Amount.Rand(), input.BankName, result.MaskedAccountNumber, reference),
		})
	}

	return result, nil
}

// History lists the user's most recent withdrawals.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]HistoryItem, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// MaskAccountNumber hides all but the last four digits of an account number.
func MaskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}

// newReference builds a withdrawal reference like WD1717171717171A1B2C3.
func newReference(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("WD%d%s", at.UnixMilli(), suffix)
}
