package cashsend

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/notification"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/validation"
)

const (
	// Fee is the flat charge applied to every cash send.
	Fee money.Amount = 3_50

	// MinAmount and MaxAmount bound the sendable amount, fee excluded.
	MinAmount money.Amount = 10_00
	MaxAmount money.Amount = 3000_00

	// VoucherValidity is how long an uncollected voucher stays redeemable.
	VoucherValidity = 30 * 24 * time.Hour
)

// Input captures the required data for a cash send.
type Input struct {
	UserID         string
	Amount         money.Amount
	RecipientPhone string
	RecipientName  string
}

// Result represents the domain outcome of an issued voucher.
type Result struct {
	TransactionID    string
	ReferenceNumber  string
	Amount           money.Amount
	Fee              money.Amount
	TotalCost        money.Amount
	RemainingBalance money.Amount
	VoucherCode      string
	CollectionPin    string
	RecipientPhone   string
	RecipientName    string
	ExpiresAt        time.Time
	CompletedAt      time.Time
}

// TotalCost is the amount debited for a send of the given size.
func TotalCost(amount money.Amount) money.Amount {
	return amount + Fee
}

// NormalizePhone sanitizes a South African mobile number to +27 form. The
// input must reduce to exactly ten digits with a leading zero.
func NormalizePhone(raw string) (string, error) {
	digits := validation.Digits(raw)
	if strings.HasPrefix(digits, "27") && len(digits) == 11 {
		digits = "0" + digits[2:]
	}
	if len(digits) != 10 || digits[0] != '0' {
		return "", validation.Error("Please enter a valid 10-digit phone number")
	}
	return "+27" + digits[1:], nil
}

// Validate checks a cash send against the caller's available balance. The
// total cost including the flat fee must be covered. It is pure and
// synchronous so the same rules run on the client before any network call and
// on the server before any debit.
func Validate(input Input, balance money.Amount) error {
	if input.Amount <= 0 {
		return validation.Error("Please enter a valid amount")
	}
	if input.Amount < MinAmount {
		return validation.Errorf("Minimum cash send amount is %s", MinAmount.Rand())
	}
	if input.Amount > MaxAmount {
		return validation.Errorf("Maximum cash send amount is %s", MaxAmount.Rand())
	}
	if TotalCost(input.Amount) > balance {
		return validation.Errorf("Insufficient balance. You need %s (including %s fee)", TotalCost(input.Amount).Rand(), Fee.Rand())
	}
	if _, err := NormalizePhone(input.RecipientPhone); err != nil {
		return err
	}
	if len(strings.TrimSpace(input.RecipientName)) < 2 {
		return validation.Error("Please enter the recipient's name")
	}
	return nil
}

// Service coordinates cash sends against the ledger and issues vouchers.
type Service struct {
	ledger   ledger.Ledger
	accounts *sassa.Service
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
	newRef   func() string
}

// NewService prepares a cash send service ensuring the clearing account
// exists.
func NewService(ctx context.Context, ledgerBackend ledger.Ledger, accounts *sassa.Service, repo Repository, notifier notification.Notifier) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("sassa account service is required")
	}
	if err := ledgerBackend.EnsureAccount(ctx, ledger.ClearingCashSend); err != nil {
		return nil, err
	}
	return &Service{
		ledger:   ledgerBackend,
		accounts: accounts,
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newRef:   newReference,
	}, nil
}

// Send validates the request, debits amount plus fee in a single posting, and
// issues the collection voucher. The remaining balance in the result comes
// from the ledger posting itself.
func (s *Service) Send(ctx context.Context, input Input) (Result, error) {
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

	phone, err := NormalizePhone(input.RecipientPhone)
	if err != nil {
		return Result{}, err
	}

	reference := s.newRef()
	posted, err := s.ledger.Debit(ctx, account.AccountCode(), ledger.KindCashSend, reference, TotalCost(input.Amount))
	if err != nil && !errors.Is(err, ledger.ErrDuplicateReference) {
		return Result{}, err
	}

	// A duplicate reference means this send already posted and its voucher
	// was issued on the first attempt. Replay the posting without minting a
	// second voucher.
	if errors.Is(err, ledger.ErrDuplicateReference) {
		return Result{
			TransactionID:    posted.TransactionID,
			ReferenceNumber:  reference,
			Amount:           input.Amount,
			Fee:              Fee,
			TotalCost:        TotalCost(input.Amount),
			RemainingBalance: posted.Remaining,
			RecipientPhone:   phone,
			RecipientName:    strings.TrimSpace(input.RecipientName),
			CompletedAt:      s.now(),
		}, err
	}

	voucher, err := randomDigits(16)
	if err != nil {
		return Result{}, err
	}
	pin, err := randomDigits(6)
	if err != nil {
		return Result{}, err
	}

	issuedAt := s.now()
	result := Result{
		TransactionID:    posted.TransactionID,
		ReferenceNumber:  reference,
		Amount:           input.Amount,
		Fee:              Fee,
		TotalCost:        TotalCost(input.Amount),
		RemainingBalance: posted.Remaining,
		VoucherCode:      FormatVoucher(voucher),
		CollectionPin:    pin,
		RecipientPhone:   phone,
		RecipientName:    strings.TrimSpace(input.RecipientName),
		ExpiresAt:        issuedAt.Add(VoucherValidity),
		CompletedAt:      issuedAt,
	}

	if s.repo != nil {
		record := HistoryItem{
			ID:              posted.TransactionID,
			Amount:          input.Amount,
			Fee:             Fee,
			RecipientPhone:  phone,
			RecipientName:   result.RecipientName,
			VoucherCode:     result.VoucherCode,
			ReferenceNumber: reference,
			Status:          ledger.StatusCompleted,
			ExpiresAt:       result.ExpiresAt,
			CreatedAt:       issuedAt,
		}
		if err := s.repo.Record(ctx, input.UserID, record); err != nil {
			return Result{}, err
		}
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindVoucherIssued,
			Destination: phone,
			Body:        fmt.Sprintf("You received %s. Voucher %s, PIN %s. Valid until %s.", input.Amount.Rand(), result.VoucherCode, pin, result.ExpiresAt.Format("2 Jan 2006")),
		})
	}

	return result, nil
}

// History lists the user's most recent cash sends.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]HistoryItem, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// FormatVoucher groups a 16-digit voucher as 4-4-4-4 for display.
func FormatVoucher(code string) string {
	var groups []string
	for i := 0; i < len(code); i += 4 {
		end := i + 4
		if end > len(code) {
			end = len(code)
		}
		groups = append(groups, code[i:end])
	}
	return strings.Join(groups, "-")
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// newReference builds a cash send reference like CS-9F2A41BC.
func newReference() string {
	return "CS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
