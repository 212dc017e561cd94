package electricity

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
	// MinAmount and MaxAmount bound a single prepaid purchase.
	MinAmount money.Amount = 5_00
	MaxAmount money.Amount = 5000_00

	// MinMeterDigits is the minimum meter number length after sanitizing.
	MinMeterDigits = 11

	// TokenValidity is how long an unloaded token stays usable.
	TokenValidity = 7 * 24 * time.Hour
)

// Municipalities enumerates the distributors tokens can be bought from.
var Municipalities = []string{
	"City of Johannesburg",
	"City of Cape Town",
	"eThekwini Municipality",
	"City of Tshwane",
	"Ekurhuleni Municipality",
	"Nelson Mandela Bay",
	"Buffalo City",
	"Mangaung Municipality",
	"Eskom Direct",
}

// ValidMunicipality reports whether name is one of the supported distributors.
func ValidMunicipality(name string) bool {
	for _, m := range Municipalities {
		if m == name {
			return true
		}
	}
	return false
}

// Input captures the required data for a prepaid electricity purchase.
type Input struct {
	UserID       string
	Amount       money.Amount
	MeterNumber  string
	Municipality string
}

// Result represents the domain outcome of an issued token.
type Result struct {
	TransactionID    string
	ReferenceNumber  string
	Amount           money.Amount
	Units            Units
	RemainingBalance money.Amount
	Token            string
	MeterNumber      string
	Municipality     string
	ExpiresAt        time.Time
	CompletedAt      time.Time
}

// SanitizeMeter strips everything but digits from a meter number.
func SanitizeMeter(raw string) string {
	return validation.Digits(raw)
}

// Validate checks a purchase against the caller's available balance. It is
// pure and synchronous so the same rules run on the client before any network
// call and on the server before any debit.
func Validate(input Input, balance money.Amount) error {
	if input.Amount <= 0 {
		return validation.Error("Please enter a valid amount")
	}
	if input.Amount < MinAmount {
		return validation.Errorf("Minimum purchase amount is %s", MinAmount.Rand())
	}
	if input.Amount > MaxAmount {
		return validation.Errorf("Maximum purchase amount is %s", MaxAmount.Rand())
	}
	if input.Amount > balance {
		return validation.Errorf("Insufficient balance. Available: %s", balance.Rand())
	}
	if len(SanitizeMeter(input.MeterNumber)) < MinMeterDigits {
		return validation.Errorf("Meter number must be at least %d digits", MinMeterDigits)
	}
	if !ValidMunicipality(input.Municipality) {
		return validation.Error("Please select a municipality")
	}
	return nil
}

// Service coordinates prepaid electricity purchases against the ledger.
type Service struct {
	ledger   ledger.Ledger
	accounts *sassa.Service
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
	newRef   func() string
}

// NewService prepares an electricity service ensuring the clearing account
// exists.
func NewService(ctx context.Context, ledgerBackend ledger.Ledger, accounts *sassa.Service, repo Repository, notifier notification.Notifier) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("sassa account service is required")
	}
	if err := ledgerBackend.EnsureAccount(ctx, ledger.ClearingElectricity); err != nil {
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

// Purchase validates the request, debits the purchase amount, and issues the
// prepaid token. The remaining balance in the result comes from the ledger
// posting itself.
func (s *Service) Purchase(ctx context.Context, input Input) (Result, error) {
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

	meter := SanitizeMeter(input.MeterNumber)
	reference := s.newRef()
	posted, err := s.ledger.Debit(ctx, account.AccountCode(), ledger.KindElectricity, reference, input.Amount)
	if err != nil && !errors.Is(err, ledger.ErrDuplicateReference) {
		return Result{}, err
	}

	// A duplicate reference means this purchase already posted and its token
	// was issued on the first attempt. Replay the posting without minting a
	// second token.
	if errors.Is(err, ledger.ErrDuplicateReference) {
		return Result{
			TransactionID:    posted.TransactionID,
			ReferenceNumber:  reference,
			Amount:           input.Amount,
			Units:            UnitsFor(input.Amount),
			RemainingBalance: posted.Remaining,
			MeterNumber:      meter,
			Municipality:     input.Municipality,
			CompletedAt:      s.now(),
		}, err
	}

	token, err := randomDigits(20)
	if err != nil {
		return Result{}, err
	}

	issuedAt := s.now()
	result := Result{
		TransactionID:    posted.TransactionID,
		ReferenceNumber:  reference,
		Amount:           input.Amount,
		Units:            UnitsFor(input.Amount),
		RemainingBalance: posted.Remaining,
		Token:            FormatToken(token),
		MeterNumber:      meter,
		Municipality:     input.Municipality,
		ExpiresAt:        issuedAt.Add(TokenValidity),
		CompletedAt:      issuedAt,
	}

	if s.repo != nil {
		record := HistoryItem{
			ID:              posted.TransactionID,
			Amount:          input.Amount,
			Units:           result.Units,
			MeterNumber:     meter,
			Municipality:    input.Municipality,
			Token:           result.Token,
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
			Kind:        notification.KindTokenIssued,
			Destination: input.UserID,
			Body:        fmt.Sprintf("Purchased %s of electricity (%s) for meter %s. Token %s.", input.Amount.Rand(), result.Units.KWh(), meter, result.Token),
		})
	}

	return result, nil
}

// History lists the user's most recent purchases.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]HistoryItem, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// FormatToken groups a 20-digit token as 4-4-4-4-4 for display.
func FormatToken(token string) string {
	var groups []string
	for i := 0; i < len(token); i += 4 {
		end := i + 4
		if end > len(token) {
			end = len(token)
		}
		groups = append(groups, token[i:end])
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

// newReference builds a purchase reference like ELEC-9F2A41BC.
func newReference() string {
	return "ELEC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
