package sassa

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/notification"
)

var (
	// ErrNotOwner indicates the caller does not own the requested account.
	ErrNotOwner = errors.New("not owner of SASSA account")

	// ErrUnknownGrantType indicates the grant type is not one of the
	// enumerated SASSA grants.
	ErrUnknownGrantType = errors.New("unknown grant type")
)

var sassaNumberPattern = regexp.MustCompile(`^\d{10,13}$`)

// scheduleMonths is how many upcoming payment dates a schedule lists.
const scheduleMonths = 3

// Service manages SASSA account links, payment scheduling, and serves
// authoritative balances.
type Service struct {
	repo     Repository
	ledger   ledger.Ledger
	notifier notification.Notifier
	now      func() time.Time
}

// NewService prepares a SASSA account service, ensuring the grant pool
// account disbursements draw from exists.
func NewService(ctx context.Context, repo Repository, ledgerBackend ledger.Ledger, notifier notification.Notifier) (*Service, error) {
	if err := ledgerBackend.EnsureAccount(ctx, ledger.GrantPoolAccountCode); err != nil {
		return nil, err
	}
	return &Service{
		repo:     repo,
		ledger:   ledgerBackend,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// LinkInput captures data required to link a grant account.
type LinkInput struct {
	UserID      string
	SassaNumber string
	GrantType   string
}

// Link provisions a grant account, its ledger account, and the first monthly
// disbursement so a newly linked beneficiary has spendable balance.
func (s *Service) Link(ctx context.Context, input LinkInput) (Account, error) {
	if _, err := uuid.Parse(input.UserID); err != nil {
		return Account{}, err
	}
	number := strings.TrimSpace(input.SassaNumber)
	if !sassaNumberPattern.MatchString(number) {
		return Account{}, errors.New("SASSA account number must be 10-13 digits")
	}
	grantType := strings.ToUpper(strings.TrimSpace(input.GrantType))
	monthly, ok := GrantTypes[grantType]
	if !ok {
		return Account{}, ErrUnknownGrantType
	}

	if _, err := s.repo.FindActiveByUser(ctx, input.UserID); err == nil {
		return Account{}, ErrAlreadyLinked
	}

	linkedAt := s.now()
	account := Account{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		SassaNumber:     number,
		GrantType:       grantType,
		MonthlyAmount:   monthly,
		Status:          StatusActive,
		LinkedAt:        linkedAt,
		NextPaymentDate: NextPaymentDate(grantType, linkedAt),
	}

	if err := s.ledger.EnsureAccount(ctx, account.AccountCode()); err != nil {
		return Account{}, err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return Account{}, err
	}

	if _, err := s.Disburse(ctx, account.ID, monthly); err != nil {
		return Account{}, err
	}

	// Disburse advanced the totals and payment date, so serve the stored row.
	return s.repo.FindByID(ctx, account.ID)
}

// Active retrieves the user's active SASSA account.
func (s *Service) Active(ctx context.Context, userID string) (Account, error) {
	return s.repo.FindActiveByUser(ctx, userID)
}

// Details returns the authoritative balance snapshot for the user's active
// account. Spends are the only movement besides disbursements, so lifetime
// withdrawals derive from total received minus what is still available.
func (s *Service) Details(ctx context.Context, userID string) (BalanceDetails, error) {
	account, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return BalanceDetails{}, err
	}
	available, err := s.ledger.Balance(ctx, account.AccountCode())
	if err != nil {
		return BalanceDetails{}, err
	}
	return BalanceDetails{
		Available:       available,
		Pending:         0,
		TotalReceived:   account.TotalReceived,
		TotalWithdrawn:  account.TotalReceived - available,
		NextPaymentDate: account.NextPaymentDate,
		AsOf:            s.now(),
	}, nil
}

// BalanceByAccount returns the ledger balance for a specific account after
// verifying ownership.
func (s *Service) BalanceByAccount(ctx context.Context, userID, accountID string) (money.Amount, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if account.UserID != userID {
		return 0, ErrNotOwner
	}
	return s.ledger.Balance(ctx, account.AccountCode())
}

// Disburse credits a grant payment into the account. A zero amount pays the
// grant type's default monthly amount.
func (s *Service) Disburse(ctx context.Context, accountID string, amount money.Amount) (money.Amount, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		amount = account.MonthlyAmount
	}

	reference := "GR-" + strings.ToUpper(uuid.NewString()[:8])
	balance, err := s.ledger.Credit(ctx, account.AccountCode(), ledger.KindGrantCredit, reference, amount)
	if err != nil {
		return 0, err
	}
	if err := s.repo.RecordDisbursement(ctx, accountID, amount); err != nil {
		return 0, err
	}

	// The cycle resumes the day after this payment.
	next := NextPaymentDate(account.GrantType, s.now().AddDate(0, 0, 1))
	if err := s.repo.UpdateNextPaymentDate(ctx, accountID, next); err != nil {
		return 0, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindGrantDisbursed,
			Destination: account.UserID,
			Body:        fmt.Sprintf("Grant payment of %s received. Next payment %s.", amount.Rand(), next.Format("2 Jan 2006")),
		})
	}

	return balance, nil
}

// ScheduleInfo builds the payment schedule for the user's active account.
func (s *Service) ScheduleInfo(ctx context.Context, userID string) (Schedule, error) {
	account, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return Schedule{}, err
	}
	return BuildSchedule(account, s.now(), scheduleMonths), nil
}

// DueAccounts lists active accounts whose payment date has arrived.
func (s *Service) DueAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.ListDue(ctx, s.now())
}

// DisburseDue pays every account whose payment date has arrived and reports
// how many were credited. Failures on individual accounts do not stop the
// run.
func (s *Service) DisburseDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListDue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var paid int
	var errs []error
	for _, account := range due {
		if _, err := s.Disburse(ctx, account.ID, 0); err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", account.ID, err))
			continue
		}
		paid++
	}
	return paid, errors.Join(errs...)
}

// Unlink deactivates the account link after verifying ownership.
func (s *Service) Unlink(ctx context.Context, userID, accountID string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.Unlink(ctx, accountID)
}
