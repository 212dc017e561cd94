package ledger

import (
	"context"
	"errors"

	"github.com/relief-hub/relief_hub/internal/money"
)

var (
	// ErrInsufficientBalance occurs when the account lacks available balance
	// to cover a requested debit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateReference indicates the provided transaction reference was
	// already posted for the same kind, so the operation must be treated as
	// idempotent.
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrAccountNotFound indicates the account code has never been provisioned.
	ErrAccountNotFound = errors.New("account not found")
)

const (
	// GrantPoolAccountCode is the liability account grant disbursements draw from.
	GrantPoolAccountCode = "sassa:grant-pool"

	// Clearing accounts absorb the credit side of each spend kind so every
	// posting stays balanced.
	ClearingWithdrawal  = "clearing:withdrawal"
	ClearingCashSend    = "clearing:cash-send"
	ClearingElectricity = "clearing:electricity"

	// Posting kinds recorded against transactions.
	KindWithdrawal  = "withdrawal"
	KindCashSend    = "cash_send"
	KindElectricity = "electricity"
	KindGrantCredit = "grant_credit"

	StatusCompleted = "completed"
)

// DebitResult captures the outcome of a balance-gated debit. Remaining is the
// canonical post-transaction balance computed inside the same storage
// transaction as the posting, so it always equals prior minus amount.
type DebitResult struct {
	TransactionID string
	Remaining     money.Amount
}

// Ledger defines the contract implemented by balance backends. Debit is the
// single mutation gated on available balance; Credit funds accounts from the
// grant pool and may drive the pool negative.
type Ledger interface {
	EnsureAccount(ctx context.Context, code string) error
	Balance(ctx context.Context, code string) (money.Amount, error)
	Debit(ctx context.Context, code, kind, reference string, amount money.Amount) (DebitResult, error)
	Credit(ctx context.Context, code, kind, reference string, amount money.Amount) (money.Amount, error)
}

// ClearingAccountFor maps a posting kind to its clearing account code.
func ClearingAccountFor(kind string) string {
	switch kind {
	case KindCashSend:
		return ClearingCashSend
	case KindElectricity:
		return ClearingElectricity
	default:
		return ClearingWithdrawal
	}
}
