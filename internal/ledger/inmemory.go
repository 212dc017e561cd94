package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/relief-hub/relief_hub/internal/money"
)

type inMemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]money.Amount
	debits   map[string]DebitResult
	credits  map[string]money.Amount
}

// NewInMemory creates a concurrency-safe in-memory ledger used in tests and
// when running without Postgres.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		balances: make(map[string]money.Amount),
		debits:   make(map[string]DebitResult),
		credits:  make(map[string]money.Amount),
	}
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.balances[code]; !exists {
		l.balances[code] = 0
	}
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, code string) (money.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, exists := l.balances[code]
	if !exists {
		return 0, ErrAccountNotFound
	}
	return balance, nil
}

func (l *inMemoryLedger) Debit(_ context.Context, code, kind, reference string, amount money.Amount) (DebitResult, error) {
	if amount <= 0 {
		return DebitResult{}, ErrInsufficientBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := kind + ":" + reference
	if res, exists := l.debits[key]; exists {
		return res, ErrDuplicateReference
	}

	balance, ok := l.balances[code]
	if !ok {
		return DebitResult{}, ErrAccountNotFound
	}
	if balance < amount {
		return DebitResult{}, ErrInsufficientBalance
	}

	remaining := balance - amount
	l.balances[code] = remaining
	l.balances[ClearingAccountFor(kind)] += amount

	res := DebitResult{TransactionID: uuid.NewString(), Remaining: remaining}
	l.debits[key] = res
	return res, nil
}

func (l *inMemoryLedger) Credit(_ context.Context, code, kind, reference string, amount money.Amount) (money.Amount, error) {
	if amount <= 0 {
		return 0, ErrInsufficientBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := kind + ":" + reference
	if bal, exists := l.credits[key]; exists {
		return bal, ErrDuplicateReference
	}

	balance, ok := l.balances[code]
	if !ok {
		return 0, ErrAccountNotFound
	}

	balance += amount
	l.balances[code] = balance
	l.balances[GrantPoolAccountCode] -= amount

	l.credits[key] = balance
	return balance, nil
}
