package sassa

import (
	"context"
	"sync"
	"time"

	"github.com/relief-hub/relief_hub/internal/money"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[string]Account)}
}

func (r *memoryRepository) Create(_ context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.UserID == account.UserID && existing.Status == StatusActive {
			return ErrAlreadyLinked
		}
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func (r *memoryRepository) FindActiveByUser(_ context.Context, userID string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.UserID == userID && account.Status == StatusActive {
			return account, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *memoryRepository) RecordDisbursement(_ context.Context, id string, amount money.Amount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.TotalReceived += amount
	r.accounts[id] = account
	return nil
}

func (r *memoryRepository) UpdateNextPaymentDate(_ context.Context, id string, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.NextPaymentDate = next.UTC()
	r.accounts[id] = account
	return nil
}

func (r *memoryRepository) ListDue(_ context.Context, asOf time.Time) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var due []Account
	for _, account := range r.accounts {
		if account.Status == StatusActive && !account.NextPaymentDate.After(asOf) {
			due = append(due, account)
		}
	}
	return due, nil
}

func (r *memoryRepository) Unlink(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.Status = StatusUnlinked
	r.accounts[id] = account
	return nil
}
