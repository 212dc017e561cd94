package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/relief-hub/relief_hub/internal/money"
)

func TestInMemoryLedger_DebitMaintainsBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.EnsureAccount(ctx, "sassa:a"); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	if err := l.EnsureAccount(ctx, ClearingWithdrawal); err != nil {
		t.Fatalf("ensure clearing: %v", err)
	}

	SeedBalance(l, "sassa:a", 10_000)

	res, err := l.Debit(ctx, "sassa:a", KindWithdrawal, "WD-1", 1_500)
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if res.Remaining != 8_500 {
		t.Fatalf("expected remaining 8500, got %d", res.Remaining)
	}

	ledgerImpl := l.(*inMemoryLedger)
	total := ledgerImpl.balances["sassa:a"] + ledgerImpl.balances[ClearingWithdrawal]
	if total != 10_000 {
		t.Fatalf("ledger not balanced, total=%d", total)
	}
}

func TestInMemoryLedger_DebitRejectsOverdraft(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "sassa:a")
	SeedBalance(l, "sassa:a", 500)

	if _, err := l.Debit(ctx, "sassa:a", KindCashSend, "CS-1", 1_350); err != ErrInsufficientBalance {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if bal, _ := l.Balance(ctx, "sassa:a"); bal != 500 {
		t.Fatalf("failed debit must not move balance, got %d", bal)
	}
}

func TestInMemoryLedger_DuplicateReference(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "sassa:a")
	SeedBalance(l, "sassa:a", 5_000)

	first, err := l.Debit(ctx, "sassa:a", KindElectricity, "ELEC-1", 500)
	if err != nil {
		t.Fatalf("initial debit failed: %v", err)
	}
	dup, err := l.Debit(ctx, "sassa:a", KindElectricity, "ELEC-1", 500)
	if err != ErrDuplicateReference {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if dup.Remaining != first.Remaining {
		t.Fatalf("duplicate must replay original result: %d vs %d", dup.Remaining, first.Remaining)
	}
}

func TestInMemoryLedger_CreditFromGrantPool(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "sassa:a")
	l.EnsureAccount(ctx, GrantPoolAccountCode)

	bal, err := l.Credit(ctx, "sassa:a", KindGrantCredit, "GR-1", 35_000)
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if bal != 35_000 {
		t.Fatalf("expected balance 35000, got %d", bal)
	}

	if _, err := l.Credit(ctx, "sassa:a", KindGrantCredit, "GR-1", 35_000); err != ErrDuplicateReference {
		t.Fatalf("expected duplicate credit error, got %v", err)
	}
}

func TestInMemoryLedger_ConcurrentDebits(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	l.EnsureAccount(ctx, "sassa:a")
	l.EnsureAccount(ctx, ClearingWithdrawal)
	SeedBalance(l, "sassa:a", 100_000)
	ledgerImpl := l.(*inMemoryLedger)

	const workers = 10
	const amount = money.Amount(500)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := fmt.Sprintf("WD-%d", i)
			if _, err := l.Debit(ctx, "sassa:a", KindWithdrawal, ref, amount); err != nil {
				t.Errorf("debit %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	total := ledgerImpl.balances["sassa:a"] + ledgerImpl.balances[ClearingWithdrawal]
	if total != 100_000 {
		t.Fatalf("ledger not balanced after concurrency, total=%d", total)
	}
}
