package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relief-hub/relief_hub/internal/money"
)

// PostgresLedger persists balances as double-entry postings in PostgreSQL.
// Every Debit runs in one transaction with the source account row locked, so
// the remaining balance it reports is canonical.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureAccount guarantees an account exists for the provided code.
func (l *PostgresLedger) EnsureAccount(ctx context.Context, code string) error {
	_, err := l.db.Exec(ctx, `INSERT INTO accounts (id, code) VALUES ($1, $2)
        ON CONFLICT (code) DO NOTHING`, uuid.New(), code)
	return err
}

// Balance returns the summed entry balance for the specified account code.
func (l *PostgresLedger) Balance(ctx context.Context, code string) (money.Amount, error) {
	const query = `
        SELECT COALESCE(SUM(e.amount_cents), 0), COUNT(a.id)
        FROM accounts a
        LEFT JOIN entries e ON e.account_id = a.id
        WHERE a.code = $1`
	var balance int64
	var found int
	if err := l.db.QueryRow(ctx, query, code).Scan(&balance, &found); err != nil {
		return 0, err
	}
	if found == 0 {
		return 0, ErrAccountNotFound
	}
	return money.Amount(balance), nil
}

// Debit posts a balance-gated spend: the account is debited and the kind's
// clearing account credited. Duplicate (kind, reference) pairs return the
// original posting with ErrDuplicateReference.
func (l *PostgresLedger) Debit(ctx context.Context, code, kind, reference string, amount money.Amount) (DebitResult, error) {
	if amount <= 0 {
		return DebitResult{}, fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return DebitResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	accountID, err := lockAccount(ctx, tx, code)
	if err != nil {
		return DebitResult{}, err
	}
	clearingID, err := lockAccount(ctx, tx, ClearingAccountFor(kind))
	if err != nil {
		return DebitResult{}, err
	}

	existingID, found, err := findPosting(ctx, tx, kind, reference)
	if err != nil {
		return DebitResult{}, err
	}
	if found {
		balance, balErr := balanceForAccount(ctx, tx, accountID)
		if balErr != nil {
			return DebitResult{}, balErr
		}
		return DebitResult{TransactionID: existingID.String(), Remaining: balance}, ErrDuplicateReference
	}

	balance, err := balanceForAccount(ctx, tx, accountID)
	if err != nil {
		return DebitResult{}, err
	}
	if balance < amount {
		return DebitResult{}, ErrInsufficientBalance
	}

	txID, err := post(ctx, tx, kind, reference, accountID, clearingID, amount)
	if err != nil {
		return DebitResult{}, err
	}

	remaining := balance - amount
	if err := tx.Commit(ctx); err != nil {
		return DebitResult{}, err
	}

	return DebitResult{TransactionID: txID.String(), Remaining: remaining}, nil
}

// Credit disburses funds into the account from the grant pool. The pool is a
// liability account and may go negative.
func (l *PostgresLedger) Credit(ctx context.Context, code, kind, reference string, amount money.Amount) (money.Amount, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	accountID, err := lockAccount(ctx, tx, code)
	if err != nil {
		return 0, err
	}
	poolID, err := lockAccount(ctx, tx, GrantPoolAccountCode)
	if err != nil {
		return 0, err
	}

	if _, found, err := findPosting(ctx, tx, kind, reference); err != nil {
		return 0, err
	} else if found {
		balance, balErr := balanceForAccount(ctx, tx, accountID)
		if balErr != nil {
			return 0, balErr
		}
		return balance, ErrDuplicateReference
	}

	balance, err := balanceForAccount(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}

	if _, err := post(ctx, tx, kind, reference, poolID, accountID, amount); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return balance + amount, nil
}

// post records a transaction and its two balancing entries: amount leaves
// fromID and lands on toID.
func post(ctx context.Context, tx pgx.Tx, kind, reference string, fromID, toID uuid.UUID, amount money.Amount) (uuid.UUID, error) {
	txID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO transactions (id, reference, kind, status)
        VALUES ($1, $2, $3, $4)`, txID, reference, kind, StatusCompleted); err != nil {
		return uuid.Nil, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO entries (id, transaction_id, account_id, amount_cents)
        VALUES ($1, $2, $3, $4)`, uuid.New(), txID, fromID, -int64(amount)); err != nil {
		return uuid.Nil, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO entries (id, transaction_id, account_id, amount_cents)
        VALUES ($1, $2, $3, $4)`, uuid.New(), txID, toID, int64(amount)); err != nil {
		return uuid.Nil, err
	}
	return txID, nil
}

func findPosting(ctx context.Context, tx pgx.Tx, kind, reference string) (uuid.UUID, bool, error) {
	const query = `SELECT id FROM transactions WHERE reference = $1 AND kind = $2`
	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, reference, kind).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func lockAccount(ctx context.Context, tx pgx.Tx, code string) (uuid.UUID, error) {
	const query = `SELECT id FROM accounts WHERE code = $1 FOR UPDATE`
	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, code).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrAccountNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

func balanceForAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (money.Amount, error) {
	const query = `SELECT COALESCE(SUM(amount_cents), 0) FROM entries WHERE account_id = $1`
	var balance int64
	if err := tx.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return money.Amount(balance), nil
}
