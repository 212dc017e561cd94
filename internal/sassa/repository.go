package sassa

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relief-hub/relief_hub/internal/money"
)

var (
	// ErrNotFound indicates no account matched the lookup.
	ErrNotFound = errors.New("sassa account not found")

	// ErrAlreadyLinked indicates the user already has an active account.
	ErrAlreadyLinked = errors.New("an active SASSA account is already linked")
)

// Repository persists SASSA account links.
type Repository interface {
	Create(ctx context.Context, account Account) error
	FindByID(ctx context.Context, id string) (Account, error)
	FindActiveByUser(ctx context.Context, userID string) (Account, error)
	RecordDisbursement(ctx context.Context, id string, amount money.Amount) error
	UpdateNextPaymentDate(ctx context.Context, id string, next time.Time) error
	ListDue(ctx context.Context, asOf time.Time) ([]Account, error)
	Unlink(ctx context.Context, id string) error
}

// PostgresRepository stores SASSA accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an account link record.
func (r *PostgresRepository) Create(ctx context.Context, account Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(account.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO sassa_accounts
        (id, user_id, sassa_number, grant_type, monthly_amount_cents, total_received_cents, status, linked_at, next_payment_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		accountID, userID, account.SassaNumber, account.GrantType,
		int64(account.MonthlyAmount), int64(account.TotalReceived), account.Status, account.LinkedAt.UTC(),
		account.NextPaymentDate.UTC())
	return err
}

// FindByID fetches an account by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, sassa_number, grant_type,
        monthly_amount_cents, total_received_cents, status, linked_at, next_payment_date
        FROM sassa_accounts WHERE id = $1`, accountID)
	return scanAccount(row)
}

// FindActiveByUser fetches the user's active account link.
func (r *PostgresRepository) FindActiveByUser(ctx context.Context, userID string) (Account, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, sassa_number, grant_type,
        monthly_amount_cents, total_received_cents, status, linked_at, next_payment_date
        FROM sassa_accounts WHERE user_id = $1 AND status = $2`, uid, StatusActive)
	return scanAccount(row)
}

// RecordDisbursement adds a grant payment to the account's lifetime total.
func (r *PostgresRepository) RecordDisbursement(ctx context.Context, id string, amount money.Amount) error {
	cmd, err := r.db.Exec(ctx, `UPDATE sassa_accounts
        SET total_received_cents = total_received_cents + $1 WHERE id = $2`, int64(amount), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateNextPaymentDate moves the account to its next payment date.
func (r *PostgresRepository) UpdateNextPaymentDate(ctx context.Context, id string, next time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE sassa_accounts
        SET next_payment_date = $1 WHERE id = $2`, next.UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDue fetches active accounts whose next payment date has arrived.
func (r *PostgresRepository) ListDue(ctx context.Context, asOf time.Time) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, sassa_number, grant_type,
        monthly_amount_cents, total_received_cents, status, linked_at, next_payment_date
        FROM sassa_accounts WHERE next_payment_date <= $1 AND status = $2
        ORDER BY next_payment_date`, asOf.UTC(), StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Unlink marks the account link inactive.
func (r *PostgresRepository) Unlink(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE sassa_accounts SET status = $1 WHERE id = $2`,
		StatusUnlinked, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id       uuid.UUID
		userID   uuid.UUID
		cents    int64
		received int64
		linked   time.Time
		nextPay  time.Time
		acc      Account
	)
	if err := row.Scan(&id, &userID, &acc.SassaNumber, &acc.GrantType, &cents, &received, &acc.Status, &linked, &nextPay); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acc.ID = id.String()
	acc.UserID = userID.String()
	acc.MonthlyAmount = money.Amount(cents)
	acc.TotalReceived = money.Amount(received)
	acc.LinkedAt = linked.UTC()
	acc.NextPaymentDate = nextPay.UTC()
	return acc, nil
}
