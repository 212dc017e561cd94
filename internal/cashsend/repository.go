package cashsend

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relief-hub/relief_hub/internal/money"
)

const defaultHistoryLimit = 20

// Repository persists cash send history rows.
type Repository interface {
	Record(ctx context.Context, userID string, item HistoryItem) error
	ListByUser(ctx context.Context, userID string, limit int) ([]HistoryItem, error)
}

// PostgresRepository stores cash send history in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wires the repository to a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Record(ctx context.Context, userID string, item HistoryItem) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO cash_sends (id, user_id, amount_cents, fee_cents, recipient_phone, recipient_name, voucher_code, reference_number, status, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, item.ID, userID, int64(item.Amount), int64(item.Fee), item.RecipientPhone, item.RecipientName, item.VoucherCode, item.ReferenceNumber, item.Status, item.ExpiresAt, item.CreatedAt)
	return err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]HistoryItem, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := r.pool.Query(ctx, `
        SELECT id, amount_cents, fee_cents, recipient_phone, recipient_name, voucher_code, reference_number, status, expires_at, created_at
        FROM cash_sends
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var item HistoryItem
		var amount, fee int64
		if err := rows.Scan(&item.ID, &amount, &fee, &item.RecipientPhone, &item.RecipientName, &item.VoucherCode, &item.ReferenceNumber, &item.Status, &item.ExpiresAt, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Amount = money.Amount(amount)
		item.Fee = money.Amount(fee)
		items = append(items, item)
	}
	return items, rows.Err()
}
