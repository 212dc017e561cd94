package withdraw

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relief-hub/relief_hub/internal/money"
)

const defaultHistoryLimit = 20

// Repository persists withdrawal history rows.
type Repository interface {
	Record(ctx context.Context, userID string, item HistoryItem) error
	ListByUser(ctx context.Context, userID string, limit int) ([]HistoryItem, error)
}

// PostgresRepository stores withdrawal history in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wires the repository to a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Record(ctx context.Context, userID string, item HistoryItem) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO withdrawals (id, user_id, amount_cents, bank_name, masked_account_number, reference_number, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, item.ID, userID, int64(item.Amount), item.BankName, item.MaskedAccountNumber, item.ReferenceNumber, item.Status, item.CreatedAt)
	return err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]HistoryItem, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := r.pool.Query(ctx, `
        SELECT id, amount_cents, bank_name, masked_account_number, reference_number, status, created_at
        FROM withdrawals
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
		var cents int64
		if err := rows.Scan(&item.ID, &cents, &item.BankName, &item.MaskedAccountNumber, &item.ReferenceNumber, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Amount = money.Amount(cents)
		items = append(items, item)
	}
	return items, rows.Err()
}
