package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no user matched the lookup.
var ErrNotFound = errors.New("user not found")

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) error
	UpdateTokenVersion(ctx context.Context, id string, version int) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string, channel string) error
	List(ctx context.Context, q Query) (Page, error)
	Stats(ctx context.Context) (Stats, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, full_name, email, phone, id_number, password_hash, role,
        active, email_verified, phone_verified, token_version, created_at, updated_at`

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		userID, user.FullName, user.Email, user.Phone, user.IDNumber, user.PasswordHash,
		user.Role, user.Active, user.EmailVerified, user.PhoneVerified, user.TokenVersion,
		user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	return err
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Update persists profile fields.
func (r *PostgresRepository) Update(ctx context.Context, user User) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET full_name = $1, email = $2, phone = $3,
        role = $4, updated_at = $5 WHERE id = $6`,
		user.FullName, user.Email, user.Phone, user.Role, time.Now().UTC(), user.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTokenVersion bumps the token version, invalidating outstanding tokens.
func (r *PostgresRepository) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET token_version = $1, updated_at = $2 WHERE id = $3`,
		version, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive activates or suspends the account.
func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified records a confirmed contact channel ("email" or "phone").
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string, channel string) error {
	column := "email_verified"
	if channel == "phone" {
		column = "phone_verified"
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET `+column+` = TRUE, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a filtered, paged user listing in the normalized Page shape.
func (r *PostgresRepository) List(ctx context.Context, q Query) (Page, error) {
	if q.Size <= 0 {
		q.Size = 20
	}
	if q.Page < 0 {
		q.Page = 0
	}

	where := []string{"TRUE"}
	args := []any{}
	if q.Search != "" {
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
		where = append(where, fmt.Sprintf(
			"(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d OR id_number LIKE $%d)",
			len(args), len(args), len(args)))
	}
	switch q.Status {
	case StatusActive:
		where = append(where, "active = TRUE")
	case StatusSuspended:
		where = append(where, "active = FALSE")
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+clause, args...).Scan(&total); err != nil {
		return Page{}, err
	}

	args = append(args, q.Size, q.Page*q.Size)
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+clause+
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	page := Page{Items: []User{}}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return Page{}, err
		}
		page.Items = append(page.Items, user)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	page.TotalElements = total
	page.TotalPages = (total + q.Size - 1) / q.Size
	return page, nil
}

// Stats aggregates user counts for the admin dashboard.
func (r *PostgresRepository) Stats(ctx context.Context) (Stats, error) {
	const query = `SELECT COUNT(*),
        COUNT(*) FILTER (WHERE active),
        COUNT(*) FILTER (WHERE NOT active),
        COUNT(*) FILTER (WHERE email_verified OR phone_verified)
        FROM users`
	var s Stats
	if err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Active, &s.Suspended, &s.Verified); err != nil {
		return Stats{}, err
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		user      User
	)
	err := row.Scan(&id, &user.FullName, &user.Email, &user.Phone, &user.IDNumber,
		&user.PasswordHash, &user.Role, &user.Active, &user.EmailVerified,
		&user.PhoneVerified, &user.TokenVersion, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return user, nil
}
