package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/models"
	"github.com/lib/pq"
)

// ErrDuplicateAccountNumber reports a unique-index conflict on
// account_number. The account service retries number allocation on it.
var ErrDuplicateAccountNumber = errors.New("account number already exists")

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, account_number, password, balance, status, name,
			created_at, updated_at, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.UserID, account.AccountNumber, account.Password, account.Balance,
		account.Status, account.Name,
		account.CreatedAt, account.UpdatedAt, account.RegisteredAt,
	).Scan(&account.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateAccountNumber
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByNumber fetches the full write model including UserID and the stored
// password for ownership and credential checks.
func (r *AccountWriteRepository) FindByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `
		SELECT id, user_id, account_number, password, balance, status, name,
			   created_at, updated_at, registered_at, unregistered_at
		FROM accounts
		WHERE account_number = $1
	`
	var account models.Account
	var unregisteredAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.ID, &account.UserID, &account.AccountNumber, &account.Password,
		&account.Balance, &account.Status, &account.Name,
		&account.CreatedAt, &account.UpdatedAt, &account.RegisteredAt, &unregisteredAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if unregisteredAt.Valid {
		account.UnregisteredAt = &unregisteredAt.Time
	}
	return &account, nil
}

// HighestAccountNumber returns the numerically largest account number ever
// issued, or "" when no account exists yet. Closed accounts count: numbers
// are never reissued.
func (r *AccountWriteRepository) HighestAccountNumber(ctx context.Context) (string, error) {
	query := `SELECT account_number FROM accounts ORDER BY account_number DESC LIMIT 1`
	var number string
	err := r.db.QueryRowContext(ctx, query).Scan(&number)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get highest account number: %w", err)
	}
	return number, nil
}

// CountByUserID counts the accounts a user currently holds in ACTIVE status.
// Closed accounts free their slot against the per-user cap.
func (r *AccountWriteRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE user_id = $1 AND status = $2`
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, models.StatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// Update persists lifecycle changes: status and the closure timestamp.
// Balance is never written here; balance mutations go through the
// transaction repository's atomic apply methods.
func (r *AccountWriteRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET status = $2, updated_at = $3, unregistered_at = $4
		WHERE id = $1
	`
	var unregisteredAt sql.NullTime
	if account.UnregisteredAt != nil {
		unregisteredAt = sql.NullTime{Time: *account.UnregisteredAt, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, query, account.ID, account.Status, account.UpdatedAt, unregisteredAt)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.ErrAccountNotFound
	}
	return nil
}
