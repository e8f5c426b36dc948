package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/models"
)

// TransactionRepository appends rows to the immutable transaction trail and
// applies balance mutations. A successful debit or reversal and its
// transaction row commit in a single SQL transaction, with a conditional
// balance update so concurrent debits can never both pass the balance check
// against a stale read.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertTransaction = `
	INSERT INTO transactions (account_id, account_number, type, result, amount,
		balance_snapshot, transaction_id, transacted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id
`

// Create appends a transaction row as-is. Used for failure audit records,
// where no balance changes. Identical calls append identical rows; the
// trail is never deduplicated.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	err := r.db.QueryRowContext(ctx, insertTransaction,
		txn.AccountID, txn.AccountNumber, txn.Type, txn.Result, txn.Amount,
		txn.BalanceSnapshot, txn.TransactionID, txn.TransactedAt,
	).Scan(&txn.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByTransactionID looks a transaction up by its opaque token.
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	query := `
		SELECT id, account_id, account_number, type, result, amount,
			   balance_snapshot, transaction_id, transacted_at
		FROM transactions
		WHERE transaction_id = $1
	`
	var txn models.Transaction
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&txn.ID, &txn.AccountID, &txn.AccountNumber, &txn.Type, &txn.Result,
		&txn.Amount, &txn.BalanceSnapshot, &txn.TransactionID, &txn.TransactedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

// ApplyDebit decrements the account balance and appends the DEBIT/SUCCESS
// row atomically. The UPDATE only matches while balance >= amount, so a
// concurrent debit that would overdraw fails here with
// apperr.ErrAmountExceedBalance even after passing the service-level check.
// On return txn.BalanceSnapshot holds the post-debit balance.
func (r *TransactionRepository) ApplyDebit(ctx context.Context, txn *models.Transaction) error {
	return r.applyBalanceChange(ctx, txn, `
		UPDATE accounts
		SET balance = balance - $1, updated_at = $2
		WHERE id = $3 AND balance >= $1
		RETURNING balance
	`)
}

// ApplyReversal increments the account balance and appends the
// REVERSAL/SUCCESS row atomically. Crediting back cannot overdraw, so the
// update is unconditional.
func (r *TransactionRepository) ApplyReversal(ctx context.Context, txn *models.Transaction) error {
	return r.applyBalanceChange(ctx, txn, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3
		RETURNING balance
	`)
}

func (r *TransactionRepository) applyBalanceChange(ctx context.Context, txn *models.Transaction, update string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var newBalance int64
	err = tx.QueryRowContext(ctx, update, txn.Amount, txn.TransactedAt, txn.AccountID).Scan(&newBalance)
	if err == sql.ErrNoRows {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, txn.AccountID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return apperr.ErrAccountNotFound
		}
		return apperr.ErrAmountExceedBalance
	}
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	txn.BalanceSnapshot = newBalance
	if err := tx.QueryRowContext(ctx, insertTransaction,
		txn.AccountID, txn.AccountNumber, txn.Type, txn.Result, txn.Amount,
		txn.BalanceSnapshot, txn.TransactionID, txn.TransactedAt,
	).Scan(&txn.ID); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
