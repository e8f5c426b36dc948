package command

import (
	"context"

	"github.com/cranebank/account-service/internal/models"
)

// The command services talk to storage through these consumer-side
// interfaces; internal/repository provides the PostgreSQL/Redis
// implementations.

// UserStore resolves account owners. Users pre-exist; this service never
// writes them.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// AccountStore is the account write store.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	HighestAccountNumber(ctx context.Context) (string, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, account *models.Account) error
}

// TransactionStore is the append-only transaction trail. ApplyDebit and
// ApplyReversal mutate the account balance and append the row in one
// storage transaction.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	ApplyDebit(ctx context.Context, txn *models.Transaction) error
	ApplyReversal(ctx context.Context, txn *models.Transaction) error
}

// AccountViewCache keeps the Redis read model in step with the write store.
type AccountViewCache interface {
	CacheAccountView(ctx context.Context, view *models.AccountView)
	InvalidateAccountView(ctx context.Context, accountNumber string)
	IsTransactionProcessed(ctx context.Context, transactionID string) bool
	MarkTransactionProcessed(ctx context.Context, transactionID string)
}

// EventPublisher emits domain events onto the stream bus.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}
