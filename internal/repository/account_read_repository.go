package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/models"
	sharedredis "github.com/cranebank/account-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of an account.
// Unlike models.AccountView, it includes UserID so ownership checks can be
// answered from the cache. The stored password is never cached.
type accountCacheEntry struct {
	AccountNumber  string               `json:"accountNumber"`
	UserID         int64                `json:"userId"`
	Name           string               `json:"accountName"`
	Balance        int64                `json:"balance"`
	Status         models.AccountStatus `json:"status"`
	RegisteredAt   time.Time            `json:"registeredTimestamp"`
	UnregisteredAt *time.Time           `json:"unregisteredTimestamp,omitempty"`
}

// AccountReadRepository handles all read operations for accounts.
// It treats Redis as the primary read store (the CQRS read model) and falls
// back to PostgreSQL transparently, warming the cache on every cold read.
type AccountReadRepository struct {
	db    *sql.DB
	redis *goredis.Client
	cache *sharedredis.ViewCache[accountCacheEntry]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		redis: redisClient,
		cache: sharedredis.NewViewCache[accountCacheEntry](redisClient, accountViewKeyPrefix, 0),
	}
}

// cacheEntryToView converts an internal cache entry back to a public AccountView.
func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		AccountNumber:  e.AccountNumber,
		UserID:         e.UserID,
		Name:           e.Name,
		Balance:        e.Balance,
		Status:         e.Status,
		RegisteredAt:   e.RegisteredAt,
		UnregisteredAt: e.UnregisteredAt,
	}
}

// GetByAccountNumber returns an AccountView, trying Redis first then PostgreSQL.
func (r *AccountReadRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.AccountView, error) {
	if entry, ok := r.cache.Get(ctx, accountNumber); ok {
		return cacheEntryToView(entry), nil
	}

	query := `
		SELECT account_number, user_id, name, balance, status, registered_at, unregistered_at
		FROM accounts
		WHERE account_number = $1
	`
	var view models.AccountView
	var unregisteredAt sql.NullTime
	pgErr := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&view.AccountNumber, &view.UserID, &view.Name, &view.Balance,
		&view.Status, &view.RegisteredAt, &unregisteredAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, apperr.ErrAccountNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}
	if unregisteredAt.Valid {
		view.UnregisteredAt = &unregisteredAt.Time
	}

	// Warm the cache
	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// ListByUserID returns all AccountViews for the given user from PostgreSQL,
// in the store's natural retrieval order (insertion order by id).
func (r *AccountReadRepository) ListByUserID(ctx context.Context, userID int64) ([]models.AccountView, error) {
	query := `
		SELECT account_number, user_id, name, balance, status, registered_at, unregistered_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []models.AccountView
	for rows.Next() {
		var view models.AccountView
		var unregisteredAt sql.NullTime
		if err := rows.Scan(
			&view.AccountNumber, &view.UserID, &view.Name, &view.Balance,
			&view.Status, &view.RegisteredAt, &unregisteredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if unregisteredAt.Valid {
			view.UnregisteredAt = &unregisteredAt.Time
		}
		views = append(views, view)
	}
	return views, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called by the command service after every mutation to keep the read model
// current.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	entry := &accountCacheEntry{
		AccountNumber:  view.AccountNumber,
		UserID:         view.UserID,
		Name:           view.Name,
		Balance:        view.Balance,
		Status:         view.Status,
		RegisteredAt:   view.RegisteredAt,
		UnregisteredAt: view.UnregisteredAt,
	}
	r.cache.Set(ctx, view.AccountNumber, entry)
}

// InvalidateAccountView removes the Redis read model entry for an account.
func (r *AccountReadRepository) InvalidateAccountView(ctx context.Context, accountNumber string) {
	r.cache.Delete(ctx, accountNumber)
}

const processedTxnKeyPrefix = "processed:txn:"

// IsTransactionProcessed returns true if this transaction token has already
// been folded into the read model. Guards against duplicate delivery under
// at-least-once Redis Streams semantics.
func (r *AccountReadRepository) IsTransactionProcessed(ctx context.Context, transactionID string) bool {
	val, err := r.redis.Exists(ctx, processedTxnKeyPrefix+transactionID).Result()
	return err == nil && val > 0
}

// MarkTransactionProcessed records that a transaction has been applied to
// the read model. The key expires after 72 hours — long enough to cover any
// realistic redelivery window from a consumer group.
func (r *AccountReadRepository) MarkTransactionProcessed(ctx context.Context, transactionID string) {
	key := processedTxnKeyPrefix + transactionID
	if err := r.redis.Set(ctx, key, "1", 72*time.Hour).Err(); err != nil {
		log.Printf("Failed to mark transaction %s as processed: %v", transactionID, err)
	}
}
