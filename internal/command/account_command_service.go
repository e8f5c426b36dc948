package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/credential"
	"github.com/cranebank/account-service/internal/events"
	"github.com/cranebank/account-service/internal/models"
	"github.com/cranebank/account-service/internal/repository"
)

const (
	// baseAccountNumber is issued to the very first account ever opened;
	// every later account gets the previous highest number plus one, at the
	// same fixed width.
	baseAccountNumber  = "1000000000"
	accountNumberWidth = 10

	maxAccountsPerUser = 10
	maxAccountNameLen  = 10

	// allocateAttempts bounds retries when two concurrent opens race for the
	// same number and the unique index rejects the loser.
	allocateAttempts = 3
)

// AccountCommandService owns the account lifecycle: opening and closing
// accounts. It writes account state and keeps the read model in sync.
type AccountCommandService struct {
	users     UserStore
	accounts  AccountStore
	readRepo  AccountViewCache
	publisher EventPublisher
	verifier  credential.Verifier
}

func NewAccountCommandService(
	users UserStore,
	accounts AccountStore,
	readRepo AccountViewCache,
	publisher EventPublisher,
	verifier credential.Verifier,
) *AccountCommandService {
	return &AccountCommandService{
		users:     users,
		accounts:  accounts,
		readRepo:  readRepo,
		publisher: publisher,
		verifier:  verifier,
	}
}

// OpenAccount creates a new ACTIVE account for the user. A blank account
// name falls back to the owner's display name.
func (s *AccountCommandService) OpenAccount(cmd cqrs.OpenAccountCommand) (*models.Account, error) {
	ctx := context.Background()

	if utf8.RuneCountInString(cmd.AccountName) > maxAccountNameLen {
		return nil, apperr.ErrMaxAccountNameLen
	}

	user, err := s.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	count, err := s.accounts.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, apperr.ErrMaxAccountPerUser
	}

	name := cmd.AccountName
	if strings.TrimSpace(name) == "" {
		name = user.Name
	}

	var account *models.Account
	for attempt := 0; ; attempt++ {
		number, err := s.nextAccountNumber(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		account = &models.Account{
			UserID:        user.ID,
			AccountNumber: number,
			Password:      cmd.AccountPassword,
			Balance:       cmd.InitialBalance,
			Status:        models.StatusActive,
			Name:          name,
			CreatedAt:     now,
			UpdatedAt:     now,
			RegisteredAt:  now,
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			break
		}
		// Two concurrent opens can allocate the same number; the unique
		// index rejects the loser, which re-reads the new highest and
		// tries again.
		if errors.Is(err, repository.ErrDuplicateAccountNumber) && attempt < allocateAttempts-1 {
			continue
		}
		return nil, err
	}

	s.readRepo.CacheAccountView(ctx, account.ToView())
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountOpened, events.AccountOpenedEvent{
		AccountNumber: account.AccountNumber,
		UserID:        account.UserID,
		AccountName:   account.Name,
		Balance:       account.Balance,
	}); err != nil {
		log.Printf("Failed to publish account.opened event: %v", err)
	}
	return account, nil
}

// nextAccountNumber allocates the next number: highest issued + 1 at fixed
// width, or the base number for an empty store. The allocation is only
// collision-free together with the unique index on account_number; callers
// retry on conflict.
func (s *AccountCommandService) nextAccountNumber(ctx context.Context) (string, error) {
	highest, err := s.accounts.HighestAccountNumber(ctx)
	if err != nil {
		return "", err
	}
	if highest == "" {
		return baseAccountNumber, nil
	}
	n, err := strconv.ParseInt(highest, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed account number %q in store: %w", highest, err)
	}
	return fmt.Sprintf("%0*d", accountNumberWidth, n+1), nil
}

// CloseAccount marks an account CLOSED. Closure is a soft state: the row
// stays, the number is never reissued, and there is no way back to ACTIVE.
func (s *AccountCommandService) CloseAccount(cmd cqrs.CloseAccountCommand) (*models.Account, error) {
	ctx := context.Background()

	user, err := s.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByNumber(ctx, cmd.AccountNumber)
	if err != nil {
		return nil, err
	}

	if account.UserID != user.ID {
		return nil, apperr.ErrUserAccountMismatch
	}
	if !s.verifier.Verify(cmd.AccountPassword, account.Password) {
		return nil, apperr.ErrPasswordMismatch
	}
	if account.Status == models.StatusClosed {
		return nil, apperr.ErrAccountAlreadyClosed
	}
	if account.Balance > 0 {
		return nil, apperr.ErrBalanceNotEmpty
	}

	now := time.Now().UTC()
	account.Status = models.StatusClosed
	account.UpdatedAt = now
	account.UnregisteredAt = &now
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	s.readRepo.InvalidateAccountView(ctx, account.AccountNumber)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountClosed, events.AccountClosedEvent{
		AccountNumber: account.AccountNumber,
		UserID:        account.UserID,
	}); err != nil {
		log.Printf("Failed to publish account.closed event: %v", err)
	}
	return account, nil
}

// HandleTransactionEvent reacts to transaction.recorded events by refreshing
// the account read model. Idempotent: duplicate delivery of the same
// transaction token is detected via Redis and skipped.
func (s *AccountCommandService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.TransactionRecorded {
		return nil
	}
	var data events.TransactionRecordedEvent
	if err := event.DecodePayload(&data); err != nil {
		return fmt.Errorf("failed to decode transaction.recorded event: %w", err)
	}
	if s.readRepo.IsTransactionProcessed(ctx, data.TransactionID) {
		log.Printf("Transaction %s already processed, skipping duplicate event", data.TransactionID)
		return nil
	}
	account, err := s.accounts.FindByNumber(ctx, data.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to get account for read model refresh: %w", err)
	}
	// Mark before refreshing the cache so any redelivery after this point
	// is detected and skipped.
	s.readRepo.MarkTransactionProcessed(ctx, data.TransactionID)
	s.readRepo.CacheAccountView(ctx, account.ToView())

	if data.Result == string(models.ResultSuccess) {
		change := data.Amount
		if data.Type == string(models.TypeDebit) {
			change = -change
		}
		if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
			AccountNumber: data.AccountNumber,
			NewBalance:    account.Balance,
			Change:        change,
		}); err != nil {
			log.Printf("Failed to publish balance.updated event: %v", err)
		}
	}
	return nil
}
