package command

import (
	"context"
	"log"
	"time"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/credential"
	"github.com/cranebank/account-service/internal/events"
	"github.com/cranebank/account-service/internal/models"
	"github.com/cranebank/account-service/internal/utils"
)

// cancelWindowDays is how long after the original debit a cancellation is
// still accepted.
const cancelWindowDays = 365

// TransactionCommandService is the balance ledger: it debits accounts,
// reverses earlier debits, and appends failure audit rows. Every check
// rejects with exactly one taxonomy error; a rejected call writes nothing.
type TransactionCommandService struct {
	users        UserStore
	accounts     AccountStore
	transactions TransactionStore
	publisher    EventPublisher
	verifier     credential.Verifier
}

func NewTransactionCommandService(
	users UserStore,
	accounts AccountStore,
	transactions TransactionStore,
	publisher EventPublisher,
	verifier credential.Verifier,
) *TransactionCommandService {
	return &TransactionCommandService{
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		publisher:    publisher,
		verifier:     verifier,
	}
}

// UseBalance debits the account. Validation order: user, account, owner,
// password, status, balance. The balance decrement and the DEBIT/SUCCESS
// row commit atomically in the transaction store.
func (s *TransactionCommandService) UseBalance(cmd cqrs.UseBalanceCommand) (*models.Transaction, error) {
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
	if account.Status != models.StatusActive {
		return nil, apperr.ErrAccountAlreadyClosed
	}
	if account.Balance < cmd.Amount {
		return nil, apperr.ErrAmountExceedBalance
	}

	txn := &models.Transaction{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Type:          models.TypeDebit,
		Result:        models.ResultSuccess,
		Amount:        cmd.Amount,
		TransactionID: utils.GenerateTransactionID(),
		TransactedAt:  time.Now().UTC(),
	}
	if err := s.transactions.ApplyDebit(ctx, txn); err != nil {
		return nil, err
	}

	s.publishRecorded(ctx, txn)
	return txn, nil
}

// SaveFailedUse appends a DEBIT/FAILURE audit row for the named account.
// It deliberately re-checks nothing beyond account existence: the row is an
// audit record of a rejected attempt, not a retried operation, and repeated
// calls append repeated rows.
func (s *TransactionCommandService) SaveFailedUse(accountNumber string, amount int64) error {
	return s.saveFailed(accountNumber, amount, models.TypeDebit)
}

// CancelBalance reverses an earlier debit, crediting the amount back.
// Validation order: transaction, account, transaction/account match, exact
// amount match, age within the cancel window. Only a successful debit is
// reversible; a token naming any other row is treated as not found.
func (s *TransactionCommandService) CancelBalance(cmd cqrs.CancelBalanceCommand) (*models.Transaction, error) {
	ctx := context.Background()

	original, err := s.transactions.FindByTransactionID(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	if original.Type != models.TypeDebit || original.Result != models.ResultSuccess {
		return nil, apperr.ErrTransactionNotFound
	}

	account, err := s.accounts.FindByNumber(ctx, cmd.AccountNumber)
	if err != nil {
		return nil, err
	}

	if original.AccountID != account.ID {
		return nil, apperr.ErrTransactionAccountMismatch
	}
	if original.Amount != cmd.Amount {
		return nil, apperr.ErrTransactionAmountMismatch
	}
	if original.TransactedAt.Before(time.Now().UTC().AddDate(0, 0, -cancelWindowDays)) {
		return nil, apperr.ErrTooOldToCancel
	}

	txn := &models.Transaction{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Type:          models.TypeReversal,
		Result:        models.ResultSuccess,
		Amount:        cmd.Amount,
		TransactionID: utils.GenerateTransactionID(),
		TransactedAt:  time.Now().UTC(),
	}
	if err := s.transactions.ApplyReversal(ctx, txn); err != nil {
		return nil, err
	}

	s.publishRecorded(ctx, txn)
	return txn, nil
}

// SaveFailedCancel appends a REVERSAL/FAILURE audit row for the named
// account, symmetric to SaveFailedUse.
func (s *TransactionCommandService) SaveFailedCancel(accountNumber string, amount int64) error {
	return s.saveFailed(accountNumber, amount, models.TypeReversal)
}

func (s *TransactionCommandService) saveFailed(accountNumber string, amount int64, txType models.TransactionType) error {
	ctx := context.Background()

	account, err := s.accounts.FindByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}

	txn := &models.Transaction{
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Type:            txType,
		Result:          models.ResultFailure,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactionID:   utils.GenerateTransactionID(),
		TransactedAt:    time.Now().UTC(),
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return err
	}

	s.publishRecorded(ctx, txn)
	return nil
}

func (s *TransactionCommandService) publishRecorded(ctx context.Context, txn *models.Transaction) {
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionRecorded, events.TransactionRecordedEvent{
		TransactionID:   txn.TransactionID,
		AccountNumber:   txn.AccountNumber,
		Type:            string(txn.Type),
		Result:          string(txn.Result),
		Amount:          txn.Amount,
		BalanceSnapshot: txn.BalanceSnapshot,
	}); err != nil {
		log.Printf("Failed to publish transaction.recorded event: %v", err)
	}
}
