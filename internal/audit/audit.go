// Package audit records rejected ledger attempts as FAILURE transaction
// rows. It wraps the ledger as a decorator so the ledger itself stays pure:
// validate, mutate or reject. The audit row is bookkeeping around the call,
// never a retry of it.
package audit

import (
	"log"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/models"
)

// Ledger is the write side of the transaction service that gets decorated.
type Ledger interface {
	UseBalance(cqrs.UseBalanceCommand) (*models.Transaction, error)
	CancelBalance(cqrs.CancelBalanceCommand) (*models.Transaction, error)
}

// FailureRecorder appends failure audit rows.
type FailureRecorder interface {
	SaveFailedUse(accountNumber string, amount int64) error
	SaveFailedCancel(accountNumber string, amount int64) error
}

// AuditedLedger forwards to the inner ledger and, when a call is rejected
// with an account-resolvable error, logs a FAILURE row against the account
// the caller named before returning the original rejection.
type AuditedLedger struct {
	inner    Ledger
	recorder FailureRecorder
}

func NewAuditedLedger(inner Ledger, recorder FailureRecorder) *AuditedLedger {
	return &AuditedLedger{inner: inner, recorder: recorder}
}

func (l *AuditedLedger) UseBalance(cmd cqrs.UseBalanceCommand) (*models.Transaction, error) {
	txn, err := l.inner.UseBalance(cmd)
	if err != nil && auditableUseError(err) {
		if recErr := l.recorder.SaveFailedUse(cmd.AccountNumber, cmd.Amount); recErr != nil {
			log.Printf("Failed to record failed use for account %s: %v", cmd.AccountNumber, recErr)
		}
	}
	return txn, err
}

func (l *AuditedLedger) CancelBalance(cmd cqrs.CancelBalanceCommand) (*models.Transaction, error) {
	txn, err := l.inner.CancelBalance(cmd)
	if err != nil && auditableCancelError(err) {
		if recErr := l.recorder.SaveFailedCancel(cmd.AccountNumber, cmd.Amount); recErr != nil {
			log.Printf("Failed to record failed cancel for account %s: %v", cmd.AccountNumber, recErr)
		}
	}
	return txn, err
}

// auditableUseError: a debit rejection is logged only when it failed after
// the account was resolved. User-not-found and account-not-found fail
// earlier, so there is no account to log against.
func auditableUseError(err error) bool {
	e, ok := apperr.From(err)
	if !ok {
		return false
	}
	switch e.Code {
	case apperr.ErrUserAccountMismatch.Code,
		apperr.ErrPasswordMismatch.Code,
		apperr.ErrAccountAlreadyClosed.Code,
		apperr.ErrAmountExceedBalance.Code:
		return true
	}
	return false
}

// auditableCancelError mirrors auditableUseError for reversals: mismatch and
// window rejections are logged, missing transaction or account are not.
func auditableCancelError(err error) bool {
	e, ok := apperr.From(err)
	if !ok {
		return false
	}
	switch e.Code {
	case apperr.ErrTransactionAccountMismatch.Code,
		apperr.ErrTransactionAmountMismatch.Code,
		apperr.ErrTooOldToCancel.Code:
		return true
	}
	return false
}
