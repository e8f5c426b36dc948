// Package apperr defines the service's business error taxonomy.
// Every validation branch in the account and transaction services maps to
// exactly one of these values; the numeric codes are part of the public API
// contract and must never change.
package apperr

import "errors"

// Error is a typed business failure carrying a stable numeric code.
type Error struct {
	Code    int
	Kind    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is makes errors.Is match two *Error values by code, so sentinel
// comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	// 999: structural/field-shape validation, reported by the HTTP boundary.
	ErrValidationFailed = &Error{Code: 999, Kind: "VALIDATION_FAILED", Message: "request validation failed"}

	// 10XX: user
	ErrUserNotFound = &Error{Code: 1000, Kind: "USER_NOT_FOUND", Message: "user not found"}

	// 11XX: account
	ErrMaxAccountPerUser    = &Error{Code: 1100, Kind: "MAX_ACCOUNT_PER_USER_10", Message: "a user may hold at most 10 accounts"}
	ErrMaxAccountNameLen    = &Error{Code: 1101, Kind: "MAX_ACCOUNT_NAME_LEN_10", Message: "account name may be at most 10 characters"}
	ErrAccountNotFound      = &Error{Code: 1102, Kind: "ACCOUNT_NOT_FOUND", Message: "account not found"}
	ErrUserAccountMismatch  = &Error{Code: 1103, Kind: "USER_ACCOUNT_MISMATCH", Message: "account is not owned by this user"}
	ErrPasswordMismatch     = &Error{Code: 1104, Kind: "ACCOUNT_PASSWORD_MISMATCH", Message: "account password does not match"}
	ErrAccountAlreadyClosed = &Error{Code: 1105, Kind: "ACCOUNT_ALREADY_CLOSED", Message: "account is already closed"}
	ErrBalanceNotEmpty      = &Error{Code: 1106, Kind: "BALANCE_NOT_EMPTY", Message: "account balance must be empty"}
	ErrAmountExceedBalance  = &Error{Code: 1107, Kind: "AMOUNT_EXCEED_BALANCE", Message: "amount exceeds account balance"}

	// 12XX: transaction
	ErrTransactionNotFound        = &Error{Code: 1200, Kind: "TRANSACTION_NOT_FOUND", Message: "transaction not found"}
	ErrTransactionAccountMismatch = &Error{Code: 1201, Kind: "TRANSACTION_ACCOUNT_MISMATCH", Message: "transaction does not belong to this account"}
	ErrTransactionAmountMismatch  = &Error{Code: 1202, Kind: "TRANSACTION_AMOUNT_MISMATCH", Message: "amount does not match the original transaction"}
	ErrTooOldToCancel             = &Error{Code: 1203, Kind: "TOO_OLD_TRANSACTION_TO_CANCEL", Message: "transaction is older than 365 days and cannot be cancelled"}
)

// From extracts a typed business error from err, if one is present.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
