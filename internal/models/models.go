package models

import "time"

// AccountStatus is the closed set of account lifecycle states.
// The only legal transition is StatusActive -> StatusClosed, and only the
// account command service performs it.
type AccountStatus string

const (
	StatusActive AccountStatus = "ACTIVE"
	StatusClosed AccountStatus = "CLOSED"
)

// TransactionType distinguishes a balance debit from its reversal.
type TransactionType string

const (
	TypeDebit    TransactionType = "DEBIT"
	TypeReversal TransactionType = "REVERSAL"
)

// TransactionResult records whether the attempted operation went through.
type TransactionResult string

const (
	ResultSuccess TransactionResult = "SUCCESS"
	ResultFailure TransactionResult = "FAILURE"
)

// User is the account owner. Registration is handled out of band; this
// service only ever reads users.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// Account is the write model for a user's account. Balance is held in the
// smallest currency unit and is never negative. AccountNumber is a
// zero-padded 10-digit string, immutable once assigned.
type Account struct {
	ID             int64         `json:"-"`
	UserID         int64         `json:"userId"`
	AccountNumber  string        `json:"accountNumber"`
	Password       string        `json:"-"`
	Balance        int64         `json:"balance"`
	Status         AccountStatus `json:"status"`
	Name           string        `json:"accountName"`
	CreatedAt      time.Time     `json:"createdTimestamp"`
	UpdatedAt      time.Time     `json:"updatedTimestamp"`
	RegisteredAt   time.Time     `json:"registeredTimestamp"`
	UnregisteredAt *time.Time    `json:"unregisteredTimestamp,omitempty"`
}

// Transaction is one immutable row of the audit trail. Every attempted
// debit or reversal that reaches an account produces exactly one, success
// or failure alike. BalanceSnapshot holds the account balance after a
// successful mutation, or the untouched balance for a failure row.
type Transaction struct {
	ID              int64             `json:"-"`
	AccountID       int64             `json:"-"`
	AccountNumber   string            `json:"accountNumber"`
	Type            TransactionType   `json:"transactionType"`
	Result          TransactionResult `json:"transactionResult"`
	Amount          int64             `json:"amount"`
	BalanceSnapshot int64             `json:"balanceSnapshot"`
	TransactionID   string            `json:"transactionId"`
	TransactedAt    time.Time         `json:"transactedAt"`
}
