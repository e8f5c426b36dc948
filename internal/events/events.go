// Package events defines the event streams the service publishes and
// consumes, and the Redis Streams plumbing that moves them.
package events

import (
	"encoding/json"
	"time"
)

// Event types
const (
	AccountOpened = "account.opened"
	AccountClosed = "account.closed"

	TransactionRecorded = "transaction.recorded"
	BalanceUpdated      = "balance.updated"
)

// Stream names
const (
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Event is one delivered stream entry. Payload holds the event-specific JSON
// document; DecodePayload unpacks it into the matching typed struct.
type Event struct {
	Type      string
	Timestamp time.Time
	Payload   json.RawMessage
}

func (e Event) DecodePayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Account events
type AccountOpenedEvent struct {
	AccountNumber string `json:"accountNumber"`
	UserID        int64  `json:"userId"`
	AccountName   string `json:"accountName"`
	Balance       int64  `json:"balance"`
}

type AccountClosedEvent struct {
	AccountNumber string `json:"accountNumber"`
	UserID        int64  `json:"userId"`
}

// Transaction events
type TransactionRecordedEvent struct {
	TransactionID   string `json:"transactionId"`
	AccountNumber   string `json:"accountNumber"`
	Type            string `json:"transactionType"`
	Result          string `json:"transactionResult"`
	Amount          int64  `json:"amount"`
	BalanceSnapshot int64  `json:"balanceSnapshot"`
}

type BalanceUpdatedEvent struct {
	AccountNumber string `json:"accountNumber"`
	NewBalance    int64  `json:"newBalance"`
	Change        int64  `json:"change"`
}
