package command

import (
	"context"
	"fmt"

	"github.com/cranebank/account-service/internal/models"
)

// ---- mock store implementations ----

type mockUserStore struct {
	findFn func(id int64) (*models.User, error)
}

func (m *mockUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	if m.findFn != nil {
		return m.findFn(id)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAccountStore struct {
	createFn  func(account *models.Account) error
	findFn    func(accountNumber string) (*models.Account, error)
	highestFn func() (string, error)
	countFn   func(userID int64) (int, error)
	updateFn  func(account *models.Account) error

	created []*models.Account
	updated []*models.Account
}

func (m *mockAccountStore) Create(_ context.Context, account *models.Account) error {
	m.created = append(m.created, account)
	if m.createFn != nil {
		return m.createFn(account)
	}
	return nil
}

func (m *mockAccountStore) FindByNumber(_ context.Context, accountNumber string) (*models.Account, error) {
	if m.findFn != nil {
		return m.findFn(accountNumber)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountStore) HighestAccountNumber(_ context.Context) (string, error) {
	if m.highestFn != nil {
		return m.highestFn()
	}
	return "", nil
}

func (m *mockAccountStore) CountByUserID(_ context.Context, userID int64) (int, error) {
	if m.countFn != nil {
		return m.countFn(userID)
	}
	return 0, nil
}

func (m *mockAccountStore) Update(_ context.Context, account *models.Account) error {
	m.updated = append(m.updated, account)
	if m.updateFn != nil {
		return m.updateFn(account)
	}
	return nil
}

type mockTransactionStore struct {
	createFn        func(txn *models.Transaction) error
	findFn          func(transactionID string) (*models.Transaction, error)
	applyDebitFn    func(txn *models.Transaction) error
	applyReversalFn func(txn *models.Transaction) error

	created  []*models.Transaction
	debits   []*models.Transaction
	reversal []*models.Transaction
}

func (m *mockTransactionStore) Create(_ context.Context, txn *models.Transaction) error {
	m.created = append(m.created, txn)
	if m.createFn != nil {
		return m.createFn(txn)
	}
	return nil
}

func (m *mockTransactionStore) FindByTransactionID(_ context.Context, transactionID string) (*models.Transaction, error) {
	if m.findFn != nil {
		return m.findFn(transactionID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionStore) ApplyDebit(_ context.Context, txn *models.Transaction) error {
	m.debits = append(m.debits, txn)
	if m.applyDebitFn != nil {
		return m.applyDebitFn(txn)
	}
	return nil
}

func (m *mockTransactionStore) ApplyReversal(_ context.Context, txn *models.Transaction) error {
	m.reversal = append(m.reversal, txn)
	if m.applyReversalFn != nil {
		return m.applyReversalFn(txn)
	}
	return nil
}

type mockViewCache struct {
	cached      []*models.AccountView
	invalidated []string
	processed   map[string]bool
}

func (m *mockViewCache) CacheAccountView(_ context.Context, view *models.AccountView) {
	m.cached = append(m.cached, view)
}

func (m *mockViewCache) InvalidateAccountView(_ context.Context, accountNumber string) {
	m.invalidated = append(m.invalidated, accountNumber)
}

func (m *mockViewCache) IsTransactionProcessed(_ context.Context, transactionID string) bool {
	return m.processed[transactionID]
}

func (m *mockViewCache) MarkTransactionProcessed(_ context.Context, transactionID string) {
	if m.processed == nil {
		m.processed = map[string]bool{}
	}
	m.processed[transactionID] = true
}

type publishedEvent struct {
	stream    string
	eventType string
	data      any
}

type mockPublisher struct {
	events []publishedEvent
}

func (m *mockPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	m.events = append(m.events, publishedEvent{stream: stream, eventType: eventType, data: data})
	return nil
}
