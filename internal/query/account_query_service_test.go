package query

import (
	"context"
	"errors"
	"testing"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/models"
)

type mockUserStore struct {
	findFn func(id int64) (*models.User, error)
}

func (m *mockUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	return m.findFn(id)
}

type mockViewReader struct {
	getFn  func(accountNumber string) (*models.AccountView, error)
	listFn func(userID int64) ([]models.AccountView, error)
}

func (m *mockViewReader) GetByAccountNumber(_ context.Context, accountNumber string) (*models.AccountView, error) {
	return m.getFn(accountNumber)
}

func (m *mockViewReader) ListByUserID(_ context.Context, userID int64) ([]models.AccountView, error) {
	return m.listFn(userID)
}

func TestListAccounts(t *testing.T) {
	t.Run("returns the user's accounts", func(t *testing.T) {
		users := &mockUserStore{findFn: func(id int64) (*models.User, error) {
			return &models.User{ID: 10, Name: "Egg"}, nil
		}}
		reader := &mockViewReader{listFn: func(userID int64) ([]models.AccountView, error) {
			return []models.AccountView{
				{AccountNumber: "1000000012", Balance: 9000, Name: "wallet"},
				{AccountNumber: "1000000013", Balance: 0, Name: "savings"},
			}, nil
		}}
		svc := NewAccountQueryService(users, reader)

		views, err := svc.ListAccounts(cqrs.ListAccountsQuery{UserID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 accounts, got %d", len(views))
		}
		if views[0].AccountNumber != "1000000012" {
			t.Errorf("unexpected first account: %+v", views[0])
		}
	})

	t.Run("unknown user is an error, not an empty list", func(t *testing.T) {
		users := &mockUserStore{findFn: func(id int64) (*models.User, error) {
			return nil, apperr.ErrUserNotFound
		}}
		reader := &mockViewReader{listFn: func(userID int64) ([]models.AccountView, error) {
			t.Error("read model must not be consulted for an unknown user")
			return nil, nil
		}}
		svc := NewAccountQueryService(users, reader)

		if _, err := svc.ListAccounts(cqrs.ListAccountsQuery{UserID: 99}); !errors.Is(err, apperr.ErrUserNotFound) {
			t.Errorf("expected %v, got %v", apperr.ErrUserNotFound, err)
		}
	})

	t.Run("known user with no accounts gets an empty list", func(t *testing.T) {
		users := &mockUserStore{findFn: func(id int64) (*models.User, error) {
			return &models.User{ID: 10, Name: "Egg"}, nil
		}}
		reader := &mockViewReader{listFn: func(userID int64) ([]models.AccountView, error) {
			return []models.AccountView{}, nil
		}}
		svc := NewAccountQueryService(users, reader)

		views, err := svc.ListAccounts(cqrs.ListAccountsQuery{UserID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(views) != 0 {
			t.Errorf("expected no accounts, got %d", len(views))
		}
	})
}

func TestGetAccount(t *testing.T) {
	reader := &mockViewReader{getFn: func(accountNumber string) (*models.AccountView, error) {
		if accountNumber != "1000000012" {
			return nil, apperr.ErrAccountNotFound
		}
		return &models.AccountView{AccountNumber: "1000000012", Balance: 9000}, nil
	}}
	svc := NewAccountQueryService(&mockUserStore{}, reader)

	view, err := svc.GetAccount(cqrs.GetAccountQuery{AccountNumber: "1000000012"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Balance != 9000 {
		t.Errorf("expected balance 9000, got %d", view.Balance)
	}

	if _, err := svc.GetAccount(cqrs.GetAccountQuery{AccountNumber: "0000000000"}); !errors.Is(err, apperr.ErrAccountNotFound) {
		t.Errorf("expected %v, got %v", apperr.ErrAccountNotFound, err)
	}
}
