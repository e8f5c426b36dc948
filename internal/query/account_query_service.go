package query

import (
	"context"

	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/models"
)

// UserStore resolves account owners for the read path.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// AccountViewReader serves account read model projections.
type AccountViewReader interface {
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.AccountView, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.AccountView, error)
}

type AccountQueryService struct {
	users    UserStore
	readRepo AccountViewReader
}

func NewAccountQueryService(users UserStore, readRepo AccountViewReader) *AccountQueryService {
	return &AccountQueryService{users: users, readRepo: readRepo}
}

// ListAccounts returns the user's accounts in the store's natural retrieval
// order. An unknown user is an error, not an empty list.
func (s *AccountQueryService) ListAccounts(q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	ctx := context.Background()
	if _, err := s.users.FindByID(ctx, q.UserID); err != nil {
		return nil, err
	}
	return s.readRepo.ListByUserID(ctx, q.UserID)
}

// GetAccount fetches a single account view by number.
func (s *AccountQueryService) GetAccount(q cqrs.GetAccountQuery) (*models.AccountView, error) {
	return s.readRepo.GetByAccountNumber(context.Background(), q.AccountNumber)
}
