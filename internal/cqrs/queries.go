package cqrs

// ListAccountsQuery fetches all accounts belonging to a user.
type ListAccountsQuery struct {
	UserID int64
}

// GetAccountQuery fetches a single account by account number.
type GetAccountQuery struct {
	AccountNumber string
}
