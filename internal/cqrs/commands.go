package cqrs

type OpenAccountCommand struct {
	UserID          int64
	AccountPassword string
	InitialBalance  int64
	AccountName     string
}

type CloseAccountCommand struct {
	UserID          int64
	AccountNumber   string
	AccountPassword string
}

type UseBalanceCommand struct {
	UserID          int64
	AccountNumber   string
	AccountPassword string
	Amount          int64
}

type CancelBalanceCommand struct {
	TransactionID string
	AccountNumber string
	Amount        int64
}
