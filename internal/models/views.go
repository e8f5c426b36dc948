package models

import "time"

// AccountView is the read-optimised projection of an account.
// UserID is populated for ownership checks but never serialised to the API
// response; the stored password never leaves the write model at all.
type AccountView struct {
	AccountNumber  string        `json:"accountNumber"`
	UserID         int64         `json:"-"`
	Name           string        `json:"accountName"`
	Balance        int64         `json:"balance"`
	Status         AccountStatus `json:"status"`
	RegisteredAt   time.Time     `json:"registeredTimestamp"`
	UnregisteredAt *time.Time    `json:"unregisteredTimestamp,omitempty"`
}

// ToView converts the write model to its read projection.
func (a *Account) ToView() *AccountView {
	return &AccountView{
		AccountNumber:  a.AccountNumber,
		UserID:         a.UserID,
		Name:           a.Name,
		Balance:        a.Balance,
		Status:         a.Status,
		RegisteredAt:   a.RegisteredAt,
		UnregisteredAt: a.UnregisteredAt,
	}
}
