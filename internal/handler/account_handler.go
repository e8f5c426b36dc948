package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/middleware"
	"github.com/cranebank/account-service/internal/models"
	"github.com/gin-gonic/gin"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	OpenAccount(cqrs.OpenAccountCommand) (*models.Account, error)
	CloseAccount(cqrs.CloseAccountCommand) (*models.Account, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	ListAccounts(cqrs.ListAccountsQuery) ([]models.AccountView, error)
}

// AccountHandler handles account lifecycle HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

type OpenAccountRequest struct {
	UserID          int64  `json:"user_id" validate:"required,min=1"`
	AccountPassword string `json:"account_password" validate:"required,len=4"`
	InitialBalance  *int64 `json:"initial_balance" validate:"required,gte=0"`
	AccountName     string `json:"account_name" validate:"max=10"`
}

type OpenAccountResponse struct {
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	RegisteredAt  time.Time `json:"registered_at"`
}

type CloseAccountRequest struct {
	UserID          int64  `json:"user_id" validate:"required,min=1"`
	AccountNumber   string `json:"account_number" validate:"required,len=10"`
	AccountPassword string `json:"account_password" validate:"required,len=4"`
}

type CloseAccountResponse struct {
	UserID         int64      `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	UnregisteredAt *time.Time `json:"unregistered_at"`
}

type AccountInfo struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
	AccountName   string `json:"account_name"`
}

func (h *AccountHandler) OpenAccount(c *gin.Context) {
	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.OpenAccount(cqrs.OpenAccountCommand{
		UserID:          req.UserID,
		AccountPassword: req.AccountPassword,
		InitialBalance:  *req.InitialBalance,
		AccountName:     req.AccountName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, OpenAccountResponse{
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		AccountName:   account.Name,
		RegisteredAt:  account.RegisteredAt,
	})
}

func (h *AccountHandler) CloseAccount(c *gin.Context) {
	var req CloseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CloseAccount(cqrs.CloseAccountCommand{
		UserID:          req.UserID,
		AccountNumber:   req.AccountNumber,
		AccountPassword: req.AccountPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CloseAccountResponse{
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		UnregisteredAt: account.UnregisteredAt,
	})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID < 1 {
		middleware.RespondWithValidationError(c, []middleware.ValidationError{{
			Field:         "user_id",
			RejectedValue: c.Query("user_id"),
			Message:       "Value must be a positive integer",
		}})
		return
	}

	views, err := h.queries.ListAccounts(cqrs.ListAccountsQuery{UserID: userID})
	if err != nil {
		respondError(c, err)
		return
	}

	infos := make([]AccountInfo, 0, len(views))
	for _, v := range views {
		infos = append(infos, AccountInfo{
			AccountNumber: v.AccountNumber,
			Balance:       v.Balance,
			AccountName:   v.Name,
		})
	}
	c.JSON(http.StatusOK, infos)
}
