package handler

import (
	"net/http"
	"time"

	"github.com/cranebank/account-service/internal/audit"
	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/middleware"
	"github.com/cranebank/account-service/internal/models"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles balance use and cancel requests. It talks to
// the ledger through the audit decorator, so rejected attempts leave a
// FAILURE row behind without the handler doing any bookkeeping itself.
type TransactionHandler struct {
	ledger audit.Ledger
}

func NewTransactionHandler(ledger audit.Ledger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type UseBalanceRequest struct {
	UserID          int64  `json:"user_id" validate:"required,min=1"`
	AccountNumber   string `json:"account_number" validate:"required,len=10"`
	AccountPassword string `json:"account_password" validate:"required,len=4"`
	Amount          int64  `json:"amount" validate:"required,min=1000,max=100000000"`
}

type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10"`
	Amount        int64  `json:"amount" validate:"required,min=1000,max=100000000"`
}

// TransactionResponse is the shared response shape of use and cancel.
type TransactionResponse struct {
	AccountNumber     string                   `json:"account_number"`
	TransactionResult models.TransactionResult `json:"transaction_result"`
	TransactionID     string                   `json:"transaction_id"`
	Amount            int64                    `json:"amount"`
	TransactedAt      time.Time                `json:"transacted_at"`
}

func transactionToResponse(txn *models.Transaction) TransactionResponse {
	return TransactionResponse{
		AccountNumber:     txn.AccountNumber,
		TransactionResult: txn.Result,
		TransactionID:     txn.TransactionID,
		Amount:            txn.Amount,
		TransactedAt:      txn.TransactedAt,
	}
}

func (h *TransactionHandler) UseBalance(c *gin.Context) {
	var req UseBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	txn, err := h.ledger.UseBalance(cqrs.UseBalanceCommand{
		UserID:          req.UserID,
		AccountNumber:   req.AccountNumber,
		AccountPassword: req.AccountPassword,
		Amount:          req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionToResponse(txn))
}

func (h *TransactionHandler) CancelBalance(c *gin.Context) {
	var req CancelBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	txn, err := h.ledger.CancelBalance(cqrs.CancelBalanceCommand{
		TransactionID: req.TransactionID,
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionToResponse(txn))
}
