package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/cranebank/account-service/internal/cqrs"
	"github.com/cranebank/account-service/internal/models"
	"github.com/gin-gonic/gin"
)

type mockTransactionLedger struct {
	useFn    func(cqrs.UseBalanceCommand) (*models.Transaction, error)
	cancelFn func(cqrs.CancelBalanceCommand) (*models.Transaction, error)
}

func (m *mockTransactionLedger) UseBalance(cmd cqrs.UseBalanceCommand) (*models.Transaction, error) {
	return m.useFn(cmd)
}

func (m *mockTransactionLedger) CancelBalance(cmd cqrs.CancelBalanceCommand) (*models.Transaction, error) {
	return m.cancelFn(cmd)
}

func newTransactionRouter(ledger *mockTransactionLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTransactionHandler(ledger)
	router := gin.New()
	router.POST("/v1/transactions/use", h.UseBalance)
	router.POST("/v1/transactions/cancel", h.CancelBalance)
	return router
}

func TestUseBalanceHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ledger := &mockTransactionLedger{
			useFn: func(cmd cqrs.UseBalanceCommand) (*models.Transaction, error) {
				if cmd.Amount != 2000 || cmd.AccountNumber != "1000000012" {
					t.Errorf("unexpected command: %+v", cmd)
				}
				return &models.Transaction{
					AccountNumber: "1000000012", Type: models.TypeDebit,
					Result: models.ResultSuccess, Amount: 2000,
					BalanceSnapshot: 7000, TransactionID: "aabbccdd",
					TransactedAt: time.Now().UTC(),
				}, nil
			},
		}
		router := newTransactionRouter(ledger)

		w := performJSON(t, router, http.MethodPost, "/v1/transactions/use", UseBalanceRequest{
			UserID: 10, AccountNumber: "1000000012", AccountPassword: "1234", Amount: 2000,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp TransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.TransactionID != "aabbccdd" || resp.TransactionResult != models.ResultSuccess {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("amount outside the allowed range", func(t *testing.T) {
		router := newTransactionRouter(&mockTransactionLedger{})
		for _, amount := range []int64{999, 100000001} {
			w := performJSON(t, router, http.MethodPost, "/v1/transactions/use", UseBalanceRequest{
				UserID: 10, AccountNumber: "1000000012", AccountPassword: "1234", Amount: amount,
			})
			if w.Code != http.StatusBadRequest {
				t.Errorf("amount %d: expected status 400, got %d", amount, w.Code)
			}
		}
	})

	errorCases := []struct {
		name     string
		err      *apperr.Error
		wantHTTP int
	}{
		{"user not found", apperr.ErrUserNotFound, http.StatusNotFound},
		{"account not found", apperr.ErrAccountNotFound, http.StatusNotFound},
		{"not the owner", apperr.ErrUserAccountMismatch, http.StatusForbidden},
		{"wrong password", apperr.ErrPasswordMismatch, http.StatusForbidden},
		{"account closed", apperr.ErrAccountAlreadyClosed, http.StatusUnprocessableEntity},
		{"amount exceeds balance", apperr.ErrAmountExceedBalance, http.StatusUnprocessableEntity},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockTransactionLedger{
				useFn: func(cqrs.UseBalanceCommand) (*models.Transaction, error) { return nil, tt.err },
			}
			router := newTransactionRouter(ledger)

			w := performJSON(t, router, http.MethodPost, "/v1/transactions/use", UseBalanceRequest{
				UserID: 10, AccountNumber: "1000000012", AccountPassword: "1234", Amount: 2000,
			})

			if w.Code != tt.wantHTTP {
				t.Fatalf("expected status %d, got %d: %s", tt.wantHTTP, w.Code, w.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.err.Code {
				t.Errorf("expected code %d, got %d", tt.err.Code, resp.Status)
			}
		})
	}
}

func TestCancelBalanceHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ledger := &mockTransactionLedger{
			cancelFn: func(cmd cqrs.CancelBalanceCommand) (*models.Transaction, error) {
				if cmd.TransactionID != "aabbccdd" {
					t.Errorf("unexpected command: %+v", cmd)
				}
				return &models.Transaction{
					AccountNumber: "1000000012", Type: models.TypeReversal,
					Result: models.ResultSuccess, Amount: 2000,
					BalanceSnapshot: 9000, TransactionID: "ffeeddcc",
					TransactedAt: time.Now().UTC(),
				}, nil
			},
		}
		router := newTransactionRouter(ledger)

		w := performJSON(t, router, http.MethodPost, "/v1/transactions/cancel", CancelBalanceRequest{
			TransactionID: "aabbccdd", AccountNumber: "1000000012", Amount: 2000,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp TransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.TransactionID != "ffeeddcc" {
			t.Errorf("expected the reversal token, got %s", resp.TransactionID)
		}
	})

	t.Run("missing transaction_id fails validation", func(t *testing.T) {
		router := newTransactionRouter(&mockTransactionLedger{})

		w := performJSON(t, router, http.MethodPost, "/v1/transactions/cancel", CancelBalanceRequest{
			AccountNumber: "1000000012", Amount: 2000,
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	errorCases := []struct {
		name     string
		err      *apperr.Error
		wantHTTP int
	}{
		{"transaction not found", apperr.ErrTransactionNotFound, http.StatusNotFound},
		{"different account", apperr.ErrTransactionAccountMismatch, http.StatusUnprocessableEntity},
		{"different amount", apperr.ErrTransactionAmountMismatch, http.StatusUnprocessableEntity},
		{"too old to cancel", apperr.ErrTooOldToCancel, http.StatusUnprocessableEntity},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockTransactionLedger{
				cancelFn: func(cqrs.CancelBalanceCommand) (*models.Transaction, error) { return nil, tt.err },
			}
			router := newTransactionRouter(ledger)

			w := performJSON(t, router, http.MethodPost, "/v1/transactions/cancel", CancelBalanceRequest{
				TransactionID: "aabbccdd", AccountNumber: "1000000012", Amount: 2000,
			})

			if w.Code != tt.wantHTTP {
				t.Errorf("expected status %d, got %d: %s", tt.wantHTTP, w.Code, w.Body.String())
			}
		})
	}
}
