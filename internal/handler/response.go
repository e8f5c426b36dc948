package handler

import (
	"net/http"

	"github.com/cranebank/account-service/internal/apperr"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body for business failures. Status carries the
// stable taxonomy code, not the HTTP status.
type ErrorResponse struct {
	Status       int    `json:"status"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// httpStatusFor maps a taxonomy code to an HTTP status.
func httpStatusFor(code int) int {
	switch code {
	case apperr.ErrUserNotFound.Code,
		apperr.ErrAccountNotFound.Code,
		apperr.ErrTransactionNotFound.Code:
		return http.StatusNotFound
	case apperr.ErrUserAccountMismatch.Code,
		apperr.ErrPasswordMismatch.Code:
		return http.StatusForbidden
	case apperr.ErrMaxAccountNameLen.Code:
		return http.StatusBadRequest
	case apperr.ErrMaxAccountPerUser.Code,
		apperr.ErrAccountAlreadyClosed.Code,
		apperr.ErrBalanceNotEmpty.Code,
		apperr.ErrAmountExceedBalance.Code,
		apperr.ErrTransactionAccountMismatch.Code,
		apperr.ErrTransactionAmountMismatch.Code,
		apperr.ErrTooOldToCancel.Code:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes a business error, or a generic 500 for anything that
// is not part of the taxonomy.
func respondError(c *gin.Context, err error) {
	if e, ok := apperr.From(err); ok {
		c.JSON(httpStatusFor(e.Code), ErrorResponse{
			Status:       e.Code,
			ErrorCode:    e.Kind,
			ErrorMessage: e.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Internal server error",
	})
}
