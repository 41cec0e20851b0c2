package http

import (
	"errors"
	"net/http"

	"p2p-loan-escrow/internal/domain/ledger"
	"p2p-loan-escrow/internal/domain/loan"

	"github.com/labstack/echo/v4"
)

// Error codes carried in ErrorResponse.Code next to the revert kinds.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeValidation        = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTerms      = "INVALID_TERMS"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInternal          = "INTERNAL"
)

// statusOf maps usecase errors onto HTTP. Reverts keep their reason string.
func statusOf(err error) (int, ErrorResponse) {
	switch kind := loan.KindOf(err); kind {
	case loan.KindUnauthorized:
		return http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: string(kind)}
	case loan.KindInvalidAmount:
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: string(kind)}
	case loan.KindNotMatured, loan.KindIllegalState:
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: string(kind)}
	}

	switch {
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNotFound}
	case errors.Is(err, loan.ErrInvalidTerms):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeInvalidTerms}
	case errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: string(loan.KindInvalidAmount)}
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired, ErrorResponse{Error: err.Error(), Code: CodeInsufficientFunds}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: CodeInternal}
	}
}

func respondError(c echo.Context, err error) error {
	status, body := statusOf(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeBadRequest})
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: CodeUnauthenticated})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeValidation,
		Details: ToFieldErrors(err),
	})
}
