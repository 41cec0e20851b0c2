package http

import (
	"context"
	"net/http"

	"p2p-loan-escrow/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerID   string `json:"borrower_id"      validate:"required,hex32"`
	LenderID     string `json:"lender_id"        validate:"required,hex32,nefield=BorrowerID"`
	Principal    int64  `json:"principal"        validate:"gt=0"`
	Interest     int64  `json:"interest"         validate:"gte=0"`
	DurationSecs int64  `json:"duration_seconds" validate:"gte=0"`
}

// invokeReq is the value attached to a fund or reimburse call.
type invokeReq struct {
	Value *int64 `json:"value" validate:"required"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoanState(c echo.Context) error {
	dto, err := h.uc.State(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Fund(c echo.Context) error {
	return h.invoke(c, h.uc.Fund)
}

func (h *LoanHandler) Reimburse(c echo.Context) error {
	return h.invoke(c, h.uc.Reimburse)
}

func (h *LoanHandler) invoke(c echo.Context, call func(context.Context, loan.InvokeInput) (*loan.LoanDTO, error)) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return badRequest(c, "missing loan_id path param")
	}
	caller, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}
	var req invokeReq
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	dto, err := call(c.Request().Context(), loan.InvokeInput{
		LoanID: loanID,
		Caller: caller,
		Value:  *req.Value,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
