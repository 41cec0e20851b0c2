package http

import (
	"net/http"
	"time"

	"p2p-loan-escrow/internal/auth"
	"p2p-loan-escrow/internal/usecase/account"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	uc     *account.Usecase
	tokens *auth.TokenManager
}

func NewAccountHandler(uc *account.Usecase, tokens *auth.TokenManager) *AccountHandler {
	return &AccountHandler{uc: uc, tokens: tokens}
}

// tokenResp is the bearer credential for an account. Opening an account is
// the only way to get a first token.
type tokenResp struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"token_expires_at"`
}

type openAccountResp struct {
	*account.AccountDTO
	tokenResp
}

type openAccountReq struct {
	InitialBalance int64 `json:"initial_balance" validate:"gte=0"`
}

type depositReq struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

func (h *AccountHandler) OpenAccount(c echo.Context) error {
	var req openAccountReq
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}
	dto, err := h.uc.Open(c.Request().Context(), req.InitialBalance)
	if err != nil {
		return respondError(c, err)
	}
	tok, exp, err := h.tokens.Issue(dto.AccountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, openAccountResp{AccountDTO: dto, tokenResp: tokenResp{AccessToken: tok, ExpiresAt: exp}})
}

// IssueToken refreshes the credential of the calling account.
func (h *AccountHandler) IssueToken(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}
	if caller != c.Param("account_id") {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "token can only be issued to its own account", Code: CodeForbidden})
	}
	if _, err := h.uc.Get(c.Request().Context(), caller); err != nil {
		return respondError(c, err)
	}
	tok, exp, err := h.tokens.Issue(caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: tok, ExpiresAt: exp})
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) Deposit(c echo.Context) error {
	var req depositReq
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}
	dto, err := h.uc.Deposit(c.Request().Context(), c.Param("account_id"), req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) ListEntries(c echo.Context) error {
	entries, err := h.uc.History(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": entries})
}
