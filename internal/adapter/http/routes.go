package http

import "github.com/labstack/echo/v4"

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// Register mounts every route. authn resolves the caller for both groups and
// runs before idem, which wraps the mutating routes. Either may be nil.
func Register(e *echo.Echo, h *Handler, loans *LoanHandler, accounts *AccountHandler, authn, idem echo.MiddlewareFunc) {
	if authn == nil {
		authn = passthrough
	}
	if idem == nil {
		idem = passthrough
	}
	e.GET("/health", h.Health)

	a := e.Group("/accounts", authn)
	a.POST("", accounts.OpenAccount, idem)
	a.GET("/:account_id", accounts.GetAccount)
	a.POST("/:account_id/deposits", accounts.Deposit, idem)
	a.POST("/:account_id/tokens", accounts.IssueToken, idem)
	a.GET("/:account_id/entries", accounts.ListEntries)

	l := e.Group("/loans", authn)
	l.POST("", loans.CreateLoan, idem)
	l.GET("/:loan_id", loans.GetLoan)
	l.GET("/:loan_id/state", loans.GetLoanState)
	l.POST("/:loan_id/fund", loans.Fund, idem)
	l.POST("/:loan_id/reimburse", loans.Reimburse, idem)
}
