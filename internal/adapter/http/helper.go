package http

import (
	"p2p-loan-escrow/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

// callerID returns the account proven by the bearer token. ok is false for anonymous requests.
func callerID(c echo.Context) (string, bool) {
	id := middleware.CallerFrom(c)
	return id, id != ""
}

// bindAndValidate fills req from the body and runs the struct validator,
// writing the 400/422 response itself. handled is true when it did.
func bindAndValidate(c echo.Context, req any) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		return true, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return true, validationFailed(c, err)
	}
	return false, nil
}
